// Package crr1cs implements the committed relaxed R1CS data object of
// spec.md §3.2: a relaxed R1CS instance-witness pair plus Pedersen
// commitments to its witness and error vectors.
package crr1cs

import (
	"fmt"

	"github.com/jules/supernova/field"
	"github.com/jules/supernova/pedersen"
	"github.com/jules/supernova/r1cs"
)

// CRR1CS is the folded data object spec.md §3.2 defines.
type CRR1CS struct {
	Shape *r1cs.Shape

	W []field.Element // length Shape.NWit
	X []field.Element // length Shape.NPub
	E []field.Element // length Shape.M
	U field.Element

	CommW field.Point
	CommE field.Point
	CommT field.Point

	// CommWTrace and CommETrace track the same quantity the augmented
	// circuit's in-circuit xyb fold (circuit.FoldPoint) can compute
	// without emulated curve arithmetic: a component-wise linear
	// recombination of the xyb triple, updated in lockstep by
	// fold.ApplyFold. They exist purely so the public-IO hash chain (which
	// the circuit can only absorb a linearly-foldable quantity into) has a
	// native counterpart that agrees bit for bit; CommW/CommE (the real
	// curve points) stay authoritative for Pedersen-commitment checks and
	// for the Fiat-Shamir randomness derivation, where a genuine binding
	// commitment is load-bearing (DESIGN.md, open-question decision 1).
	CommWTrace [3]field.Element
	CommETrace [3]field.Element

	Hash   field.Element
	Output []field.Element
}

// Arithmetization is the narrow capability surface spec.md's Design Notes
// (§9) calls for in place of a multi-representation trait object: a single
// concrete CRR1CS implements it, mirroring the original source's
// `Arithmetization` trait (SPEC_FULL.md §4). The proof driver and verifier
// use the concrete *CRR1CS type, not this interface.
type Arithmetization interface {
	IsSatisfied(gens *pedersen.Generators) (bool, error)
	HasCrossterms() bool
	GetOutput() []field.Element
	GetX() []field.Element
	WitnessCommitment() field.Point
}

// HasCrossterms reports E having a non-zero entry or u != 1, spec.md §3.2.
func (c *CRR1CS) HasCrossterms() bool {
	if !isOne(c.U) {
		return true
	}
	for _, e := range c.E {
		if !e.IsZero() {
			return true
		}
	}
	return false
}

// IsBaseCase reports whether c is the base-case instance: u=1, E=0, hash=0,
// W and X all-zero, and c.Shape equal to ref (the shape produced by the
// first synthesis for this slot), spec.md §3.2.
func (c *CRR1CS) IsBaseCase(ref *r1cs.Shape) bool {
	if !isOne(c.U) || !c.Hash.IsZero() {
		return false
	}
	if !c.Shape.SameShape(ref) {
		return false
	}
	for _, e := range c.E {
		if !e.IsZero() {
			return false
		}
	}
	for _, w := range c.W {
		if !w.IsZero() {
			return false
		}
	}
	for _, x := range c.X {
		if !x.IsZero() {
			return false
		}
	}
	return true
}

// IsSatisfied checks the satisfaction invariant of spec.md §3.2: for every
// row i, (A·z)[i]*(B·z)[i] = u*(C·z)[i] + E[i], and comm_W/comm_E match
// honest Pedersen commitments to W and E under gens.
func (c *CRR1CS) IsSatisfied(gens *pedersen.Generators) (bool, error) {
	if len(c.W) != c.Shape.NWit || len(c.X) != c.Shape.NPub || len(c.E) != c.Shape.M {
		return false, fmt.Errorf("crr1cs: vector length mismatch with shape")
	}
	z := c.Shape.BuildZ(c.X, c.W, c.U)
	az, bz, cz := c.Shape.EvalAll(z)
	for i := 0; i < c.Shape.M; i++ {
		var lhs, rhsMul, rhs field.Element
		lhs.Mul(&az[i], &bz[i])
		rhsMul.Mul(&c.U, &cz[i])
		rhs.Add(&rhsMul, &c.E[i])
		if !lhs.Equal(&rhs) {
			return false, nil
		}
	}

	commW, err := pedersen.Commit(gens, c.W)
	if err != nil {
		return false, err
	}
	if !commW.Equal(c.CommW) {
		return false, nil
	}
	commE, err := pedersen.Commit(gens, c.E)
	if err != nil {
		return false, err
	}
	if !commE.Equal(c.CommE) {
		return false, nil
	}
	return true, nil
}

// GetOutput, GetX, WitnessCommitment satisfy Arithmetization.
func (c *CRR1CS) GetOutput() []field.Element    { return c.Output }
func (c *CRR1CS) GetX() []field.Element         { return c.X }
func (c *CRR1CS) WitnessCommitment() field.Point { return c.CommW }

// Clone deep-copies c (the vectors are copied; Shape is shared), used by
// driver.New to build the initial Latest from a primed slot (SPEC_FULL.md
// §4, mirroring the original source's `Clone` derive on its
// arithmetization type).
func (c *CRR1CS) Clone() *CRR1CS {
	out := &CRR1CS{
		Shape:      c.Shape,
		U:          c.U,
		CommW:      c.CommW,
		CommE:      c.CommE,
		CommT:      c.CommT,
		CommWTrace: c.CommWTrace,
		CommETrace: c.CommETrace,
		Hash:       c.Hash,
		W:          append([]field.Element{}, c.W...),
		X:          append([]field.Element{}, c.X...),
		E:          append([]field.Element{}, c.E...),
		Output:     append([]field.Element{}, c.Output...),
	}
	return out
}

func isOne(e field.Element) bool {
	one := field.One()
	return e.Equal(&one)
}
