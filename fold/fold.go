// Package fold implements the native folding operator of spec.md §4.E: it
// combines two committed relaxed R1CS instances over the same shape into
// one, preserving satisfiability.
package fold

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/jules/supernova/crr1cs"
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/pedersen"
	"github.com/jules/supernova/poseidon"
	"github.com/jules/supernova/r1cs"
)

// ComputeCrossTerm computes the cross-term vector T and its commitment for
// folding (self, other), spec.md §4.E.1-3. It is factored out of Fold, as
// in the original source's R1CS::commit_t, so the augmented circuit's
// synthesis step (circuit.Synthesize) and the native fold below can agree
// on the exact same comm_T: the driver computes it once per update and
// feeds the identical value into both (SPEC_FULL.md §4, DESIGN.md).
func ComputeCrossTerm(self, other *crr1cs.CRR1CS, gens *pedersen.Generators) (T []field.Element, commT field.Point, err error) {
	if !self.Shape.SameShape(other.Shape) {
		return nil, field.Point{}, fmt.Errorf("fold: operands have different shapes")
	}
	shape := self.Shape

	zSelf := shape.BuildZ(self.X, self.W, self.U)
	zOther := shape.BuildZ(other.X, other.W, other.U)

	azS, bzS, czS, azO, bzO, czO, err := evalBothParallel(shape, zSelf, zOther)
	if err != nil {
		return nil, field.Point{}, err
	}

	T, err = crossTerms(azS, bzS, czS, azO, bzO, czO, self.U)
	if err != nil {
		return nil, field.Point{}, err
	}

	commT, err = pedersen.Commit(gens, T)
	if err != nil {
		return nil, field.Point{}, err
	}
	// field.Point always normalizes the curve's native identity to the
	// deterministic sentinel (0,1,true); no extra substitution is needed
	// here, and crucially none of it comes from randomness (spec.md §4.E.3,
	// §9 "never sample it randomly").
	return T, commT, nil
}

// Fold mutates self in place into the fold of (self, other), per spec.md
// §4.E: self.u accumulates, self.E absorbs the weighted cross-terms, and
// the commitments/hash update homomorphically. other is left untouched.
// It computes its own cross-term; use ApplyFold instead when a caller (the
// proof driver) has already computed one via ComputeCrossTerm and the two
// must agree on the identical value.
func Fold(self, other *crr1cs.CRR1CS, consts *poseidon.Params, gens *pedersen.Generators, params field.Element) error {
	T, commT, err := ComputeCrossTerm(self, other, gens)
	if err != nil {
		return err
	}
	return ApplyFold(self, other, T, commT, consts, params)
}

// ApplyFold performs steps 4-5 of spec.md §4.E using a precomputed cross
// term vector and commitment, leaving other untouched and mutating self in
// place.
func ApplyFold(self, other *crr1cs.CRR1CS, T []field.Element, commT field.Point, consts *poseidon.Params, params field.Element) error {
	sponge := poseidon.NewNativeSponge(consts)
	selfCommWXYB := self.CommW.XYB()
	selfCommEXYB := self.CommE.XYB()
	otherCommWXYB := other.CommW.XYB()
	commTXYB := commT.XYB()
	sponge.Absorb(params)
	sponge.Absorb(selfCommWXYB[:]...)
	sponge.Absorb(selfCommEXYB[:]...)
	sponge.Absorb(self.U, self.Hash)
	sponge.Absorb(otherCommWXYB[:]...)
	sponge.Absorb(other.Hash)
	sponge.Absorb(commTXYB[:]...)
	r := sponge.SqueezeOne()

	self.W = addScaled(self.W, other.W, &r)
	self.X = addScaled(self.X, other.X, &r)
	self.E = addScaled(self.E, T, &r)

	var newU field.Element
	newU.Add(&self.U, &r)
	self.U = newU

	self.CommW = self.CommW.Add(other.CommW.ScalarMul(&r))
	self.CommE = self.CommE.Add(commT.ScalarMul(&r))

	// The trace triples fold by the same component-wise linear
	// recombination the augmented circuit applies to its xyb witnesses
	// (circuit.FoldPoint), so that iohash.ComputeNative run against these
	// fields reproduces exactly the hash the circuit stamped (DESIGN.md,
	// open-question decision 1). self.CommE folds against commT's own
	// trace, not other's, mirroring the real CommE update above.
	self.CommWTrace = foldXYB(self.CommWTrace, other.CommWTrace, &r)
	self.CommETrace = foldXYB(self.CommETrace, commTXYB, &r)

	var newHash field.Element
	var rOtherHash field.Element
	rOtherHash.Mul(&r, &other.Hash)
	newHash.Add(&self.Hash, &rOtherHash)
	self.Hash = newHash

	self.CommT = commT
	return nil
}

// foldXYB returns p + r*q component-wise, the native counterpart of
// circuit.FoldPoint's in-circuit xyb recombination.
func foldXYB(p, q [3]field.Element, r *field.Element) [3]field.Element {
	var out [3]field.Element
	for k := range p {
		var scaled, sum field.Element
		scaled.Mul(r, &q[k])
		sum.Add(&p[k], &scaled)
		out[k] = sum
	}
	return out
}

func addScaled(a, b []field.Element, r *field.Element) []field.Element {
	out := make([]field.Element, len(a))
	for i := range a {
		var scaled, sum field.Element
		scaled.Mul(r, &b[i])
		sum.Add(&a[i], &scaled)
		out[i] = sum
	}
	return out
}

// evalBothParallel computes A·z/B·z/C·z for both operands, each product
// issued as an independent job and joined before crossTerms runs, per the
// §5 concurrency model ("issue each of A·z/B·z/C·z as independent jobs,
// then join").
func evalBothParallel(shape *r1cs.Shape, zSelf, zOther []field.Element) (azS, bzS, czS, azO, bzO, czO []field.Element, err error) {
	var g errgroup.Group
	g.Go(func() error { azS = evalCol(shape.A, zSelf); return nil })
	g.Go(func() error { bzS = evalCol(shape.B, zSelf); return nil })
	g.Go(func() error { czS = evalCol(shape.C, zSelf); return nil })
	g.Go(func() error { azO = evalCol(shape.A, zOther); return nil })
	g.Go(func() error { bzO = evalCol(shape.B, zOther); return nil })
	g.Go(func() error { czO = evalCol(shape.C, zOther); return nil })
	err = g.Wait()
	return
}

func evalCol(mat [][]r1cs.ShapeTerm, z []field.Element) []field.Element {
	out := make([]field.Element, len(mat))
	for i, row := range mat {
		out[i] = r1cs.EvalRow(row, z)
	}
	return out
}

// crossTerms computes T[i] per spec.md §4.E.2, data-parallel over row
// index using a chunked errgroup.Group, matching "the large cross-term
// sum" being embarrassingly parallel over i.
func crossTerms(azS, bzS, czS, azO, bzO, czO []field.Element, uSelf field.Element) ([]field.Element, error) {
	m := len(azS)
	T := make([]field.Element, m)
	const chunkSize = 512
	var g errgroup.Group
	for start := 0; start < m; start += chunkSize {
		start := start
		end := start + chunkSize
		if end > m {
			end = m
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				var t1, t2, t3, t4, acc field.Element
				t1.Mul(&azS[i], &bzO[i])
				t2.Mul(&azO[i], &bzS[i])
				t3.Mul(&uSelf, &czO[i])
				t4 = czS[i]
				acc.Add(&t1, &t2)
				acc.Sub(&acc, &t3)
				acc.Sub(&acc, &t4)
				T[i] = acc
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return T, nil
}
