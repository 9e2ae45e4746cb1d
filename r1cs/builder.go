package r1cs

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/jules/supernova/field"
)

// Builder is the assignment collector of spec.md §4.D: it exposes
// alloc/alloc_input/enforce and finalizes into a Shape plus the concrete
// witness and instance vectors. Enforce checks each variable's index against
// the current public/witness lengths, O(1) per term; it also marks the
// referenced column positions in the touched bitset.BitSet, which nothing
// in this package reads back.
type Builder struct {
	public    []field.Element
	witness   []field.Element
	aRows     [][]Term
	bRows     [][]Term
	cRows     [][]Term
	touched   *bitset.BitSet // touched column indices seen so far, const excluded
	finalized bool
}

// NewBuilder returns an empty constraint system.
func NewBuilder() *Builder {
	return &Builder{touched: bitset.New(64)}
}

// Alloc allocates a new witness column holding value and returns its
// Variable handle.
func (b *Builder) Alloc(value field.Element) Variable {
	idx := len(b.witness)
	b.witness = append(b.witness, value)
	return Variable{Kind: KindWitness, Index: idx}
}

// AllocInput allocates a new public-input column.
func (b *Builder) AllocInput(value field.Element) Variable {
	idx := len(b.public)
	b.public = append(b.public, value)
	return Variable{Kind: KindPublic, Index: idx}
}

// NPub returns the number of public inputs allocated so far.
func (b *Builder) NPub() int { return len(b.public) }

// NWit returns the number of witness entries allocated so far.
func (b *Builder) NWit() int { return len(b.witness) }

// Enforce adds one constraint row (a . z)*(b . z) = (c . z). Variables
// referenced must already have been allocated (their Index must be within
// the builder's current public/witness slice lengths); this is the
// "column index <= n_x+n_w" half of spec.md §3.1's invariant, checked
// eagerly instead of deferred to ToMatrices.
func (b *Builder) Enforce(a, bLC, c LinearCombination) error {
	if b.finalized {
		return fmt.Errorf("r1cs: enforce called after finalize")
	}
	for _, lc := range []LinearCombination{a, bLC, c} {
		for _, t := range lc {
			if err := b.checkVar(t.Var); err != nil {
				return err
			}
		}
	}
	b.aRows = append(b.aRows, append(LinearCombination{}, a...))
	b.bRows = append(b.bRows, append(LinearCombination{}, bLC...))
	b.cRows = append(b.cRows, append(LinearCombination{}, c...))
	return nil
}

func (b *Builder) checkVar(v Variable) error {
	switch v.Kind {
	case KindConstant:
		b.touched.Set(0)
		return nil
	case KindPublic:
		if v.Index < 0 || v.Index >= len(b.public) {
			return fmt.Errorf("r1cs: public variable index %d out of range [0,%d)", v.Index, len(b.public))
		}
		b.touched.Set(uint(1 + v.Index))
		return nil
	case KindWitness:
		if v.Index < 0 || v.Index >= len(b.witness) {
			return fmt.Errorf("r1cs: witness variable index %d out of range [0,%d)", v.Index, len(b.witness))
		}
		b.touched.Set(uint(1 + len(b.public) + v.Index))
		return nil
	default:
		return fmt.Errorf("r1cs: unknown variable kind %d", v.Kind)
	}
}

// ToMatrices finalizes the builder into an immutable Shape plus the
// concrete witness and instance vectors, resolving every Variable to its
// absolute column now that n_x and n_w are fixed. Zero-coefficient terms
// are dropped so "coefficients non-zero" holds by construction.
func (b *Builder) ToMatrices() (*Shape, []field.Element, []field.Element, error) {
	if b.finalized {
		return nil, nil, nil, fmt.Errorf("r1cs: builder already finalized")
	}
	b.finalized = true

	nPub := len(b.public)
	resolve := func(v Variable) int {
		switch v.Kind {
		case KindConstant:
			return 0
		case KindPublic:
			return 1 + v.Index
		default:
			return 1 + nPub + v.Index
		}
	}

	convert := func(rows [][]Term) [][]ShapeTerm {
		out := make([][]ShapeTerm, len(rows))
		for i, row := range rows {
			converted := make([]ShapeTerm, 0, len(row))
			for _, t := range row {
				if t.Coeff.IsZero() {
					continue
				}
				converted = append(converted, ShapeTerm{Coeff: t.Coeff, Col: resolve(t.Var)})
			}
			out[i] = converted
		}
		return out
	}

	shape := &Shape{
		M:    len(b.aRows),
		NPub: nPub,
		NWit: len(b.witness),
		A:    convert(b.aRows),
		B:    convert(b.bRows),
		C:    convert(b.cRows),
	}

	instance := make([]field.Element, len(b.public))
	copy(instance, b.public)
	witness := make([]field.Element, len(b.witness))
	copy(witness, b.witness)

	return shape, instance, witness, nil
}
