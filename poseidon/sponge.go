package poseidon

import "github.com/jules/supernova/field"

// NativeOps implements Ops[field.Element], the out-of-circuit arithmetic.
type NativeOps struct{}

func (NativeOps) Add(a, b field.Element) field.Element {
	var z field.Element
	z.Add(&a, &b)
	return z
}

func (NativeOps) AddConst(a field.Element, c *field.Element) field.Element {
	var z field.Element
	z.Add(&a, c)
	return z
}

func (NativeOps) Mul(a, b field.Element) field.Element {
	var z field.Element
	z.Mul(&a, &b)
	return z
}

func (NativeOps) Zero() field.Element { return field.Zero() }

// Sponge is a generic duplex sponge built on the Poseidon permutation. The
// native transcript (Sponge[field.Element]) and the in-circuit gadget
// sponge the circuit package builds are both instances of this same type,
// parameterized over different Ops implementations.
type Sponge[T any] struct {
	ops    Ops[T]
	params *Params
	state  []T
	pos    int // next absorb slot within the rate
}

// NewSponge creates a sponge with an all-zero initial state.
func NewSponge[T any](ops Ops[T], params *Params) *Sponge[T] {
	width := params.width()
	state := make([]T, width)
	for i := range state {
		state[i] = ops.Zero()
	}
	return &Sponge[T]{ops: ops, params: params, state: state}
}

// NewNativeSponge is the convenience constructor for the out-of-circuit
// transcript used by the native folder (spec.md §4.E.4) and the public-IO
// hash chain (spec.md §4.G).
func NewNativeSponge(params *Params) *Sponge[field.Element] {
	return NewSponge[field.Element](NativeOps{}, params)
}

// Absorb feeds elements into the sponge in order, permuting whenever the
// rate fills up — the absorption order is load-bearing (spec.md §4.G: "any
// re-ordering silently breaks verification"), so callers must pass elements
// in exactly the sequence the specification lists.
func (s *Sponge[T]) Absorb(elems ...T) {
	for _, e := range elems {
		s.state[s.pos] = s.ops.Add(s.state[s.pos], e)
		s.pos++
		if s.pos == s.params.Rate {
			s.permute()
		}
	}
}

func (s *Sponge[T]) permute() {
	s.state = Permute(s.ops, s.params, s.state)
	s.pos = 0
}

// Squeeze returns n output elements, permuting as needed.
func (s *Sponge[T]) Squeeze(n int) []T {
	if s.pos != 0 {
		// Any pending, non-full absorption is finalized before squeezing so
		// trailing elements are not silently dropped.
		s.permute()
	}
	out := make([]T, 0, n)
	for len(out) < n {
		for i := 0; i < s.params.Rate && len(out) < n; i++ {
			out = append(out, s.state[i])
		}
		if len(out) < n {
			s.permute()
		}
	}
	return out
}

// SqueezeOne returns a single squeezed element, matching spec.md §4.E.4's
// ".squeeze_one()".
func (s *Sponge[T]) SqueezeOne() T {
	return s.Squeeze(1)[0]
}
