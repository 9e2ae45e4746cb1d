// Package poseidon implements the transcript hash used throughout the
// folding scheme (spec component C): a sponge built on the Poseidon
// permutation, generic over the arithmetic it runs on so that the native
// (out-of-circuit) sponge and the in-circuit gadget sponge are, byte for
// byte, the same algorithm — the only way to honor spec.md §4.C's "both
// must agree bit-exactly" requirement without a second implementation to
// drift out of sync.
//
// Parameter selection (rate, capacity, round counts, round constants, MDS
// matrix) is a caller concern per spec.md; DefaultParams below derives a
// usable instance deterministically so tests and examples do not need a
// hand-maintained constants table.
package poseidon

import (
	"math/bits"

	"golang.org/x/crypto/sha3"

	"github.com/jules/supernova/field"
)

// Params fixes one Poseidon instantiation: rate r, capacity c, full rounds
// f, partial rounds p, and s-box exponent alpha (spec.md §4.C).
type Params struct {
	Rate          int
	Capacity      int
	FullRounds    int
	PartialRounds int
	Alpha         uint64

	// RoundConstants has FullRounds+PartialRounds rows, each of width
	// Rate+Capacity, added to the state at the start of every round.
	RoundConstants [][]field.Element
	// MDS is the (Rate+Capacity)x(Rate+Capacity) mixing matrix applied at
	// the end of every round.
	MDS [][]field.Element
}

func (p *Params) width() int { return p.Rate + p.Capacity }

// DefaultParams derives a deterministic Poseidon instance for the given
// rate/capacity/round counts by expanding a fixed domain tag with a SHAKE256
// XOF, the same "expand-a-domain-tag with an XOF" technique spec.md §4.B
// prescribes for Pedersen generators. It is a reasonable default for tests
// and examples; production callers are expected to supply audited
// parameters instead (spec.md treats parameter choice as external).
func DefaultParams(rate, capacity, fullRounds, partialRounds int) *Params {
	width := rate + capacity
	p := &Params{
		Rate:          rate,
		Capacity:      capacity,
		FullRounds:    fullRounds,
		PartialRounds: partialRounds,
		Alpha:         5,
	}

	xof := sha3.NewShake256()
	_, _ = xof.Write([]byte("supernova/poseidon/round-constants/v1"))

	nRounds := fullRounds + partialRounds
	p.RoundConstants = make([][]field.Element, nRounds)
	for r := 0; r < nRounds; r++ {
		row := make([]field.Element, width)
		for i := 0; i < width; i++ {
			row[i] = squeezeElement(xof)
		}
		p.RoundConstants[r] = row
	}

	mdsXof := sha3.NewShake256()
	_, _ = mdsXof.Write([]byte("supernova/poseidon/mds/v1"))
	p.MDS = make([][]field.Element, width)
	for i := 0; i < width; i++ {
		row := make([]field.Element, width)
		for j := 0; j < width; j++ {
			// Every entry is an independent XOF-derived scalar; the matrix
			// is not checked to be MDS. It is dense (every entry influences
			// every output), which is what callers swapping in real MDS
			// constants expect the shape of this field to look like.
			row[j] = squeezeElement(mdsXof)
		}
		p.MDS[i] = row
	}

	return p
}

func squeezeElement(xof sha3.ShakeHash) field.Element {
	var buf [48]byte
	_, _ = xof.Read(buf[:])
	var e field.Element
	e.SetBytes(buf[:])
	return e
}

// Ops is the arithmetic a Poseidon permutation needs, implemented once for
// the native field (NativeOps) and once per the in-circuit variable type by
// the circuit package (whose gadget sponge is built with this same Permute
// function, just instantiated over Ops[circuit.Var] instead of
// Ops[field.Element]).
type Ops[T any] interface {
	Add(a, b T) T
	AddConst(a T, c *field.Element) T
	Mul(a, b T) T
	Zero() T
}

// Permute runs the full Poseidon permutation over state in place-equivalent
// fashion (returns the new state), using ops for every arithmetic step. It
// is the single source of truth for the permutation: the native
// Sponge[field.Element] and the circuit gadget sponge both call it, so they
// cannot silently diverge.
func Permute[T any](ops Ops[T], p *Params, state []T) []T {
	width := p.width()
	if len(state) != width {
		panic("poseidon: state width mismatch")
	}
	out := make([]T, width)
	copy(out, state)

	nRounds := p.FullRounds + p.PartialRounds
	halfFull := p.FullRounds / 2

	for r := 0; r < nRounds; r++ {
		rc := p.RoundConstants[r]
		for i := 0; i < width; i++ {
			out[i] = ops.AddConst(out[i], &rc[i])
		}

		full := r < halfFull || r >= halfFull+p.PartialRounds
		if full {
			for i := 0; i < width; i++ {
				out[i] = sbox(ops, out[i], p.Alpha)
			}
		} else {
			out[0] = sbox(ops, out[0], p.Alpha)
		}

		mixed := make([]T, width)
		for i := 0; i < width; i++ {
			mixed[i] = mixRow(ops, out, p.MDS[i])
		}
		out = mixed
	}
	return out
}

// mixRow computes sum_j MDS[i][j] * state[j] using only Add/Mul/AddConst,
// matching the constraints a real circuit gadget would emit.
func mixRow[T any](ops Ops[T], state []T, row []field.Element) T {
	acc := ops.Zero()
	for j := range state {
		acc = ops.Add(acc, ops.Mul(state[j], constAsT(ops, &row[j])))
	}
	return acc
}

// constAsT lifts a field constant into T by adding it to the additive
// identity; this keeps Ops minimal (no separate "constant" constructor is
// needed beyond Zero+AddConst).
func constAsT[T any](ops Ops[T], c *field.Element) T {
	return ops.AddConst(ops.Zero(), c)
}

// sbox raises a to alpha by square-and-multiply; for alpha=5 this is the
// three multiplications a*a, a²*a², a⁴*a.
func sbox[T any](ops Ops[T], a T, alpha uint64) T {
	out := a
	for bit := bits.Len64(alpha) - 2; bit >= 0; bit-- {
		out = ops.Mul(out, out)
		if (alpha>>uint(bit))&1 == 1 {
			out = ops.Mul(out, a)
		}
	}
	return out
}
