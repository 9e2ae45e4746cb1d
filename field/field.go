// Package field pins the scalar field and curve group used throughout the
// prover/verifier (spec component A) to a single concrete instantiation,
// gnark-crypto's BLS12-381, and isolates the point-at-infinity sentinel
// discipline described by the specification behind one type: Point.
package field

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Element is the scalar field 𝔽. It is gnark-crypto's fr.Element directly;
// nothing in this module needs to hide its representation.
type Element = fr.Element

// Zero returns the additive identity of 𝔽.
func Zero() Element {
	var z Element
	return z
}

// One returns the multiplicative identity of 𝔽.
func One() Element {
	var o Element
	o.SetOne()
	return o
}

// FromUint64 lifts a small non-negative integer into 𝔽.
func FromUint64(v uint64) Element {
	var e Element
	e.SetUint64(v)
	return e
}

// FromInt64 lifts a small integer into 𝔽.
func FromInt64(v int64) Element {
	var e Element
	e.SetInt64(v)
	return e
}

// Point wraps the curve group 𝔾 (BLS12-381's G1) and carries the
// sentinel-infinity discipline mandated by spec.md §4.A: arkworks-style
// curves (and, for safety, this one too) cannot represent the identity as a
// single fixed witness triple, so every point that would otherwise be the
// identity is canonicalized to the sentinel (0, 1, true) the moment it is
// produced, and every consumer reads IsInfinity() instead of comparing
// affine coordinates to the curve's native identity encoding.
type Point struct {
	aff         bls12381.G1Affine
	isInfinity  bool
}

// Identity returns the sentinel representation of the point at infinity.
// This is the *only* constructor in this package allowed to set isInfinity;
// every arithmetic operation below normalizes through it.
func Identity() Point {
	return Point{isInfinity: true}
}

// FromAffine wraps a raw gnark-crypto affine point, normalizing the native
// identity encoding into the sentinel.
func FromAffine(a bls12381.G1Affine) Point {
	if a.IsInfinity() {
		return Identity()
	}
	return Point{aff: a}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	if p.isInfinity {
		return q
	}
	if q.isInfinity {
		return p
	}
	var pj, qj bls12381.G1Jac
	pj.FromAffine(&p.aff)
	qj.FromAffine(&q.aff)
	pj.AddAssign(&qj)
	var out bls12381.G1Affine
	out.FromJacobian(&pj)
	return FromAffine(out)
}

// ScalarMul returns s·p.
func (p Point) ScalarMul(s *Element) Point {
	if p.isInfinity {
		return Identity()
	}
	var sBig big.Int
	s.BigInt(&sBig)
	if sBig.Sign() == 0 {
		return Identity()
	}
	var out bls12381.G1Affine
	out.ScalarMultiplication(&p.aff, &sBig)
	return FromAffine(out)
}

// IsInfinity reports whether p is the sentinel identity.
func (p Point) IsInfinity() bool {
	return p.isInfinity
}

// Affine returns the underlying gnark-crypto point together with a flag
// telling the caller whether it should be interpreted as the identity,
// for callers that need the raw gnark-crypto point. pedersen.Commit does
// not use it; it works through ScalarMul and Add.
func (p Point) Affine() (bls12381.G1Affine, bool) {
	return p.aff, p.isInfinity
}

// XYB returns the three field-element "unrolling" (x, y, is_infinity) that
// spec.md §4.E.4 and §4.G absorb into every Poseidon transcript: `p.xyb`.
// For the sentinel identity this is exactly (0, 1, true) per §4.A.
func (p Point) XYB() [3]Element {
	if p.isInfinity {
		var zero, one, flag Element
		one.SetOne()
		flag.SetOne()
		return [3]Element{zero, one, flag}
	}
	var x, y, flag Element
	x.SetBigInt(p.aff.X.BigInt(new(big.Int)))
	y.SetBigInt(p.aff.Y.BigInt(new(big.Int)))
	return [3]Element{x, y, flag}
}

// Equal reports structural equality, used by tests and satisfaction checks.
func (p Point) Equal(q Point) bool {
	if p.isInfinity != q.isInfinity {
		return false
	}
	if p.isInfinity {
		return true
	}
	return p.aff.Equal(&q.aff)
}

func (p Point) String() string {
	if p.isInfinity {
		return "Point(infinity)"
	}
	return fmt.Sprintf("Point(%s)", p.aff.String())
}
