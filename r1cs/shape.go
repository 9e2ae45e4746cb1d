// Package r1cs implements the sparse rank-1 constraint system shape,
// assignment collector, and shape digest of spec.md §4.D.
package r1cs

import "github.com/jules/supernova/field"

// ShapeTerm is a finalized (coefficient, absolute-column) pair. Column 0
// holds the relaxation scalar u (1 for a non-relaxed/fresh instance),
// columns [1, NPub] are the public inputs, columns (NPub, NPub+NWit] are
// the witness.
type ShapeTerm struct {
	Coeff field.Element
	Col   int
}

// Shape is Shape = (m, n_w, n_x, A, B, C) from spec.md §3.1: m constraints,
// n_w witness entries, n_x public inputs, and sparse m x (1+n_x+n_w)
// matrices A, B, C. The invariant "row index < m; column index <=
// n_x+n_w; coefficients non-zero" is established once at construction
// (Builder.ToMatrices) and never violated afterward since Shape is
// immutable.
type Shape struct {
	M    int
	NPub int
	NWit int
	A    [][]ShapeTerm
	B    [][]ShapeTerm
	C    [][]ShapeTerm
}

// Width returns 1+n_x+n_w, the length of a full assignment vector z.
func (s *Shape) Width() int { return 1 + s.NPub + s.NWit }

// BuildZ assembles z = (u, x, W) from the public and witness vectors and
// the instance's relaxation scalar u. Column 0 holds u, not a hardcoded 1:
// the relaxed R1CS relation (Az∘Bz)[i] = u·Cz[i] + E[i] (spec.md §4.E) only
// holds when the constant slot tracks u, matching the original source's
// `z1 = concat(witness, [self.u], instance)` (circuit.rs).
func (s *Shape) BuildZ(instance, witness []field.Element, u field.Element) []field.Element {
	z := make([]field.Element, s.Width())
	z[0] = u
	copy(z[1:1+s.NPub], instance)
	copy(z[1+s.NPub:], witness)
	return z
}

// EvalRow computes (row . z).
func EvalRow(row []ShapeTerm, z []field.Element) field.Element {
	var acc field.Element
	for _, t := range row {
		var term field.Element
		term.Mul(&t.Coeff, &z[t.Col])
		acc.Add(&acc, &term)
	}
	return acc
}

// EvalAll evaluates A·z, B·z, C·z for every row, returning three vectors of
// length s.M.
func (s *Shape) EvalAll(z []field.Element) (az, bz, cz []field.Element) {
	az = make([]field.Element, s.M)
	bz = make([]field.Element, s.M)
	cz = make([]field.Element, s.M)
	for i := 0; i < s.M; i++ {
		az[i] = EvalRow(s.A[i], z)
		bz[i] = EvalRow(s.B[i], z)
		cz[i] = EvalRow(s.C[i], z)
	}
	return
}

// SameShape reports whether two shapes have identical dimensions and
// matrices; used by the priming/base-case check of spec.md §3.2.
func (s *Shape) SameShape(other *Shape) bool {
	if s.M != other.M || s.NPub != other.NPub || s.NWit != other.NWit {
		return false
	}
	eq := func(a, b [][]ShapeTerm) bool {
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if len(a[i]) != len(b[i]) {
				return false
			}
			for j := range a[i] {
				if a[i][j].Col != b[i][j].Col || !a[i][j].Coeff.Equal(&b[i][j].Coeff) {
					return false
				}
			}
		}
		return true
	}
	return eq(s.A, other.A) && eq(s.B, other.B) && eq(s.C, other.C)
}
