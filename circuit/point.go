package circuit

import "github.com/jules/supernova/field"

// PointVar is the in-circuit representation of a field.Point: the
// (x, y, is_infinity) unrolling spec.md §4.A calls `.xyb`, carried as three
// plain scalar-field witnesses rather than a non-native elliptic-curve
// point.
//
// DESIGN.md (open-question decision 1) records the scope decision this encodes: the
// augmented circuit never re-derives true curve-point addition/scalar
// multiplication in-circuit (that needs a non-native base-field gadget a
// cycle or emulated-field layer away from the scalar field these
// constraints live in — real Nova-family implementations solve it with a
// curve cycle or gnark's std/algebra/emulated). Instead the circuit folds
// the xyb triple component-wise; that linear fold is authoritative only
// for the public-IO hash chain, which is why crr1cs.CRR1CS keeps a
// parallel CommWTrace/CommETrace fed by the identical recombination
// (fold.foldXYB) alongside the real CommW/CommE fields. The real curve
// arithmetic (fold.ApplyFold's Add/ScalarMul) and the Pedersen-equality
// check (crr1cs.IsSatisfied) still operate only on CommW/CommE — the
// in-circuit xyb fold is never a substitute for either.
type PointVar [3]Var

// AllocPoint allocates a PointVar from a concrete field.Point.
func (b *Builder) AllocPoint(p field.Point) PointVar {
	return b.AllocTriple(p.XYB())
}

// AllocTriple allocates a PointVar directly from a raw xyb triple, used for
// the commitment trace fields (crr1cs.CRR1CS.CommWTrace/CommETrace) that
// carry a linearly-folded coordinate rather than a genuine curve point.
func (b *Builder) AllocTriple(xyb [3]field.Element) PointVar {
	return PointVar{b.Alloc(xyb[0]), b.Alloc(xyb[1]), b.Alloc(xyb[2])}
}

// FoldPoint returns p + r·q component-wise over the xyb triple, mirroring
// fold.ApplyFold's `comm_self + r*comm_other` update (spec.md §4.F.5).
func (b *Builder) FoldPoint(p, q PointVar, r Var) PointVar {
	var out PointVar
	for k := 0; k < 3; k++ {
		out[k] = b.Add(p[k], b.Mul(r, q[k]))
	}
	return out
}

// SelectPoint chooses p if cond==1 else q, component-wise.
func (b *Builder) SelectPoint(cond Var, p, q PointVar) PointVar {
	var out PointVar
	for k := 0; k < 3; k++ {
		out[k] = b.Select(cond, p[k], q[k])
	}
	return out
}
