package iohash

import (
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/poseidon"
)

// ComputeNative is the out-of-circuit instantiation of Compute, used by the
// proof driver (to seed a fresh CRR1CS's Hash, spec.md §4.F.10) and the
// verifier (to recheck it, spec.md §4.I.1).
//
// commWTrace/commETrace are the linearly-folded commitment trace
// (crr1cs.CRR1CS.CommWTrace/CommETrace), not the real curve-point
// commitment: the hash chain absorbs whatever quantity the in-circuit fold
// can actually compute (circuit.FoldPoint's component-wise recombination),
// and these traces are the native quantity that agrees with it bit for bit
// (DESIGN.md, open-question decision 1).
func ComputeNative(consts *poseidon.Params, params, i, pc field.Element, z0, outputNew []field.Element, commWTrace, commETrace [3]field.Element, uNew, hashNew field.Element) field.Element {
	return Compute[field.Element](poseidon.NativeOps{}, consts, params, i, pc, z0, outputNew, commWTrace, commETrace, uNew, hashNew)
}
