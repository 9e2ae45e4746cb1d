// Package iohash computes the public-IO hash chain of spec.md §4.G. It is
// factored out of both the native driver/verifier and the in-circuit
// augmented-circuit packages so the two call sites share one definition of
// the absorption order instead of two hand-synced copies — the same
// generics trick poseidon.Permute uses for the sponge itself.
package iohash

import "github.com/jules/supernova/poseidon"

// Compute absorbs, in exactly the order spec.md §4.G specifies:
//
//	params, i, pc, z0..., outputNew..., commWNew.xyb, commENew.xyb, uNew, hashNew
//
// and returns the single squeezed digest. T is field.Element for the native
// driver/verifier and circuit.Var for the augmented circuit; ops supplies
// the arithmetic for whichever T is in play.
func Compute[T any](ops poseidon.Ops[T], consts *poseidon.Params, params, i, pc T, z0, outputNew []T, commWNewXYB, commENewXYB [3]T, uNew, hashNew T) T {
	sponge := poseidon.NewSponge[T](ops, consts)
	sponge.Absorb(params, i, pc)
	sponge.Absorb(z0...)
	sponge.Absorb(outputNew...)
	sponge.Absorb(commWNewXYB[:]...)
	sponge.Absorb(commENewXYB[:]...)
	sponge.Absorb(uNew, hashNew)
	return sponge.SqueezeOne()
}
