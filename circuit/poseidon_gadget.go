package circuit

import (
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/poseidon"
)

// gadgetOps implements poseidon.Ops[Var], letting the augmented circuit run
// poseidon.Permute / poseidon.Sponge over in-circuit variables using
// exactly the same permutation code the native transcript uses (see
// poseidon.Permute's doc comment) — this is what makes "both must agree
// bit-exactly" (spec.md §4.C) a structural guarantee instead of a
// maintenance burden.
type gadgetOps struct {
	b *Builder
}

func (g gadgetOps) Add(a, b Var) Var          { return g.b.Add(a, b) }
func (g gadgetOps) Mul(a, b Var) Var          { return g.b.Mul(a, b) }
func (g gadgetOps) Zero() Var                 { return g.b.Constant(field.Zero()) }
func (g gadgetOps) AddConst(a Var, c *field.Element) Var {
	return g.b.Add(a, g.b.Constant(*c))
}

// NewGadgetSponge builds the in-circuit counterpart of
// poseidon.NewNativeSponge, operating over Var instead of field.Element.
func NewGadgetSponge(b *Builder, params *poseidon.Params) *poseidon.Sponge[Var] {
	return poseidon.NewSponge[Var](gadgetOps{b: b}, params)
}
