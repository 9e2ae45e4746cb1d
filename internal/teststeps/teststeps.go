// Package teststeps provides concrete StepCircuit implementations used by
// this module's own tests and by spec.md §8's scenario tests: the cubic
// f(x) = x³+x+5 and the quadratic g(x) = x²+x+5.
package teststeps

import (
	"github.com/jules/supernova/circuit"
	"github.com/jules/supernova/field"
)

// Cubic computes f(x) = x^3 + x + 5, the step circuit spec.md §8's
// scenarios run against.
type Cubic struct{}

func (Cubic) OutputLen() int { return 1 }

func (Cubic) Generate(cs *circuit.Builder, z []circuit.Var) ([]circuit.Var, error) {
	x := z[0]
	x2 := cs.Mul(x, x)
	x3 := cs.Mul(x2, x)
	five := cs.Constant(field.FromUint64(5))
	return []circuit.Var{cs.Add(cs.Add(x3, x), five)}, nil
}

// Quadratic computes g(x) = x^2 + x + 5, the second circuit in spec.md
// §8 scenario 3's interleaved two-slot test.
type Quadratic struct{}

func (Quadratic) OutputLen() int { return 1 }

func (Quadratic) Generate(cs *circuit.Builder, z []circuit.Var) ([]circuit.Var, error) {
	x := z[0]
	x2 := cs.Mul(x, x)
	five := cs.Constant(field.FromUint64(5))
	return []circuit.Var{cs.Add(cs.Add(x2, x), five)}, nil
}
