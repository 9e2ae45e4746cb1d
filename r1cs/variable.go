package r1cs

import "github.com/jules/supernova/field"

// VarKind distinguishes the three column classes of an R1CS assignment
// vector z = (1, x, W): the fixed constant, a public input, or a witness.
type VarKind uint8

const (
	KindConstant VarKind = iota
	KindPublic
	KindWitness
)

// Variable names one column of z while a circuit is still being built,
// before the final instance/witness lengths (and therefore absolute column
// indices) are known. Builder resolves Variables to concrete Shape columns
// at ToMatrices time.
type Variable struct {
	Kind  VarKind
	Index int // meaningless for KindConstant
}

// One is the fixed constant-1 column shared by every R1CS instance.
var One = Variable{Kind: KindConstant}

// Term is a coefficient paired with a Variable, the atom of a linear
// combination passed to Builder.Enforce.
type Term struct {
	Coeff field.Element
	Var   Variable
}

// LinearCombination is a sparse sum of Terms, i.e. a row of A, B, or C
// restricted to the variables actually appearing in one constraint.
type LinearCombination []Term

// Add appends a coefficient*variable term and returns the (mutated) slice,
// mirroring the builder-pattern LinearCombination assembly idiom used
// throughout R1CS-shaped frontends.
func (lc LinearCombination) Add(coeff field.Element, v Variable) LinearCombination {
	return append(lc, Term{Coeff: coeff, Var: v})
}

// LC is a convenience constructor: LC(c1, v1, c2, v2, ...).
func LC(pairs ...interface{}) LinearCombination {
	if len(pairs)%2 != 0 {
		panic("r1cs: LC requires coefficient/variable pairs")
	}
	lc := make(LinearCombination, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		c := pairs[i].(field.Element)
		v := pairs[i+1].(Variable)
		lc = append(lc, Term{Coeff: c, Var: v})
	}
	return lc
}
