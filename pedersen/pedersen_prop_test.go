package pedersen_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/jules/supernova/field"
	"github.com/jules/supernova/pedersen"
)

// TestCommitIsHomomorphic checks spec.md §4.B's additive-homomorphism
// property property-style: commit(gens, v1) + commit(gens, v2) ==
// commit(gens, v1+v2) for randomly generated vectors, the same property the
// native folder's u/W linear combination relies on to be sound.
func TestCommitIsHomomorphic(t *testing.T) {
	gens, err := pedersen.Sample("prop-test", 6)
	if err != nil {
		t.Fatal(err)
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	vecGen := gen.SliceOfN(6, gen.UInt64Range(0, 1<<32)).Map(func(vs []uint64) []field.Element {
		out := make([]field.Element, len(vs))
		for i, v := range vs {
			out[i] = field.FromUint64(v)
		}
		return out
	})

	properties.Property("commit is additively homomorphic", prop.ForAll(
		func(v1, v2 []field.Element) bool {
			c1, err := pedersen.Commit(gens, v1)
			if err != nil {
				return false
			}
			c2, err := pedersen.Commit(gens, v2)
			if err != nil {
				return false
			}
			sum := make([]field.Element, len(v1))
			for i := range v1 {
				sum[i].Add(&v1[i], &v2[i])
			}
			cSum, err := pedersen.Commit(gens, sum)
			if err != nil {
				return false
			}
			return c1.Add(c2).Equal(cSum)
		},
		vecGen, vecGen,
	))

	properties.TestingRun(t)
}
