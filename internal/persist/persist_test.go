package persist_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jules/supernova/crr1cs"
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/internal/persist"
	"github.com/jules/supernova/r1cs"
)

func TestCRR1CSRoundTrip(t *testing.T) {
	shape := &r1cs.Shape{
		M: 2, NPub: 1, NWit: 2,
		A: [][]r1cs.ShapeTerm{{{Coeff: field.One(), Col: 0}}, {{Coeff: field.One(), Col: 1}}},
		B: [][]r1cs.ShapeTerm{{{Coeff: field.One(), Col: 0}}, {{Coeff: field.One(), Col: 1}}},
		C: [][]r1cs.ShapeTerm{{{Coeff: field.One(), Col: 0}}, {{Coeff: field.One(), Col: 1}}},
	}
	original := &crr1cs.CRR1CS{
		Shape:  shape,
		W:      []field.Element{field.FromUint64(5), field.FromUint64(6)},
		X:      []field.Element{field.FromUint64(7)},
		E:      []field.Element{field.Zero(), field.Zero()},
		U:      field.One(),
		CommW:  field.Identity(),
		CommE:  field.Identity(),
		CommT:  field.Identity(),
		Hash:   field.FromUint64(42),
		Output: []field.Element{field.FromUint64(9)},
	}

	env, err := persist.EncodeCRR1CS(original)
	require.NoError(t, err)

	data, err := persist.Marshal(env)
	require.NoError(t, err)

	decodedEnv, err := persist.Unmarshal(data)
	require.NoError(t, err)

	decoded, err := persist.DecodeCRR1CS(decodedEnv)
	require.NoError(t, err)

	require.Equal(t, len(original.W), len(decoded.W))
	for i := range original.W {
		require.True(t, original.W[i].Equal(&decoded.W[i]))
	}
	require.True(t, original.Hash.Equal(&decoded.Hash))
	require.Equal(t, len(original.Output), len(decoded.Output))
	for i := range original.Output {
		require.True(t, original.Output[i].Equal(&decoded.Output[i]))
	}
}
