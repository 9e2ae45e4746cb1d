package pedersen_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jules/supernova/field"
	"github.com/jules/supernova/pedersen"
)

func TestSampleDeterministic(t *testing.T) {
	g1, err := pedersen.Sample("tag-a", 8)
	require.NoError(t, err)
	g2, err := pedersen.Sample("tag-a", 8)
	require.NoError(t, err)
	for i := 0; i < 8; i++ {
		a, b := g1.At(i), g2.At(i)
		require.True(t, a.Equal(b))
	}

	g3, err := pedersen.Sample("tag-b", 8)
	require.NoError(t, err)
	require.False(t, g1.At(0).Equal(g3.At(0)), "different tags must yield different generators")
}

func TestCommitTooManyTermsErrors(t *testing.T) {
	gens, err := pedersen.Sample("tag-c", 2)
	require.NoError(t, err)
	_, err = pedersen.Commit(gens, []field.Element{field.One(), field.One(), field.One()})
	require.ErrorIs(t, err, pedersen.ErrGeneratorsTooSmall)
}

func TestCommitIsLinear(t *testing.T) {
	gens, err := pedersen.Sample("tag-d", 4)
	require.NoError(t, err)

	v := []field.Element{field.FromUint64(2), field.FromUint64(3)}
	c1, err := pedersen.Commit(gens, v)
	require.NoError(t, err)

	doubled := []field.Element{field.FromUint64(4), field.FromUint64(6)}
	c2, err := pedersen.Commit(gens, doubled)
	require.NoError(t, err)

	require.False(t, c1.Equal(c2), "doubling the vector must change the commitment")
	require.True(t, c1.Add(c1).Equal(c2), "commit(2v) must equal commit(v)+commit(v)")
}
