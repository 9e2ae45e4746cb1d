package driver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jules/supernova/circuit"
	"github.com/jules/supernova/driver"
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/internal/teststeps"
	"github.com/jules/supernova/pedersen"
	"github.com/jules/supernova/poseidon"
	"github.com/jules/supernova/verifier"
)

func setup(t *testing.T, steps []circuit.StepCircuit) *driver.Proof {
	t.Helper()
	consts := poseidon.DefaultParams(4, 1, 8, 56)
	// Commit needs one generator per witness, and the augmented circuit
	// allocates over 20k witnesses per step (its Poseidon hashes dominate).
	gens, err := pedersen.Sample("driver-test", 1<<15)
	require.NoError(t, err)
	p, err := driver.New(steps, []field.Element{field.FromUint64(3)}, consts, gens)
	require.NoError(t, err)
	return p
}

// Scenario 1 (spec.md §8): a single-slot cubic f(x)=x^3+x+5 run from x=3
// twice produces 3^3+3+5=35 then 35^3+35+5=42915.
func TestSingleSlotCubicTwoSteps(t *testing.T) {
	p := setup(t, []circuit.StepCircuit{teststeps.Cubic{}})

	require.NoError(t, p.Update(0))
	require.Len(t, p.Latest.Output, 1)
	require.True(t, p.Latest.Output[0].Equal(ref(35)))

	require.NoError(t, p.Update(0))
	require.True(t, p.Latest.Output[0].Equal(ref(42915)))

	require.NoError(t, verifier.Verify(p))
}

// Scenario 2: an out-of-range pc is rejected before any state mutation.
func TestUpdatePCOutOfRange(t *testing.T) {
	p := setup(t, []circuit.StepCircuit{teststeps.Cubic{}})
	before := p.I
	err := p.Update(1)
	require.Error(t, err)
	require.Equal(t, before, p.I)
}

// Scenario 3: interleaving two slots folds correctly across a non-uniform
// program. Update(pc) executes the slot chosen by the previous call, so the
// steps below run cubic, cubic, then quadratic.
func TestInterleavedTwoSlots(t *testing.T) {
	p := setup(t, []circuit.StepCircuit{teststeps.Cubic{}, teststeps.Quadratic{}})

	require.NoError(t, p.Update(0)) // slot 0, cubic: 3^3+3+5=35
	require.True(t, p.Latest.Output[0].Equal(ref(35)))

	require.NoError(t, p.Update(1)) // still slot 0, cubic: 35^3+35+5=42915
	require.True(t, p.Latest.Output[0].Equal(ref(42915)))

	require.NoError(t, p.Update(0)) // slot 1, quadratic
	require.NoError(t, verifier.Verify(p))
}

// Scenario 4: a tampered hash is caught by Verify as HashMismatch.
func TestVerifyCatchesTamperedHash(t *testing.T) {
	p := setup(t, []circuit.StepCircuit{teststeps.Cubic{}})
	require.NoError(t, p.Update(0))

	tampered := *p.Latest
	bad := field.FromUint64(999)
	tampered.Hash = bad
	p.Latest = &tampered

	err := verifier.Verify(p)
	require.Error(t, err)
	var verr *verifier.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, verifier.HashMismatch, verr.Kind)
}

// Scenario 5: a tampered witness fails the R1CS satisfaction check.
func TestVerifyCatchesTamperedWitness(t *testing.T) {
	p := setup(t, []circuit.StepCircuit{teststeps.Cubic{}})
	require.NoError(t, p.Update(0))

	tampered := *p.Latest
	w := append([]field.Element(nil), tampered.W...)
	if len(w) > 0 {
		w[0].Add(&w[0], ref(1))
	}
	tampered.W = w
	p.Latest = &tampered

	err := verifier.Verify(p)
	require.Error(t, err)
	var verr *verifier.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, verifier.UnsatisfiedCircuit, verr.Kind)
}

// Base case: a freshly-primed proof (i=1, no Update yet) must verify as a
// base case with no crossterms.
func TestVerifyBaseCase(t *testing.T) {
	p := setup(t, []circuit.StepCircuit{teststeps.Cubic{}})
	require.Equal(t, uint64(1), p.I)
	require.NoError(t, verifier.Verify(p))
}

func ref(v uint64) *field.Element {
	e := field.FromUint64(v)
	return &e
}
