// Package supernova is the library surface of spec.md §6: a SuperNova-style
// incrementally verifiable computation core built from committed relaxed
// R1CS folding. Callers implement StepCircuit, build a Proof with New, and
// drive it forward with Update; Verify checks the accumulated invariants.
//
// There is no CLI, file format, or wire protocol in the core (spec.md §6);
// internal/persist provides an optional serialization envelope for callers
// who choose to checkpoint a Proof.
package supernova

import (
	"github.com/jules/supernova/circuit"
	"github.com/jules/supernova/driver"
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/pedersen"
	"github.com/jules/supernova/poseidon"
	"github.com/jules/supernova/verifier"
)

// StepCircuit is the per-slot capability a caller supplies, re-exported
// from package circuit so callers need only import this one package.
type StepCircuit = circuit.StepCircuit

// Var is the in-circuit variable a StepCircuit's Generate method builds
// constraints over.
type Var = circuit.Var

// Proof is the IVC accumulator state, re-exported from package driver.
type Proof = driver.Proof

// VerificationError is the typed failure Verify returns.
type VerificationError = verifier.Error

// Verification error kinds, spec.md §6.
const (
	ExpectedBaseCase     = verifier.ExpectedBaseCase
	HashMismatch         = verifier.HashMismatch
	PCOutOfRange         = verifier.PCOutOfRange
	UnexpectedCrossterms = verifier.UnexpectedCrossterms
	UnsatisfiedCircuit   = verifier.UnsatisfiedCircuit
)

// New runs the priming synthesis against each step circuit to fix shapes,
// and returns a base-case proof (i=1), spec.md §6.
func New(steps []StepCircuit, z0 []field.Element, consts *poseidon.Params, gens *pedersen.Generators) (*Proof, error) {
	return driver.New(steps, z0, consts, gens)
}

// Update advances p by one step, executing the step circuit at p's current
// program counter and declaring pc as the next one; requires pc < len(steps).
func Update(p *Proof, pc int) error {
	return p.Update(pc)
}

// Verify checks p against every invariant of spec.md §4.I.
func Verify(p *Proof) error {
	return verifier.Verify(p)
}
