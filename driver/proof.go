// Package driver implements the proof state machine of spec.md §4.H: the
// priming construction (Proof.New) and the per-step transition
// (Proof.Update) that alternates synthesis of the augmented circuit with
// the native fold.
package driver

import (
	"fmt"

	"github.com/jules/supernova/circuit"
	"github.com/jules/supernova/crr1cs"
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/fold"
	"github.com/jules/supernova/internal/logging"
	"github.com/jules/supernova/iohash"
	"github.com/jules/supernova/pedersen"
	"github.com/jules/supernova/poseidon"
	"github.com/jules/supernova/r1cs"
)

// Proof is the exclusively-owned IVC state of spec.md §9 ("Ownership
// graphs"): Folded and Latest are never aliased or shared outside this
// struct, and no two Update calls may run concurrently against the same
// Proof (spec.md §5).
type Proof struct {
	Folded []*crr1cs.CRR1CS
	Latest *crr1cs.CRR1CS

	// PC plays the dual role spec.md §4.H's pseudocode gives pc_prev and
	// pc: after every completed Update, both names refer to the same
	// value (step 4 sets pc_prev←pc), so one field suffices. During
	// Update itself, the value read at entry is "pc_prev" (the slot that
	// executes this transition); the argument becomes the new PC.
	PC int
	I  uint64

	Z0     []field.Element
	Steps  []circuit.StepCircuit
	Consts *poseidon.Params
	Gens   *pedersen.Generators
}

// New runs the priming synthesis against each step circuit to fix shapes,
// and returns a base-case proof with i=1, per spec.md §6
// (`Proof::new(step_circuits, z0, consts, gens) -> Proof`).
//
// The initial active slot is a fixed convention (slot 0): spec.md's driver
// pseudocode never specifies how pc_prev is seeded before the first
// Update call, since nothing in the scheme lets a caller choose otherwise
// (DESIGN.md, open-question decision 5).
func New(steps []circuit.StepCircuit, z0 []field.Element, consts *poseidon.Params, gens *pedersen.Generators) (*Proof, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("driver: new: at least one step circuit is required")
	}
	for j, sc := range steps {
		if sc.OutputLen() != len(z0) {
			return nil, fmt.Errorf("driver: new: step circuit %d arity %d does not match len(z0)=%d", j, sc.OutputLen(), len(z0))
		}
	}

	folded := make([]*crr1cs.CRR1CS, len(steps))
	for j, sc := range steps {
		base := baseInstance(len(z0), z0)
		primed, err := circuit.Synthesize(consts, gens, base, field.Identity(), field.Identity(), field.Identity().XYB(), field.Zero(), j, j, 0, z0, z0, field.Zero(), sc)
		if err != nil {
			return nil, fmt.Errorf("driver: new: priming slot %d: %w", j, err)
		}
		folded[j] = primed
	}

	shapes := make([]*r1cs.Shape, len(folded))
	for j, f := range folded {
		shapes[j] = f.Shape
	}
	params := r1cs.ParamsDigest(consts, shapes)

	const initialPC = 0
	self := folded[initialPC]
	// The first real Update call (i=1) is not the is_base branch of
	// synthesize (that only fires at i=0, during priming above), so its
	// step-3 hash recompute genuinely runs. Latest must therefore start
	// as a clone of folded[initialPC] with exactly the Hash value that
	// recompute will expect, and with Output reset to z0 so the first
	// Update applies the step circuit to z0 itself — everything else about
	// Latest (W, X, E, U, CommW, CommE) stays the honestly-primed,
	// satisfied witness, so the first real fold still folds two genuinely
	// satisfied instances.
	latest := self.Clone()
	latest.Output = append([]field.Element(nil), z0...)
	latest.Hash = iohash.ComputeNative(consts, field.Zero() /* i=1 quirk, spec.md §9 */, field.One(), field.FromUint64(uint64(initialPC)), z0, self.Output, self.CommWTrace, self.CommETrace, self.U, self.Hash)

	return &Proof{
		Folded: folded,
		Latest: latest,
		PC:     initialPC,
		I:      1,
		Z0:     z0,
		Steps:  steps,
		Consts: consts,
		Gens:   gens,
	}, nil
}

// RestoredState is the fully-decoded form internal/persist reconstructs a
// Proof from; Restore trusts its fields as-is (no re-priming, no shape
// recomputation) since they came from a previously-valid Proof's own
// envelope.
type RestoredState struct {
	Folded []*crr1cs.CRR1CS
	Latest *crr1cs.CRR1CS
	PC     int
	I      uint64
	Z0     []field.Element
	Steps  []circuit.StepCircuit
	Consts *poseidon.Params
	Gens   *pedersen.Generators
}

// Restore reassembles a Proof from previously-decoded state, for
// internal/persist's DecodeProof. It performs no validation beyond what
// the caller already did when decoding each CRR1CS; callers that need to
// confirm a restored Proof is actually sound should run Verify on it.
func Restore(s RestoredState) *Proof {
	return &Proof{
		Folded: s.Folded,
		Latest: s.Latest,
		PC:     s.PC,
		I:      s.I,
		Z0:     s.Z0,
		Steps:  s.Steps,
		Consts: s.Consts,
		Gens:   s.Gens,
	}
}

// baseInstance returns the placeholder CRR1CS fed to synthesize as `self`
// during priming (i=0). Its Output and Hash only feed the step-3 recompute,
// which is_base masks (spec.md §4.F.3); its commitment traces and U are
// what is_base selects into the priming hash (spec.md §4.F.6). All of them
// are fixed values, so priming is reproducible. Output is z0 itself,
// matching the original source's `z0()` convention (an all-zero vector of
// the step arity) for a not-yet-executed slot.
func baseInstance(m int, z0 []field.Element) *crr1cs.CRR1CS {
	output := make([]field.Element, len(z0))
	copy(output, z0)
	identity := field.Identity()
	return &crr1cs.CRR1CS{
		CommW:      identity,
		CommE:      identity,
		CommWTrace: identity.XYB(),
		CommETrace: identity.XYB(),
		U:          field.Zero(),
		Hash:       field.Zero(),
		Output:     output,
	}
}

// Update runs the transition of spec.md §4.H on program counter pc:
// requires pc < L (a caller-contract violation otherwise, spec.md §7,
// rejected before any state mutation).
func (p *Proof) Update(pc int) error {
	if pc < 0 || pc >= len(p.Steps) {
		return fmt.Errorf("driver: update: pc %d out of range [0,%d)", pc, len(p.Steps))
	}

	oldPC := p.PC
	shapes := make([]*r1cs.Shape, len(p.Folded))
	for j, f := range p.Folded {
		shapes[j] = f.Shape
	}
	params := r1cs.ParamsDigest(p.Consts, shapes)

	self := p.Folded[oldPC]
	T, commT, err := fold.ComputeCrossTerm(self, p.Latest, p.Gens)
	if err != nil {
		return fmt.Errorf("driver: update: cross term: %w", err)
	}

	latestNew, err := circuit.Synthesize(p.Consts, p.Gens, self, commT, p.Latest.CommW, p.Latest.CommWTrace, p.Latest.Hash, oldPC, pc, p.I, p.Z0, p.Latest.Output, params, p.Steps[oldPC])
	if err != nil {
		return fmt.Errorf("driver: update: synthesize: %w", err)
	}

	if err := fold.ApplyFold(self, p.Latest, T, commT, p.Consts, params); err != nil {
		return fmt.Errorf("driver: update: fold: %w", err)
	}
	// The folded slot now carries the output its new hash was stamped with,
	// so the next step-3 recompute and verifier.Verify read the same tuple
	// the circuit hashed.
	self.Output = append([]field.Element(nil), latestNew.Output...)

	p.Latest = latestNew
	p.PC = pc
	p.I++
	logging.L().Debug().
		Int("from_pc", oldPC).Int("to_pc", pc).Uint64("i", p.I).
		Msg("folded one step")
	return nil
}
