package persist

import (
	"fmt"

	"github.com/jules/supernova/circuit"
	"github.com/jules/supernova/crr1cs"
	"github.com/jules/supernova/driver"
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/pedersen"
	"github.com/jules/supernova/poseidon"
)

// ParamsEnvelope is the persisted form of a poseidon.Params.
type ParamsEnvelope struct {
	Rate, Capacity, FullRounds, PartialRounds int
	Alpha                                     uint64
	RoundConstants                            [][][32]byte
	MDS                                       [][32]byte
}

func paramsEnvelope(p *poseidon.Params) ParamsEnvelope {
	width := p.Rate + p.Capacity
	rc := make([][][32]byte, len(p.RoundConstants))
	for i, row := range p.RoundConstants {
		rc[i] = make([][32]byte, len(row))
		for j, e := range row {
			rc[i][j] = elementBytes(e)
		}
	}
	mds := make([][32]byte, 0, width*width)
	for _, row := range p.MDS {
		for _, e := range row {
			mds = append(mds, elementBytes(e))
		}
	}
	return ParamsEnvelope{
		Rate: p.Rate, Capacity: p.Capacity,
		FullRounds: p.FullRounds, PartialRounds: p.PartialRounds,
		Alpha: p.Alpha, RoundConstants: rc, MDS: mds,
	}
}

func paramsFromEnvelope(e ParamsEnvelope) *poseidon.Params {
	width := e.Rate + e.Capacity
	rc := make([][]field.Element, len(e.RoundConstants))
	for i, row := range e.RoundConstants {
		rc[i] = make([]field.Element, len(row))
		for j, b := range row {
			rc[i][j] = elementFromBytes(b)
		}
	}
	mds := make([][]field.Element, width)
	for i := range mds {
		mds[i] = make([]field.Element, width)
		for j := range mds[i] {
			mds[i][j] = elementFromBytes(e.MDS[i*width+j])
		}
	}
	return &poseidon.Params{
		Rate: e.Rate, Capacity: e.Capacity,
		FullRounds: e.FullRounds, PartialRounds: e.PartialRounds,
		Alpha: e.Alpha, RoundConstants: rc, MDS: mds,
	}
}

// GeneratorsEnvelope is the persisted form of a pedersen.Generators: the
// domain tag and count used to re-derive it via pedersen.Sample are
// sufficient (hash-to-curve is deterministic), so the envelope need not
// carry every point.
type GeneratorsEnvelope struct {
	Tag string
	N   int
}

// ProofEnvelope is the persisted-state tuple of spec.md §6:
// (consts, gens, [folded], latest, pc, i). pc_prev is not stored
// separately — driver.Proof folds it into PC, see driver.Proof's doc
// comment.
type ProofEnvelope struct {
	Consts ParamsEnvelope
	Gens   GeneratorsEnvelope
	Folded []Envelope
	Latest Envelope
	PC     int
	I      uint64
}

// EncodeProof serializes p. gensTag/gensN must be the arguments originally
// passed to pedersen.Sample for p.Gens, since GeneratorsEnvelope
// re-derives the generator vector from them rather than storing every
// point.
func EncodeProof(p *driver.Proof, gensTag string, gensN int) (*ProofEnvelope, error) {
	folded := make([]Envelope, len(p.Folded))
	for i, f := range p.Folded {
		env, err := EncodeCRR1CS(f)
		if err != nil {
			return nil, fmt.Errorf("persist: encode folded[%d]: %w", i, err)
		}
		folded[i] = *env
	}
	latest, err := EncodeCRR1CS(p.Latest)
	if err != nil {
		return nil, fmt.Errorf("persist: encode latest: %w", err)
	}
	return &ProofEnvelope{
		Consts: paramsEnvelope(p.Consts),
		Gens:   GeneratorsEnvelope{Tag: gensTag, N: gensN},
		Folded: folded,
		Latest: *latest,
		PC:     p.PC,
		I:      p.I,
	}, nil
}

// DecodeProof reverses EncodeProof, re-sampling generators from the stored
// tag/count. steps must be the same StepCircuit slice (by slot) the proof
// was originally built with, and z0 the same initial input — neither is
// persisted: Steps are code, not data, and z0 is not otherwise recoverable
// once folded[j].Output has advanced past the base case.
func DecodeProof(env *ProofEnvelope, steps []circuit.StepCircuit, z0 []field.Element) (*driver.Proof, error) {
	gens, err := pedersen.Sample(env.Gens.Tag, env.Gens.N)
	if err != nil {
		return nil, fmt.Errorf("persist: resample generators: %w", err)
	}
	if len(env.Folded) != len(steps) {
		return nil, fmt.Errorf("persist: envelope has %d folded slots, got %d step circuits", len(env.Folded), len(steps))
	}
	folded := make([]*crr1cs.CRR1CS, len(env.Folded))
	for i := range env.Folded {
		f, err := DecodeCRR1CS(&env.Folded[i])
		if err != nil {
			return nil, fmt.Errorf("persist: decode folded[%d]: %w", i, err)
		}
		folded[i] = f
	}
	latest, err := DecodeCRR1CS(&env.Latest)
	if err != nil {
		return nil, fmt.Errorf("persist: decode latest: %w", err)
	}
	return driver.Restore(driver.RestoredState{
		Folded: folded,
		Latest: latest,
		PC:     env.PC,
		I:      env.I,
		Z0:     z0,
		Steps:  steps,
		Consts: paramsFromEnvelope(env.Consts),
		Gens:   gens,
	}), nil
}
