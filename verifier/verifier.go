// Package verifier implements the proof verifier of spec.md §4.I.
package verifier

import (
	"github.com/jules/supernova/driver"
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/internal/logging"
	"github.com/jules/supernova/iohash"
	"github.com/jules/supernova/r1cs"
)

// Verify checks p against every invariant of spec.md §4.I, returning the
// first violated one as an *Error.
func Verify(p *driver.Proof) error {
	if p.I == 1 {
		for _, f := range p.Folded {
			if f.HasCrossterms() {
				logging.L().Warn().Msg("base-case proof carries crossterms")
				return &Error{Kind: ExpectedBaseCase}
			}
		}
		if p.Latest.HasCrossterms() {
			logging.L().Warn().Msg("base-case proof carries crossterms")
			return &Error{Kind: ExpectedBaseCase}
		}
		return nil
	}

	// Guard the slot index before anything else derefs it: an
	// out-of-range PC must surface as PCOutOfRange rather than panic,
	// even though spec.md §4.I lists the hash check first.
	//
	// spec.md §4.I.2 writes the bound as "pc <= L", but L (len(p.Folded))
	// is the slot count, so the valid range is [0, L) — the same range
	// driver.Update itself enforces ("pc %d out of range [0,%d)"). "pc <=
	// L" would admit pc == L, one past the last slot, which p.Folded[p.PC]
	// below cannot service; read literally it'd be a panic, not a
	// rejection. Rejecting at pc >= L is the only boundary consistent with
	// the rest of the scheme.
	if p.PC < 0 || p.PC >= len(p.Folded) {
		return &Error{Kind: PCOutOfRange, PC: p.PC, Limit: len(p.Folded)}
	}

	self := p.Folded[p.PC]
	shapes := make([]*r1cs.Shape, len(p.Folded))
	for j, f := range p.Folded {
		shapes[j] = f.Shape
	}
	params := r1cs.ParamsDigest(p.Consts, shapes)

	expected := iohash.ComputeNative(p.Consts, params, field.FromUint64(p.I), field.FromUint64(uint64(p.PC)), p.Z0, self.Output, self.CommWTrace, self.CommETrace, self.U, self.Hash)
	if !expected.Equal(&p.Latest.Hash) {
		return &Error{Kind: HashMismatch, Expected: expected, Found: p.Latest.Hash}
	}

	if p.Latest.HasCrossterms() {
		return &Error{Kind: UnexpectedCrossterms}
	}

	for _, f := range p.Folded {
		ok, err := f.IsSatisfied(p.Gens)
		if err != nil {
			return err
		}
		if !ok {
			return &Error{Kind: UnsatisfiedCircuit}
		}
	}

	ok, err := p.Latest.IsSatisfied(p.Gens)
	if err != nil {
		return err
	}
	if !ok {
		return &Error{Kind: UnsatisfiedCircuit}
	}
	one := field.One()
	if !p.Latest.U.Equal(&one) {
		return &Error{Kind: UnsatisfiedCircuit}
	}
	for _, e := range p.Latest.E {
		if !e.IsZero() {
			return &Error{Kind: UnsatisfiedCircuit}
		}
	}

	logging.L().Debug().Uint64("i", p.I).Int("pc", p.PC).Msg("proof verified")
	return nil
}
