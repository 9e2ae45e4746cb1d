// Package persist implements the optional persisted-state envelope
// spec.md §6 describes for callers who choose to serialize a Proof: a
// tuple (consts, gens, [folded], latest, pc, i) with each CRR1CS laid out
// as (shape | W | x | E | u | comm_W | comm_E | comm_T | hash | output).
//
// The envelope itself is CBOR (fxamacker/cbor/v2, matching the teacher's
// preference for a compact self-describing binary codec over the
// gnark-internal gob/custom-binary mix), with a semver-tagged format
// version and the large witness/error vectors individually LZSS-compressed
// (consensys/compress), since they are the dominant share of a proof's
// size (spec.md §5 "Memory").
package persist

import (
	"bytes"
	"fmt"

	"github.com/blang/semver/v4"
	"github.com/consensys/compress/lzss"
	"github.com/fxamacker/cbor/v2"

	"github.com/jules/supernova/field"
)

// FormatVersion is the envelope's on-disk format version. Bump the minor
// version for additive changes, the major version if old envelopes can no
// longer be read.
var FormatVersion = semver.MustParse("0.2.0")

// Envelope is the CBOR-serializable shape of a persisted CRR1CS.
type Envelope struct {
	Version string

	Shape ShapeEnvelope

	W []byte // compressed, canonical little-endian field elements
	X []byte
	E []byte

	U      [32]byte
	CommW  PointEnvelope
	CommE  PointEnvelope
	CommT  PointEnvelope

	// CommWTrace/CommETrace persist crr1cs.CRR1CS's linearly-folded
	// commitment trace exactly (unlike CommW/CommE above, these are plain
	// field-element triples, not curve points, so no information is lost
	// on round trip the way pointFromEnvelope's sentinel approximation
	// loses it for CommW/CommE). Added in format 0.2.0.
	CommWTrace [3][32]byte
	CommETrace [3][32]byte

	Hash      [32]byte
	Output    []byte
	OutputLen int
}

// ShapeEnvelope mirrors r1cs.Shape's fields directly; it is NOT the
// compressed digest preimage (r1cs.Shape.Digest owns that canonical form),
// it is just enough to reconstruct the matrices on load.
type ShapeEnvelope struct {
	M, NPub, NWit int
	A, B, C       [][]TermEnvelope
}

// TermEnvelope mirrors r1cs.ShapeTerm.
type TermEnvelope struct {
	Coeff [32]byte
	Col   int
}

// PointEnvelope holds a curve point's XYB unrolling: its x and y
// coordinates reduced into the scalar field, plus the infinity flag,
// matching field.Point.XYB's sentinel discipline so a round trip never has
// to guess whether (0,1) was really on-curve.
type PointEnvelope struct {
	X, Y     [32]byte
	Infinity bool
}

// elementBytes/elementFromBytes give the fixed-width little-endian
// canonical form spec.md §6 requires for field elements.
func elementBytes(e field.Element) [32]byte {
	b := e.Bytes() // gnark-crypto's Bytes() is big-endian canonical
	var out [32]byte
	for i := range b {
		out[i] = b[len(b)-1-i]
	}
	return out
}

func elementFromBytes(b [32]byte) field.Element {
	var be [32]byte
	for i := range b {
		be[i] = b[len(b)-1-i]
	}
	var e field.Element
	e.SetBytes(be[:])
	return e
}

func compressVector(vals []field.Element) ([]byte, error) {
	var buf bytes.Buffer
	for _, v := range vals {
		le := elementBytes(v)
		buf.Write(le[:])
	}
	c, err := lzss.NewCompressor(nil, lzss.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("persist: compressor: %w", err)
	}
	out, err := c.Compress(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("persist: compress: %w", err)
	}
	return out, nil
}

func decompressVector(data []byte, n int) ([]field.Element, error) {
	raw, err := lzss.DecompressGo(data, nil)
	if err != nil {
		return nil, fmt.Errorf("persist: decompress: %w", err)
	}
	if len(raw) != n*32 {
		return nil, fmt.Errorf("persist: decompressed length %d does not match %d elements", len(raw), n)
	}
	out := make([]field.Element, n)
	for i := 0; i < n; i++ {
		var chunk [32]byte
		copy(chunk[:], raw[i*32:(i+1)*32])
		out[i] = elementFromBytes(chunk)
	}
	return out, nil
}

// Marshal encodes env as CBOR.
func Marshal(env *Envelope) ([]byte, error) {
	env.Version = FormatVersion.String()
	return cbor.Marshal(env)
}

// Unmarshal decodes a CBOR envelope and checks its format version is one
// this build understands (same major version).
func Unmarshal(data []byte) (*Envelope, error) {
	var env Envelope
	if err := cbor.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("persist: unmarshal: %w", err)
	}
	v, err := semver.Parse(env.Version)
	if err != nil {
		return nil, fmt.Errorf("persist: invalid format version %q: %w", env.Version, err)
	}
	if v.Major != FormatVersion.Major {
		return nil, fmt.Errorf("persist: incompatible format version %s (this build understands %d.x)", v, FormatVersion.Major)
	}
	return &env, nil
}
