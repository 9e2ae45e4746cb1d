package r1cs

import (
	"bytes"
	"sort"

	"github.com/icza/bitio"
	"github.com/ronanh/intcomp"

	"github.com/jules/supernova/field"
	"github.com/jules/supernova/poseidon"
)

// Digest returns the "params" value of spec.md §4.D: a deterministic
// serialization of (n_w, n_x, A, B, C) hashed with Poseidon, binding the
// accumulator to this exact circuit shape. The canonical serialization is
// built in two steps that mirror the rest of the domain stack's
// compression story (SPEC_FULL.md §3, items 5-6): column indices of each matrix
// are delta/bit-packed with ronanh/intcomp, then the packed integers and
// coefficients are written out through an icza/bitio bit writer so the
// byte stream is exactly reproducible regardless of Go map iteration order
// or slice capacity quirks.
func (s *Shape) Digest(hasher *poseidon.Sponge[field.Element]) field.Element {
	var buf bytes.Buffer
	w := bitio.NewWriter(&buf)

	writeUvarint := func(v uint64) {
		for {
			b := byte(v & 0x7f)
			v >>= 7
			if v != 0 {
				b |= 0x80
			}
			_ = w.WriteByte(b)
			if v == 0 {
				break
			}
		}
	}

	writeUvarint(uint64(s.M))
	writeUvarint(uint64(s.NPub))
	writeUvarint(uint64(s.NWit))

	for _, mat := range [][][]ShapeTerm{s.A, s.B, s.C} {
		for _, row := range mat {
			writeUvarint(uint64(len(row)))
			sorted := make([]ShapeTerm, len(row))
			copy(sorted, row)
			sort.Slice(sorted, func(i, j int) bool { return sorted[i].Col < sorted[j].Col })

			cols := make([]uint32, len(sorted))
			for i, t := range sorted {
				cols[i] = uint32(t.Col)
			}
			packed := intcomp.CompressUint32(cols, nil)
			writeUvarint(uint64(len(packed)))
			for _, p := range packed {
				_ = w.WriteBits(uint64(p), 32)
			}
			for _, t := range sorted {
				coeffBytes := t.Coeff.Bytes()
				for _, bb := range coeffBytes[:] {
					_ = w.WriteByte(bb)
				}
			}
		}
	}
	_ = w.Close()

	// Absorb the canonical byte stream into the Poseidon transcript in
	// fixed 31-byte chunks (each chunk fits safely inside one field
	// element without needing a reduction check).
	const chunkLen = 31
	raw := buf.Bytes()
	for off := 0; off < len(raw); off += chunkLen {
		end := off + chunkLen
		if end > len(raw) {
			end = len(raw)
		}
		var chunk [32]byte
		copy(chunk[32-(end-off):], raw[off:end])
		var e field.Element
		e.SetBytes(chunk[:])
		hasher.Absorb(e)
	}
	return hasher.SqueezeOne()
}

// ParamsDigest sums each shape's own digest under a fresh sponge, giving
// the slot-independent "params" value spec.md §4.H.1 derives as
// `Σ_j folded[j].params`.
func ParamsDigest(consts *poseidon.Params, shapes []*Shape) field.Element {
	var sum field.Element
	for _, s := range shapes {
		d := s.Digest(poseidon.NewNativeSponge(consts))
		sum.Add(&sum, &d)
	}
	return sum
}
