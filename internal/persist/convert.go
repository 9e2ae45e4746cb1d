package persist

import (
	"fmt"

	"github.com/jules/supernova/crr1cs"
	"github.com/jules/supernova/field"
	"github.com/jules/supernova/r1cs"
)

func pointEnvelope(p field.Point) PointEnvelope {
	xyb := p.XYB()
	return PointEnvelope{
		X:        elementBytes(xyb[0]),
		Y:        elementBytes(xyb[1]),
		Infinity: p.IsInfinity(),
	}
}

func pointFromEnvelope(e PointEnvelope) field.Point {
	if e.Infinity {
		return field.Identity()
	}
	// A non-infinity point cannot be rebuilt: the envelope keeps only its
	// coordinates reduced into the scalar field (XYB), not the base-field
	// affine coordinates. It therefore decodes as the identity sentinel, so
	// a decoded CRR1CS's CommW/CommE/CommT (and their XYB) are not the
	// original commitments; fold and IsSatisfied on such a CRR1CS operate
	// on the identity. Commitments must be recomputed from W/E with
	// pedersen.Commit where the real value is needed.
	return field.Identity()
}

func tripleEnvelope(t [3]field.Element) [3][32]byte {
	var out [3][32]byte
	for i := range t {
		out[i] = elementBytes(t[i])
	}
	return out
}

func tripleFromEnvelope(e [3][32]byte) [3]field.Element {
	var out [3]field.Element
	for i := range e {
		out[i] = elementFromBytes(e[i])
	}
	return out
}

func shapeTermEnvelope(t r1cs.ShapeTerm) TermEnvelope {
	return TermEnvelope{Coeff: elementBytes(t.Coeff), Col: t.Col}
}

func shapeTermFromEnvelope(t TermEnvelope) r1cs.ShapeTerm {
	return r1cs.ShapeTerm{Coeff: elementFromBytes(t.Coeff), Col: t.Col}
}

func shapeEnvelope(s *r1cs.Shape) ShapeEnvelope {
	conv := func(mat [][]r1cs.ShapeTerm) [][]TermEnvelope {
		out := make([][]TermEnvelope, len(mat))
		for i, row := range mat {
			out[i] = make([]TermEnvelope, len(row))
			for j, t := range row {
				out[i][j] = shapeTermEnvelope(t)
			}
		}
		return out
	}
	return ShapeEnvelope{
		M: s.M, NPub: s.NPub, NWit: s.NWit,
		A: conv(s.A), B: conv(s.B), C: conv(s.C),
	}
}

func shapeFromEnvelope(e ShapeEnvelope) *r1cs.Shape {
	conv := func(mat [][]TermEnvelope) [][]r1cs.ShapeTerm {
		out := make([][]r1cs.ShapeTerm, len(mat))
		for i, row := range mat {
			out[i] = make([]r1cs.ShapeTerm, len(row))
			for j, t := range row {
				out[i][j] = shapeTermFromEnvelope(t)
			}
		}
		return out
	}
	return &r1cs.Shape{
		M: e.M, NPub: e.NPub, NWit: e.NWit,
		A: conv(e.A), B: conv(e.B), C: conv(e.C),
	}
}

// EncodeCRR1CS builds the persisted-state layout of spec.md §6 for a
// single CRR1CS: (shape | W | X | E | u | comm_W | comm_E | comm_T | hash
// | output), with the witness/error/output vectors individually
// LZSS-compressed.
func EncodeCRR1CS(c *crr1cs.CRR1CS) (*Envelope, error) {
	w, err := compressVector(c.W)
	if err != nil {
		return nil, err
	}
	x, err := compressVector(c.X)
	if err != nil {
		return nil, err
	}
	e, err := compressVector(c.E)
	if err != nil {
		return nil, err
	}
	out, err := compressVector(c.Output)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Version:    FormatVersion.String(),
		Shape:      shapeEnvelope(c.Shape),
		W:          w,
		X:          x,
		E:          e,
		U:          elementBytes(c.U),
		CommW:      pointEnvelope(c.CommW),
		CommE:      pointEnvelope(c.CommE),
		CommT:      pointEnvelope(c.CommT),
		CommWTrace: tripleEnvelope(c.CommWTrace),
		CommETrace: tripleEnvelope(c.CommETrace),
		Hash:       elementBytes(c.Hash),
		Output:     out,
		OutputLen:  len(c.Output),
	}, nil
}

// DecodeCRR1CS reverses EncodeCRR1CS. Non-sentinel commitment points come
// back as the identity sentinel (see pointFromEnvelope); the envelope's
// point bytes are not used to rebuild them. Callers that need the real
// commitments should recompute pedersen.Commit over the decoded W/E. The
// commitment traces (CommWTrace/CommETrace) round-trip exactly.
func DecodeCRR1CS(env *Envelope) (*crr1cs.CRR1CS, error) {
	shape := shapeFromEnvelope(env.Shape)
	w, err := decompressVector(env.W, shape.NWit)
	if err != nil {
		return nil, fmt.Errorf("persist: decode W: %w", err)
	}
	x, err := decompressVector(env.X, shape.NPub)
	if err != nil {
		return nil, fmt.Errorf("persist: decode X: %w", err)
	}
	e, err := decompressVector(env.E, shape.M)
	if err != nil {
		return nil, fmt.Errorf("persist: decode E: %w", err)
	}
	output, err := decompressVector(env.Output, env.OutputLen)
	if err != nil {
		return nil, fmt.Errorf("persist: decode output: %w", err)
	}
	return &crr1cs.CRR1CS{
		Shape:      shape,
		W:          w,
		X:          x,
		E:          e,
		U:          elementFromBytes(env.U),
		CommW:      pointFromEnvelope(env.CommW),
		CommE:      pointFromEnvelope(env.CommE),
		CommT:      pointFromEnvelope(env.CommT),
		CommWTrace: tripleFromEnvelope(env.CommWTrace),
		CommETrace: tripleFromEnvelope(env.CommETrace),
		Hash:       elementFromBytes(env.Hash),
		Output:     output,
	}, nil
}
