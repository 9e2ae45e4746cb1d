// Package pedersen implements the vector commitment of spec.md §4.B:
// commit(gens, v) = sum_j v[j]*gens[j], plus deterministic generator
// sampling.
package pedersen

import (
	"encoding/binary"
	"errors"
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"golang.org/x/sync/errgroup"

	"github.com/jules/supernova/field"
)

// ErrGeneratorsTooSmall is returned by Commit when the vector being
// committed is longer than the generator set, spec.md §4.B's failure mode.
var ErrGeneratorsTooSmall = errors.New("pedersen: generators too small for vector length")

// Generators is an immutable, shared generator vector g_1..g_N.
type Generators struct {
	points []field.Point
}

// Len returns N, the number of available generators.
func (g *Generators) Len() int { return len(g.points) }

// At returns g_i (0-indexed).
func (g *Generators) At(i int) field.Point { return g.points[i] }

// Sample deterministically derives n generators by hashing a domain tag and
// index to a curve point via gnark-crypto's RFC 9380 hash-to-curve
// (bls12381.HashToG1), the "expand-a-domain-tag with an XOF" procedure
// spec.md §4.B calls for. Two callers passing the same (tag, n) always get
// the same generators, which is what lets a verifier recompute them
// independently of the prover.
func Sample(tag string, n int) (*Generators, error) {
	points := make([]field.Point, n)
	dst := []byte("supernova-pedersen-v1-" + tag)
	for i := 0; i < n; i++ {
		msg := make([]byte, 8)
		binary.BigEndian.PutUint64(msg, uint64(i))
		aff, err := bls12381.HashToG1(msg, dst)
		if err != nil {
			return nil, fmt.Errorf("pedersen: sample generator %d: %w", i, err)
		}
		points[i] = field.FromAffine(aff)
	}
	return &Generators{points: points}, nil
}

// Commit computes commit(gens, v) = sum_j v[j]*gens[j]. The per-term
// scalar multiplications are independent and are split across an
// errgroup.Group of worker chunks (spec.md §5: "an implementer is expected
// to use a work-stealing pool"); partial sums are then folded together.
func Commit(gens *Generators, v []field.Element) (field.Point, error) {
	if len(v) > gens.Len() {
		return field.Point{}, ErrGeneratorsTooSmall
	}
	if len(v) == 0 {
		return field.Identity(), nil
	}

	const chunkSize = 256
	nChunks := (len(v) + chunkSize - 1) / chunkSize
	partials := make([]field.Point, nChunks)

	var g errgroup.Group
	for c := 0; c < nChunks; c++ {
		c := c
		g.Go(func() error {
			start := c * chunkSize
			end := start + chunkSize
			if end > len(v) {
				end = len(v)
			}
			acc := field.Identity()
			for j := start; j < end; j++ {
				scalar := v[j]
				acc = acc.Add(gens.At(j).ScalarMul(&scalar))
			}
			partials[c] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return field.Point{}, err
	}

	acc := field.Identity()
	for _, p := range partials {
		acc = acc.Add(p)
	}
	return acc, nil
}
