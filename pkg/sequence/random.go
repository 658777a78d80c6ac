// Package sequence provides the concrete State Sequence implementations
// consumed as core.Sequence: an unbounded per-path pseudorandom stream, and
// a primary-sample-space stream backed by a pssmlt.MarkovChain.
package sequence

import (
	"pgregory.net/rand"

	"github.com/jianoll/taichi/pkg/core"
)

// RandomSequence is a deterministic function of (seed, path-index): the
// same pair always produces the same uniform [0,1) stream, and the stream
// never restarts within a path. Dimension allocation is implicit in call
// order.
type RandomSequence struct {
	rng *rand.Rand
}

// NewRandomSequence constructs a RandomSequence whose stream depends only
// on seed and pathIndex.
func NewRandomSequence(seed int64, pathIndex int64) *RandomSequence {
	return &RandomSequence{rng: rand.New(uint64(mixSeed(seed, pathIndex)))}
}

// Next1D returns the next uniform [0,1) sample.
func (s *RandomSequence) Next1D() float64 {
	return s.rng.Float64()
}

// Next2D returns the next two uniform [0,1) samples.
func (s *RandomSequence) Next2D() core.Vec2 {
	return core.NewVec2(s.rng.Float64(), s.rng.Float64())
}

var _ core.Sequence = (*RandomSequence)(nil)

// mixSeed combines a base seed and a path index into a single source seed
// using a splitmix64-style finalizer, so that nearby path indices do not
// produce correlated streams under a linear-congruential or xorshift
// source.
func mixSeed(seed, pathIndex int64) int64 {
	z := uint64(seed) + uint64(pathIndex)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return int64(z)
}
