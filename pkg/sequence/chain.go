package sequence

import (
	"pgregory.net/rand"

	"github.com/jianoll/taichi/pkg/core"
	"github.com/jianoll/taichi/pkg/pssmlt"
)

// ChainSequence reads from, and lazily extends, a backing
// pssmlt.MarkovChain. The k-th query returns chain.State(k), drawing a
// fresh uniform value first if the chain hasn't grown that far yet.
type ChainSequence struct {
	chain *pssmlt.MarkovChain
	rng   *rand.Rand
	next  int
}

// NewChainSequence wraps chain for sequential reads, starting at
// coordinate 0. rng supplies any fresh draws the chain needs to grow.
func NewChainSequence(chain *pssmlt.MarkovChain, rng *rand.Rand) *ChainSequence {
	return &ChainSequence{chain: chain, rng: rng}
}

// Next1D returns the next chain coordinate, advancing the cursor.
func (s *ChainSequence) Next1D() float64 {
	v := s.chain.State(s.next, s.rng)
	s.next++
	return v
}

// Next2D returns the next two chain coordinates.
func (s *ChainSequence) Next2D() core.Vec2 {
	return core.NewVec2(s.Next1D(), s.Next1D())
}

var _ core.Sequence = (*ChainSequence)(nil)
