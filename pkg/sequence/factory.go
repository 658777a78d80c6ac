package sequence

import (
	"fmt"

	"github.com/jianoll/taichi/pkg/core"
)

// Factory produces a fresh core.Sequence for a given path index. It is
// the State Sequence analogue of a Sampler factory: a render stage holds
// one Factory and asks it for a new stream per path.
type Factory interface {
	NewSequence(pathIndex int64) core.Sequence
}

// randomFactory is the "prand" Factory: every path gets an independent
// RandomSequence derived from a single base seed.
type randomFactory struct {
	seed int64
}

// NewSequence implements Factory.
func (f randomFactory) NewSequence(pathIndex int64) core.Sequence {
	return NewRandomSequence(f.seed, pathIndex)
}

// registry maps a sampler name to a constructor, avoiding any
// reflection-based dynamic dispatch (§9 design note): adding a new named
// sampler means adding one entry here.
var registry = map[string]func(seed int64) Factory{
	"prand": func(seed int64) Factory { return randomFactory{seed: seed} },
}

// NewFactory looks up a named sampler factory constructor. An unknown name
// is a configuration error the caller should fail fast on.
func NewFactory(name string, seed int64) (Factory, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("sequence: unknown sampler %q", name)
	}
	return ctor(seed), nil
}
