// Package volume tracks the nested participating medium a ray is
// currently traveling through.
package volume

import (
	"math"

	"github.com/jianoll/taichi/pkg/core"
)

// Stack is an ordered LIFO of volume materials; the top of the stack is
// the medium currently enclosing the ray. A Stack must never be empty
// while a ray is being traced — it is always seeded with the scene's
// atmosphere (or a Vacuum placeholder) at construction.
type Stack struct {
	media []core.VolumeMaterial
}

// NewStack creates a stack initialized with the given medium, matching
// the invariant that a Stack is never empty while tracing.
func NewStack(atmosphere core.VolumeMaterial) *Stack {
	return &Stack{media: []core.VolumeMaterial{atmosphere}}
}

// Push enters a new medium, e.g. when a ray transmits into a volume on
// the near side of a surface crossing.
func (s *Stack) Push(m core.VolumeMaterial) {
	s.media = append(s.media, m)
}

// Pop exits the current medium, e.g. when a ray transmits out of a volume
// on the far side of a surface crossing. Popping an empty stack is a
// programming error, not a data condition, and panics.
func (s *Stack) Pop() {
	if len(s.media) == 0 {
		panic("volume: Pop on empty stack")
	}
	s.media = s.media[:len(s.media)-1]
}

// Top returns the medium currently enclosing the ray.
func (s *Stack) Top() core.VolumeMaterial {
	if len(s.media) == 0 {
		panic("volume: Top on empty stack")
	}
	return s.media[len(s.media)-1]
}

// Len reports the current depth of the stack.
func (s *Stack) Len() int {
	return len(s.media)
}

// Vacuum is a VolumeMaterial placeholder for scenes without an
// atmosphere: free flights are unbounded, every event is Null (so the
// path tracer never scatters in it, and a ray that misses every surface
// ends its path), and attenuation is the identity.
type Vacuum struct{}

// SampleFreeDistance always returns +Inf: a vacuum never stops a ray
// short of the next surface.
func (Vacuum) SampleFreeDistance(core.Sequence) float64 {
	return math.Inf(1)
}

// SampleEvent always reports VolumeNull.
func (Vacuum) SampleEvent(core.Sequence) core.VolumeEvent {
	return core.VolumeNull
}

// SamplePhase is never called on a vacuum in practice (SampleEvent never
// reports scattering), but returns a stable direction rather than
// panicking if it is.
func (Vacuum) SamplePhase(core.Sequence) core.Vec3 {
	return core.NewVec3(0, 0, 1)
}

// GetAttenuation is the identity: a vacuum attenuates nothing.
func (Vacuum) GetAttenuation(float64) core.Vec3 {
	return core.NewVec3(1, 1, 1)
}

var _ core.VolumeMaterial = Vacuum{}
