// Package pssmlt implements the primary-sample-space Markov chain used by
// the Metropolis Light Transport integrator: a lazily-grown vector of
// uniform [0,1) coordinates, plus the two proposal moves ("large step" and
// "mutate") Metropolis-Hastings needs.
package pssmlt

import (
	"math"

	"pgregory.net/rand"
)

// MarkovChain is a primary-sample-space state vector. The first two
// coordinates are reserved for the image-plane pixel location and are
// perturbed at a different scale than the rest (§4.6); every other
// coordinate is consumed by the path tracer in whatever order it calls
// State for unrelated purposes (BSDF samples, light samples, free-flight
// distances, ...).
//
// MarkovChain is a plain value: LargeStep and Mutate return new chains
// rather than mutating the receiver, so a rejected Metropolis proposal can
// simply be discarded.
type MarkovChain struct {
	States        []float64
	Width, Height int
}

// NewMarkovChain creates an empty chain for an image of the given
// resolution; its coordinates are drawn lazily as State is called.
func NewMarkovChain(width, height int) MarkovChain {
	return MarkovChain{Width: width, Height: height}
}

// LargeStep proposes a uniform restart of the whole sample vector: a
// fresh chain with the same resolution and no pre-drawn state. Subsequent
// State calls draw fresh uniform samples.
func (c MarkovChain) LargeStep() MarkovChain {
	return NewMarkovChain(c.Width, c.Height)
}

// Mutate proposes a local perturbation of every coordinate, using a
// larger perturbation scale for the reserved pixel coordinates (State(0),
// State(1)) than for the rest. rng supplies both the extension draws (if
// the chain hasn't grown far enough yet) and the Kelemen exponential's
// random offset.
func (c MarkovChain) Mutate(strength float64, rng *rand.Rand) MarkovChain {
	result := MarkovChain{
		Width:  c.Width,
		Height: c.Height,
		States: append([]float64(nil), c.States...),
	}
	result.grow(2, rng)

	deltaPixel := 2.0 / float64(c.Width+c.Height)
	result.States[0] = perturb(result.States[0], deltaPixel*strength, 0.1*strength, rng)
	result.States[1] = perturb(result.States[1], deltaPixel*strength, 0.1*strength, rng)
	for i := 2; i < len(result.States); i++ {
		result.States[i] = perturb(result.States[i], strength/1024.0, strength/64.0, rng)
	}
	return result
}

// State returns the k-th coordinate, lazily extending the chain with
// fresh uniform draws if k is beyond the current length.
func (c *MarkovChain) State(k int, rng *rand.Rand) float64 {
	c.grow(k+1, rng)
	return c.States[k]
}

// Len reports how many coordinates have been drawn so far.
func (c *MarkovChain) Len() int {
	return len(c.States)
}

func (c *MarkovChain) grow(n int, rng *rand.Rand) {
	for len(c.States) < n {
		c.States = append(c.States, rng.Float64())
	}
}

// perturb implements the Kelemen exponential perturbation: a symmetric,
// scale-mixed proposal that moves value by a distance drawn from an
// exponential distribution between s1 (outer width) and s2 (peak), then
// wraps the result back onto the [0,1) torus.
func perturb(value, s1, s2 float64, rng *rand.Rand) float64 {
	r := rng.Float64()
	var result float64
	if r < 0.5 {
		r *= 2.0
		result = value + s2*math.Exp(-math.Log(s2/s1)*r)
	} else {
		r = (r - 0.5) * 2.0
		result = value - s2*math.Exp(-math.Log(s2/s1)*r)
	}
	result -= math.Floor(result)
	return result
}
