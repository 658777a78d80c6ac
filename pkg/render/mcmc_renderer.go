package render

import (
	"context"
	"log/slog"
	"time"

	"pgregory.net/rand"

	"github.com/jianoll/taichi/pkg/accum"
	"github.com/jianoll/taichi/pkg/core"
	"github.com/jianoll/taichi/pkg/path"
	"github.com/jianoll/taichi/pkg/pssmlt"
	"github.com/jianoll/taichi/pkg/sequence"
)

// mcmcState is one point in the Metropolis chain: the primary-sample-space
// state that produced it, the path contribution it traced to, and that
// contribution's scalar importance.
type mcmcState struct {
	chain pssmlt.MarkovChain
	pc    PathContribution
	sc    float64
}

// MCMCRenderer is the PSSMLT Metropolis Light Transport integrator. It
// holds a path-contribution function shaped like PathTracingRenderer's
// (tracer + scene + resolution) rather than embedding a
// PathTracingRenderer, since the two share the bounce loop but not the
// accumulation or acceptance logic.
type MCMCRenderer struct {
	scene          core.Scene
	tracer         *path.Tracer
	width, height  int
	accumulator    *accum.Accumulator
	luminanceClamp float64

	largeStepProb    float64
	estimationRounds float64
	mutationStrength float64

	rng *rand.Rand
	b   float64

	current     mcmcState
	initialized bool
	stage       int
	logger      *slog.Logger
}

// NewMCMCRenderer builds an MCMCRenderer from a validated Config.
func NewMCMCRenderer(scene core.Scene, width, height int, cfg *Config, logger *slog.Logger) *MCMCRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MCMCRenderer{
		scene:            scene,
		tracer:           path.NewTracer(tracerConfigFrom(cfg)),
		width:            width,
		height:           height,
		accumulator:      accum.NewShared(width, height),
		luminanceClamp:   cfg.Float("luminance_clamping"),
		largeStepProb:    cfg.Float("large_step_prob"),
		estimationRounds: cfg.Float("estimation_rounds"),
		mutationStrength: cfg.Float("mutation_strength"),
		rng:              rand.New(uint64(1)),
		logger:           logger,
	}
}

func scalarContribution(pc PathContribution) float64 {
	return pc.C.Luminance()
}

// bootstrap runs the estimation phase once: a population of independent
// paths estimates b, the normalization constant the expected-value splat
// weights are scaled against, and a fresh chain seeds the first current
// state.
func (r *MCMCRenderer) bootstrap() {
	factory, err := sequence.NewFactory("prand", 0)
	if err != nil {
		panic(err)
	}
	numSamples := int(float64(r.width*r.height) * r.estimationRounds)
	total := 0.0
	for i := 0; i < numSamples; i++ {
		seq := factory.NewSequence(int64(i))
		pc := pathContribution(r.tracer, r.scene, r.width, r.height, r.luminanceClamp, seq)
		total += scalarContribution(pc)
	}
	if numSamples > 0 {
		r.b = total / float64(numSamples)
	}

	chain := pssmlt.NewMarkovChain(r.width, r.height)
	seq := sequence.NewChainSequence(&chain, r.rng)
	pc := pathContribution(r.tracer, r.scene, r.width, r.height, r.luminanceClamp, seq)
	r.current = mcmcState{chain: chain, pc: pc, sc: scalarContribution(pc)}
}

// RenderStage runs width*height Metropolis iterations, matching upstream's
// render_stage. Cancellation is checked between iterations; a cancelled
// stage returns ctx.Err() after committing whatever iterations already ran.
func (r *MCMCRenderer) RenderStage(ctx context.Context) error {
	start := time.Now()
	r.stage++
	if !r.initialized {
		r.bootstrap()
		r.initialized = true
	}

	total := r.width * r.height
	var cancelled error
	for k := 0; k < total; k++ {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
		default:
		}
		if cancelled != nil {
			break
		}
		r.iterate()
	}

	r.logger.Info("render stage complete",
		"stage", r.stage,
		"samples", total,
		"elapsed", time.Since(start),
		"cancelled", cancelled != nil)
	return cancelled
}

func (r *MCMCRenderer) iterate() {
	var newChain pssmlt.MarkovChain
	var isLarge float64
	if r.rng.Float64() <= r.largeStepProb {
		newChain = r.current.chain.LargeStep()
		isLarge = 1
	} else {
		newChain = r.current.chain.Mutate(r.mutationStrength, r.rng)
	}

	newSeq := sequence.NewChainSequence(&newChain, r.rng)
	newPC := pathContribution(r.tracer, r.scene, r.width, r.height, r.luminanceClamp, newSeq)
	newSC := scalarContribution(newPC)

	a := 1.0
	if r.current.sc > 0 {
		a = clamp01(newSC / r.current.sc)
	}

	if newSC > 0 {
		r.splat(newPC, (a+isLarge)/(newSC/r.b+r.largeStepProb))
	}
	if r.current.sc > 0 {
		r.splat(r.current.pc, (1-a)/(r.current.sc/r.b+r.largeStepProb))
	}

	if r.rng.Float64() <= a {
		r.current = mcmcState{chain: newChain, pc: newPC, sc: newSC}
	}
	r.accumulator.IncrementShared()
}

// splat writes weight*width*height*c into the accumulator, rejecting (not
// clamping) any contribution that falls outside [0, 1-eps] — the stricter
// gate the MCMC integrator uses in place of PT's clamped one.
func (r *MCMCRenderer) splat(pc PathContribution, weight float64) {
	ix, iy, ok := gatedPixelIndex(pc.X, pc.Y, r.width, r.height)
	if !ok {
		return
	}
	scale := float64(r.width*r.height) * weight
	r.accumulator.Accumulate(ix, iy, pc.C.Multiply(scale))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GetOutput returns the accumulator's current running average.
func (r *MCMCRenderer) GetOutput() Image {
	return Image{Width: r.width, Height: r.height, Pixels: r.accumulator.GetAveraged()}
}

var _ Renderer = (*MCMCRenderer)(nil)
