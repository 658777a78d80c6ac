package render

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jianoll/taichi/pkg/accum"
	"github.com/jianoll/taichi/pkg/core"
	"github.com/jianoll/taichi/pkg/light"
	"github.com/jianoll/taichi/pkg/path"
	"github.com/jianoll/taichi/pkg/sequence"
)

// PathTracingRenderer is the plain, memoryless Monte Carlo integrator: each
// stage traces one independent path per path index in
// [nextIndex, nextIndex+W*H) and splats it into a per-pixel-averaged
// accumulator. Each path's image-plane position is drawn from its own
// sample stream, so a single stage does not necessarily reach every pixel.
type PathTracingRenderer struct {
	scene          core.Scene
	tracer         *path.Tracer
	width, height  int
	accumulator    *accum.Accumulator
	factory        sequence.Factory
	luminanceClamp float64
	numWorkers     int
	nextIndex      int64
	stage          int
	logger         *slog.Logger
}

// NewPathTracingRenderer builds a PathTracingRenderer from a validated
// Config. logger may be nil, in which case slog.Default() is used.
func NewPathTracingRenderer(scene core.Scene, width, height int, cfg *Config, logger *slog.Logger) (*PathTracingRenderer, error) {
	factory, err := sequence.NewFactory(cfg.String("sampler"), 0)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	numWorkers := cfg.Int("num_workers")
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	return &PathTracingRenderer{
		scene:          scene,
		tracer:         path.NewTracer(tracerConfigFrom(cfg)),
		width:          width,
		height:         height,
		accumulator:    accum.New(width, height),
		factory:        factory,
		luminanceClamp: cfg.Float("luminance_clamping"),
		numWorkers:     numWorkers,
		logger:         logger,
	}, nil
}

// tracerConfigFrom translates the renderer's string-keyed Config into the
// path tracer's typed Config, shared by both PathTracingRenderer and
// MCMCRenderer so the two integrators can never disagree on bounce rules.
func tracerConfigFrom(cfg *Config) path.Config {
	return path.Config{
		MinPathLength:   cfg.Int("min_path_length"),
		MaxPathLength:   cfg.Int("max_path_length"),
		DirectLighting:  cfg.Bool("direct_lighting"),
		RussianRoulette: cfg.Bool("russian_roulette"),
		Light: light.Config{
			NBSDF:              cfg.Int("direct_lighting_bsdf"),
			NLight:             cfg.Int("direct_lighting_light"),
			FullDirectLighting: cfg.Bool("full_direct_lighting"),
		},
	}
}

// RenderStage traces one full frame's worth of independent paths
// (width*height of them), partitioned into contiguous index ranges across
// a fixed worker pool. The partition, and therefore the final image, does
// not depend on how the workers happen to get scheduled: each path index
// alone determines its sample stream, and tiles are merged back into the
// shared accumulator in worker order.
func (r *PathTracingRenderer) RenderStage(ctx context.Context) error {
	start := time.Now()
	r.stage++

	total := int64(r.width * r.height)
	chunk := (total + int64(r.numWorkers) - 1) / int64(r.numWorkers)
	tiles := make([]*accum.Tile, r.numWorkers)

	g, gctx := errgroup.WithContext(ctx)
	base := r.nextIndex
	for w := 0; w < r.numWorkers; w++ {
		lo := base + int64(w)*chunk
		hi := lo + chunk
		if hi > base+total {
			hi = base + total
		}
		tile := r.accumulator.Shard()
		tiles[w] = tile
		g.Go(func() error {
			for idx := lo; idx < hi; idx++ {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				seq := r.factory.NewSequence(idx)
				pc := pathContribution(r.tracer, r.scene, r.width, r.height, r.luminanceClamp, seq)
				ix, iy := clampedPixelIndex(pc.X, pc.Y, r.width, r.height)
				tile.Accumulate(ix, iy, pc.C)
			}
			return nil
		})
	}
	err := g.Wait()
	for _, tile := range tiles {
		r.accumulator.Merge(tile)
	}
	r.nextIndex += total

	r.logger.Info("render stage complete",
		"stage", r.stage,
		"samples", total,
		"elapsed", time.Since(start),
		"cancelled", err != nil)
	return err
}

// GetOutput returns the accumulator's current per-pixel average.
func (r *PathTracingRenderer) GetOutput() Image {
	return Image{Width: r.width, Height: r.height, Pixels: r.accumulator.GetAveraged()}
}

var _ Renderer = (*PathTracingRenderer)(nil)
