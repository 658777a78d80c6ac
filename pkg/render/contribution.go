package render

import (
	"math"

	"github.com/jianoll/taichi/pkg/core"
	"github.com/jianoll/taichi/pkg/path"
)

// PathContribution is one traced path's normalized image-plane location
// and the radiance it carries, the unit both renderers splat into their
// accumulator.
type PathContribution struct {
	X, Y float64
	C    core.Vec3
}

// pathContribution draws a jittered primary ray from seq, traces it, and
// applies luminance clamping if configured. It is the one place both
// PathTracingRenderer and MCMCRenderer obtain a path's contribution, so
// that a pixel offset and its radiance are always derived from the same
// (sampler, path-index) stream in the same call order.
func pathContribution(tracer *path.Tracer, scene core.Scene, width, height int, luminanceClamp float64, seq core.Sequence) PathContribution {
	offset := seq.Next2D()
	size := core.NewVec2(1/float64(width), 1/float64(height))
	ray := scene.Camera().Sample(offset, size)
	color := tracer.Trace(ray, scene, seq)
	if !color.IsFinite() {
		// A NaN/Inf sample must never reach the accumulator: sum[idx] would
		// be poisoned for every subsequent sample of that pixel, not just
		// this one (NaN+x is NaN forever).
		color = core.Vec3{}
	} else if luminanceClamp > 0 {
		if l := color.Luminance(); l > luminanceClamp {
			color = color.Multiply(luminanceClamp / l)
		}
	}
	return PathContribution{X: offset.X, Y: offset.Y, C: color}
}

// clampedPixelIndex maps a contribution's normalized offset to an integer
// pixel index, clamping out-of-range offsets into the nearest edge pixel
// rather than rejecting them (the plain path tracer's gate).
func clampedPixelIndex(x, y float64, width, height int) (int, int) {
	const eps = 1e-7
	x = clampUnit(x, eps)
	y = clampUnit(y, eps)
	return int(x * float64(width)), int(y * float64(height))
}

func clampUnit(v, eps float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1-eps {
		return 1 - eps
	}
	return v
}

// gatedPixelIndex maps a contribution's normalized offset to an integer
// pixel index, rejecting (returning ok=false for) any offset outside
// [0, 1-eps] rather than clamping it — the MCMC integrator's stricter
// gate, so an offset at or beyond 1 is never written.
func gatedPixelIndex(x, y float64, width, height int) (ix, iy int, ok bool) {
	const eps = 1e-7
	if x < 0 || x > 1-eps || y < 0 || y > 1-eps {
		return 0, 0, false
	}
	return int(math.Floor(x * float64(width))), int(math.Floor(y * float64(height))), true
}
