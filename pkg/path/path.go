// Package path implements the unidirectional path tracer's per-ray bounce
// loop: surface scattering with multiple importance sampling against the
// direct-lighting estimator, a nested participating-medium stack, and
// Russian roulette termination.
package path

import (
	"math"

	"github.com/jianoll/taichi/pkg/core"
	"github.com/jianoll/taichi/pkg/light"
	"github.com/jianoll/taichi/pkg/volume"
)

// Config controls path-tracing behavior shared across every traced ray.
type Config struct {
	MinPathLength   int
	MaxPathLength   int
	DirectLighting  bool
	RussianRoulette bool
	Light           light.Config
}

// Tracer traces a single camera or light ray to estimate radiance along it.
type Tracer struct {
	Config Config
}

// NewTracer constructs a Tracer with the given configuration.
func NewTracer(cfg Config) *Tracer {
	return &Tracer{Config: cfg}
}

// Trace estimates the radiance arriving along ray from scene, consuming
// uniform samples from seq in a fixed call order (free-flight distance,
// then either BSDF/light sub-samples or a phase-function direction, then
// the Russian roulette coin) so that a (sampler, path-index) pair alone
// determines the result.
func (t *Tracer) Trace(ray core.Ray, scene core.Scene, seq core.Sequence) core.Vec3 {
	throughput := core.NewVec3(1, 1, 1)
	radiance := core.Vec3{}

	stack := volume.NewStack(volume.Vacuum{})
	if atmosphere, ok := scene.Atmosphere(); ok {
		stack = volume.NewStack(atmosphere)
	}

	for depth := 1; depth <= t.Config.MaxPathLength; depth++ {
		medium := stack.Top()
		hit := scene.Geometry().Query(ray)
		freeDistance := medium.SampleFreeDistance(seq)

		var nextRay core.Ray
		switch {
		case hit.Intersected && hit.Distance < freeDistance:
			var stop bool
			nextRay, throughput, radiance, stop = t.surfaceBounce(ray, hit, medium, scene, seq, depth, throughput, radiance)
			if stop {
				return radiance
			}

		case medium.SampleEvent(seq) == core.VolumeScattering:
			nextRay, throughput, radiance = t.volumeScatter(ray, medium, freeDistance, scene, seq, depth, throughput, radiance)

		default:
			// Volumetric absorption or a null event (including a vacuum ray
			// that hit no surface): the path ends here.
			return radiance
		}

		ray = nextRay
		if t.Config.RussianRoulette {
			p := throughput.Luminance()
			if p <= 1 {
				if seq.Next1D() < p {
					throughput = throughput.Multiply(1 / p)
				} else {
					return radiance
				}
			}
		}
	}
	return radiance
}

// surfaceBounce handles a ray reaching a surface before its medium's free
// flight distance: emission bookkeeping, direct lighting, and BSDF
// sampling to produce the next ray. stop reports that the path has ended.
func (t *Tracer) surfaceBounce(ray core.Ray, hit core.IntersectionInfo, medium core.VolumeMaterial, scene core.Scene, seq core.Sequence, depth int, throughput, radiance core.Vec3) (nextRay core.Ray, newThroughput, newRadiance core.Vec3, stop bool) {
	_, bsdf, ok := scene.TriangleByID(hit.TriangleID)
	if !ok {
		return core.Ray{}, throughput, radiance, true
	}
	omegaI := ray.Direction.Negate()

	if bsdf.IsEmissive() {
		count := hit.FrontFace && (depth == 1 || !t.Config.DirectLighting)
		if count && t.inRange(depth) {
			if emitter, ok := bsdf.(core.Emitter); ok {
				radiance = radiance.Add(throughput.MultiplyVec(emitter.Emit(hit.Normal, omegaI)))
			}
		}
		return core.Ray{}, throughput, radiance, true
	}

	if t.Config.DirectLighting && !bsdf.IsDelta() && t.inRange(depth+1) {
		radiance = radiance.Add(throughput.MultiplyVec(light.SurfaceDirect(omegaI, hit, bsdf, seq, scene, t.Config.Light, medium.GetAttenuation)))
	}

	u := seq.Next2D()
	outDir, f, pdf, _ := bsdf.Sample(omegaI, u.X, u.Y)
	if pdf < 1e-20 {
		return core.Ray{}, throughput, radiance, true
	}
	cosTheta := math.Abs(outDir.Dot(hit.Normal))
	throughput = throughput.MultiplyVec(f).Multiply(cosTheta / pdf)
	return core.NewRayFrom(hit.Position, outDir, 1e-5), throughput, radiance, false
}

// volumeScatter handles an in-medium scattering event: direct lighting via
// the phase function, then a phase-sampled continuation direction. The
// phase function is already importance-sampled, so its pdf is 1 and
// throughput is unaffected.
func (t *Tracer) volumeScatter(ray core.Ray, medium core.VolumeMaterial, freeDistance float64, scene core.Scene, seq core.Sequence, depth int, throughput, radiance core.Vec3) (core.Ray, core.Vec3, core.Vec3) {
	orig := ray.At(freeDistance)
	if t.Config.DirectLighting && t.inRange(depth+1) {
		radiance = radiance.Add(throughput.MultiplyVec(light.VolumetricDirect(orig, medium, seq, scene)))
	}
	outDir := medium.SamplePhase(seq)
	return core.NewRayFrom(orig, outDir, 1e-5), throughput, radiance
}

// inRange reports whether a contribution at the given path depth should be
// counted, per the configured [MinPathLength, MaxPathLength] window.
func (t *Tracer) inRange(depth int) bool {
	return depth >= t.Config.MinPathLength && depth <= t.Config.MaxPathLength
}
