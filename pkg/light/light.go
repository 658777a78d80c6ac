// Package light estimates direct illumination at a surface or in-medium
// vertex by multiple importance sampling between BSDF sampling and
// light-surface sampling.
package light

import (
	"math"

	"github.com/jianoll/taichi/pkg/core"
)

// Config controls the direct-lighting estimator's sample counts and
// triangle-selection strategy. NBSDF and NLight must not both be zero.
type Config struct {
	NBSDF              int
	NLight             int
	FullDirectLighting bool
}

// SurfaceDirect estimates direct lighting at the shading point described by
// hit, with BSDF b and incoming direction omegaI (pointing away from the
// surface, toward the previous vertex). attenuation applies the enclosing
// medium's extinction over the shadow ray's length.
//
// In sampled mode one emissive triangle is drawn; if it lies behind the
// shading point's tangent plane the result is zero, with no redraw, and
// otherwise the estimate is divided by that triangle's selection pdf. In
// full mode every emissive triangle in front of the tangent plane is summed
// and no pdf division is applied.
func SurfaceDirect(omegaI core.Vec3, hit core.IntersectionInfo, b core.BSDF, seq core.Sequence, scene core.Scene, cfg Config, attenuation func(dist float64) core.Vec3) core.Vec3 {
	if !cfg.FullDirectLighting {
		tri, pdf := scene.SampleEmissiveTriangle(seq.Next1D())
		if tri.Triangle.RelativeLocationToPlane(hit.Position) <= 0 {
			return core.Vec3{}
		}
		return directLightingAgainst(omegaI, hit, b, seq, scene, cfg, attenuation, tri).Multiply(1 / pdf)
	}

	acc := core.Vec3{}
	for _, tri := range scene.EmissiveTriangles() {
		if tri.Triangle.RelativeLocationToPlane(hit.Position) <= 0 {
			continue
		}
		acc = acc.Add(directLightingAgainst(omegaI, hit, b, seq, scene, cfg, attenuation, tri))
	}
	return acc
}

// directLightingAgainst draws cfg.NBSDF + cfg.NLight sub-samples against a
// single chosen emissive triangle and combines them with the balance
// heuristic; the sampled-triangle caller divides the result by the
// triangle's selection pdf itself.
func directLightingAgainst(omegaI core.Vec3, hit core.IntersectionInfo, b core.BSDF, seq core.Sequence, scene core.Scene, cfg Config, attenuation func(dist float64) core.Vec3, tri core.EmissiveTriangle) core.Vec3 {
	acc := core.Vec3{}
	samples := cfg.NBSDF + cfg.NLight
	geom := scene.Geometry()

	for i := 0; i < samples; i++ {
		sampleBSDF := i < cfg.NBSDF

		var outDir core.Vec3
		var f core.Vec3
		var bsdfP float64
		var event core.SurfaceScatteringEvent

		if sampleBSDF {
			u := seq.Next2D()
			outDir, f, bsdfP, event = b.Sample(omegaI, u.X, u.Y)
		} else {
			u := seq.Next2D()
			pos := tri.Triangle.SamplePoint(u.X, u.Y)
			outDir = pos.Sub(hit.Position).Normalize()
		}

		ray := core.NewRay(hit.Position, outDir)
		test := geom.Query(ray)
		if test.TriangleID != tri.Triangle.ID() {
			continue
		}

		if !sampleBSDF {
			f = b.Evaluate(omegaI, outDir)
			bsdfP = b.ProbabilityDensity(omegaI, outDir)
		}

		co := math.Abs(outDir.Dot(hit.Normal))
		c := math.Abs(outDir.Dot(tri.Triangle.Normal()))
		dist := test.Position.Sub(hit.Position)
		lightP := dist.Dot(dist) / (tri.Triangle.Area() * c)

		emission := tri.BSDF.(core.Emitter).Emit(tri.Triangle.Normal(), outDir.Negate())
		throughput := emission.Multiply(co).MultiplyVec(f).MultiplyVec(attenuation(test.Distance))

		// weight/ (n*pdf) is the balance-heuristic MIS estimator for this
		// sample's strategy: weight collapses to 1 when the other strategy
		// has zero samples or zero pdf (a delta BSDF, which light sampling
		// can never hit), recovering the single-strategy estimator.
		var weight float64
		if sampleBSDF && event.IsDelta() {
			weight = core.BalanceHeuristic(cfg.NBSDF, bsdfP, 0, 0)
			acc = acc.Add(throughput.Multiply(weight / (float64(cfg.NBSDF) * bsdfP)))
		} else if sampleBSDF {
			weight = core.BalanceHeuristic(cfg.NBSDF, bsdfP, cfg.NLight, lightP)
			acc = acc.Add(throughput.Multiply(weight / (float64(cfg.NBSDF) * bsdfP)))
		} else {
			weight = core.BalanceHeuristic(cfg.NLight, lightP, cfg.NBSDF, bsdfP)
			acc = acc.Add(throughput.Multiply(weight / (float64(cfg.NLight) * lightP)))
		}
	}
	return acc
}

// VolumetricDirect estimates direct lighting at the in-medium point orig by
// sampling a single direction from the current medium's phase function. It
// uses a single strategy, with no MIS against light sampling.
func VolumetricDirect(orig core.Vec3, medium core.VolumeMaterial, seq core.Sequence, scene core.Scene) core.Vec3 {
	outDir := medium.SamplePhase(seq)
	ray := core.NewRay(orig, outDir)
	test := scene.Geometry().Query(ray)
	if !test.Intersected || !test.FrontFace {
		return core.Vec3{}
	}
	_, bsdf, ok := scene.TriangleByID(test.TriangleID)
	if !ok {
		return core.Vec3{}
	}
	emitter, ok := bsdf.(core.Emitter)
	if !ok {
		return core.Vec3{}
	}
	emission := emitter.Emit(test.Normal, outDir.Negate())
	return emission.MultiplyVec(medium.GetAttenuation(test.Distance))
}
