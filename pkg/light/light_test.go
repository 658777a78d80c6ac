package light

import (
	"math"
	"testing"

	"github.com/jianoll/taichi/pkg/core"
)

// fixedSequence replays a canned list of uniforms, looping once exhausted;
// enough determinism for these tests without pulling in a real Sequence.
type fixedSequence struct {
	vals []float64
	next int
}

func (s *fixedSequence) Next1D() float64 {
	v := s.vals[s.next%len(s.vals)]
	s.next++
	return v
}

func (s *fixedSequence) Next2D() core.Vec2 {
	return core.NewVec2(s.Next1D(), s.Next1D())
}

// emissiveQuad is a single unit-area triangle centered at (0,2,0), facing
// down (-Y), used as the only light source in these tests.
type emissiveQuad struct{ id int }

func (t emissiveQuad) ID() int             { return t.id }
func (t emissiveQuad) Area() float64       { return 1 }
func (t emissiveQuad) Normal() core.Vec3   { return core.NewVec3(0, -1, 0) }
func (t emissiveQuad) SamplePoint(u, v float64) core.Vec3 {
	return core.NewVec3(0, 2, 0)
}
func (t emissiveQuad) RelativeLocationToPlane(p core.Vec3) float64 {
	// Plane at y=2, facing -Y: points below the plane (p.Y < 2) are "in front".
	return 2 - p.Y
}

// emissiveBSDF is a constant emitter that never scatters: Evaluate returns
// zero and Sample returns a zero pdf.
type emissiveBSDF struct {
	emission core.Vec3
}

func (b emissiveBSDF) Evaluate(omegaI, omegaO core.Vec3) core.Vec3 { return core.Vec3{} }
func (b emissiveBSDF) Sample(omegaI core.Vec3, u1, u2 float64) (core.Vec3, core.Vec3, float64, core.SurfaceScatteringEvent) {
	return core.Vec3{}, core.Vec3{}, 0, core.EventDiffuse
}
func (b emissiveBSDF) ProbabilityDensity(omegaI, omegaO core.Vec3) float64 { return 0 }
func (b emissiveBSDF) IsEmissive() bool                                   { return true }
func (b emissiveBSDF) IsDelta() bool                                      { return false }
func (b emissiveBSDF) Emit(normal, outgoing core.Vec3) core.Vec3          { return b.emission }

// diffuseBSDF always samples straight up toward the light at (0,2,0).
type diffuseBSDF struct{}

func (diffuseBSDF) Evaluate(omegaI, omegaO core.Vec3) core.Vec3 { return core.NewVec3(0.5, 0.5, 0.5) }
func (diffuseBSDF) Sample(omegaI core.Vec3, u1, u2 float64) (core.Vec3, core.Vec3, float64, core.SurfaceScatteringEvent) {
	return core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.5, 0.5), 0.3, core.EventDiffuse
}
func (diffuseBSDF) ProbabilityDensity(omegaI, omegaO core.Vec3) float64 { return 0.3 }
func (diffuseBSDF) IsEmissive() bool                                   { return false }
func (diffuseBSDF) IsDelta() bool                                      { return false }

// fakeGeometry always reports a hit on the light quad regardless of the ray
// cast, which is sufficient since every shadow ray in these tests points
// straight at it.
type fakeGeometry struct{ light emissiveQuad }

func (g fakeGeometry) Query(r core.Ray) core.IntersectionInfo {
	return core.IntersectionInfo{
		Intersected: true,
		Distance:    2,
		Position:    core.NewVec3(0, 2, 0),
		Normal:      core.NewVec3(0, -1, 0),
		FrontFace:   true,
		TriangleID:  g.light.id,
	}
}
func (g fakeGeometry) QueryHitTriangleID(r core.Ray) int { return g.light.id }

type fakeScene struct {
	geom  fakeGeometry
	light emissiveQuad
	bsdf  emissiveBSDF
}

func (s fakeScene) Geometry() core.SceneGeometry { return s.geom }
func (s fakeScene) Camera() core.Camera          { return nil }
func (s fakeScene) TriangleByID(id int) (core.Triangle, core.BSDF, bool) {
	if id != s.light.id {
		return nil, nil, false
	}
	return s.light, s.bsdf, true
}
func (s fakeScene) EmissiveTriangles() []core.EmissiveTriangle {
	return []core.EmissiveTriangle{{Triangle: s.light, BSDF: s.bsdf}}
}
func (s fakeScene) SampleEmissiveTriangle(u float64) (core.EmissiveTriangle, float64) {
	return core.EmissiveTriangle{Triangle: s.light, BSDF: s.bsdf}, 1
}
func (s fakeScene) Atmosphere() (core.VolumeMaterial, bool) { return nil, false }

func noAttenuation(float64) core.Vec3 { return core.NewVec3(1, 1, 1) }

func newFakeScene() fakeScene {
	light := emissiveQuad{id: 1}
	return fakeScene{
		geom:  fakeGeometry{light: light},
		light: light,
		bsdf:  emissiveBSDF{emission: core.NewVec3(4, 4, 4)},
	}
}

func TestSurfaceDirect_LightSamplingOnlyIsPositiveAndFinite(t *testing.T) {
	scene := newFakeScene()
	hit := core.IntersectionInfo{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}
	seq := &fixedSequence{vals: []float64{0.3, 0.7}}
	cfg := Config{NBSDF: 0, NLight: 1}

	got := SurfaceDirect(core.NewVec3(0, 1, 0), hit, diffuseBSDF{}, seq, scene, cfg, noAttenuation)

	if !got.IsFinite() {
		t.Fatalf("SurfaceDirect() = %v, want finite", got)
	}
	if got.Luminance() <= 0 {
		t.Fatalf("SurfaceDirect() luminance = %v, want > 0", got.Luminance())
	}
}

func TestSurfaceDirect_BSDFSamplingOnlyIsPositiveAndFinite(t *testing.T) {
	scene := newFakeScene()
	hit := core.IntersectionInfo{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}
	seq := &fixedSequence{vals: []float64{0.1, 0.9}}
	cfg := Config{NBSDF: 1, NLight: 0}

	got := SurfaceDirect(core.NewVec3(0, 1, 0), hit, diffuseBSDF{}, seq, scene, cfg, noAttenuation)

	if !got.IsFinite() || got.Luminance() <= 0 {
		t.Fatalf("SurfaceDirect() = %v, want finite and positive", got)
	}
}

func TestSurfaceDirect_RejectsTriangleBehindShadingPoint(t *testing.T) {
	scene := newFakeScene()
	// Shading point above the light's plane: RelativeLocationToPlane <= 0.
	hit := core.IntersectionInfo{Position: core.NewVec3(0, 3, 0), Normal: core.NewVec3(0, 1, 0)}
	seq := &fixedSequence{vals: []float64{0.5, 0.5}}
	cfg := Config{NBSDF: 1, NLight: 1}

	got := SurfaceDirect(core.NewVec3(0, 1, 0), hit, diffuseBSDF{}, seq, scene, cfg, noAttenuation)

	if got != (core.Vec3{}) {
		t.Errorf("SurfaceDirect() = %v, want zero vector for a light behind the shading point", got)
	}
}

func TestSurfaceDirect_FullModeSumsEveryEmissiveTriangle(t *testing.T) {
	scene := newFakeScene()
	hit := core.IntersectionInfo{Position: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0)}
	seqSampled := &fixedSequence{vals: []float64{0.3, 0.7}}
	seqFull := &fixedSequence{vals: []float64{0.3, 0.7}}
	cfg := Config{NBSDF: 0, NLight: 1}

	sampled := SurfaceDirect(core.NewVec3(0, 1, 0), hit, diffuseBSDF{}, seqSampled, scene, cfg, noAttenuation)

	cfgFull := cfg
	cfgFull.FullDirectLighting = true
	full := SurfaceDirect(core.NewVec3(0, 1, 0), hit, diffuseBSDF{}, seqFull, scene, cfgFull, noAttenuation)

	// With exactly one emissive triangle and a selection pdf of 1, the
	// sampled branch's division by pdf leaves the two paths numerically
	// identical.
	if sampled != full {
		t.Errorf("sampled = %v, full = %v, want equal for a single light with pdf 1", sampled, full)
	}
}

func TestVolumetricDirect_HitsEmissiveSurface(t *testing.T) {
	scene := newFakeScene()
	medium := phaseUpMedium{}

	got := VolumetricDirect(core.NewVec3(0, 0, 0), medium, &fixedSequence{vals: []float64{0.5}}, scene)

	if !got.IsFinite() || got.Luminance() <= 0 {
		t.Fatalf("VolumetricDirect() = %v, want finite and positive", got)
	}
}

// phaseUpMedium always scatters straight toward the test light and never
// attenuates, isolating VolumetricDirect from any real phase function.
type phaseUpMedium struct{}

func (phaseUpMedium) SampleFreeDistance(core.Sequence) float64 { return 1e30 }
func (phaseUpMedium) SampleEvent(core.Sequence) core.VolumeEvent {
	return core.VolumeScattering
}
func (phaseUpMedium) SamplePhase(core.Sequence) core.Vec3 { return core.NewVec3(0, 1, 0) }
func (phaseUpMedium) GetAttenuation(float64) core.Vec3    { return core.NewVec3(1, 1, 1) }

// TestDirectLightingAgainst_MatchesTheBalanceHeuristicAtASharedSample checks
// that summing core.BalanceHeuristic's two strategy weights at a shared
// sample yields 1, and that dividing each weight by its own strategy's
// (n, pdf) recovers the classic single-denominator MIS estimator
// directLightingAgainst builds its per-sample weight from.
func TestDirectLightingAgainst_MatchesTheBalanceHeuristicAtASharedSample(t *testing.T) {
	nBSDF, nLight := 2, 3
	bsdfP, lightP := 0.4, 0.9

	wBSDF := core.BalanceHeuristic(nBSDF, bsdfP, nLight, lightP)
	wLight := core.BalanceHeuristic(nLight, lightP, nBSDF, bsdfP)
	if got, want := wBSDF+wLight, 1.0; got < want-1e-12 || got > want+1e-12 {
		t.Fatalf("wBSDF+wLight = %v, want 1", got)
	}

	// wBSDF/(nBSDF*bsdfP) (equivalently wLight/(nLight*lightP)) recovers the
	// combined estimator's denominator, confirming the two are the same formula.
	combined := 1 / (float64(nBSDF)*bsdfP + float64(nLight)*lightP)
	if got := wBSDF / (float64(nBSDF) * bsdfP); math.Abs(got-combined) > 1e-12 {
		t.Errorf("wBSDF/(nBSDF*bsdfP) = %v, want %v", got, combined)
	}
}
