package render

import (
	"github.com/jianoll/taichi/pkg/core"
)

// fakeCamera always looks straight up, independent of pixel offset, so
// every path index in these tests reaches the same emissive hit.
type fakeCamera struct{}

func (fakeCamera) Sample(offset, size core.Vec2) core.Ray {
	return core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
}

// fakeGeometry reports a hit on its one triangle for every query.
type fakeGeometry struct{ triangleID int }

func (g fakeGeometry) Query(r core.Ray) core.IntersectionInfo {
	return core.IntersectionInfo{
		Intersected: true,
		Distance:    1,
		Position:    core.NewVec3(0, 1, 0),
		Normal:      core.NewVec3(0, -1, 0),
		FrontFace:   true,
		TriangleID:  g.triangleID,
	}
}
func (g fakeGeometry) QueryHitTriangleID(r core.Ray) int { return g.triangleID }

type fakeEmitTriangle struct {
	id   int
	temp float64
}

func (t fakeEmitTriangle) ID() int                                     { return t.id }
func (t fakeEmitTriangle) Area() float64                               { return 1 }
func (t fakeEmitTriangle) Normal() core.Vec3                           { return core.NewVec3(0, -1, 0) }
func (t fakeEmitTriangle) SamplePoint(u, v float64) core.Vec3          { return core.NewVec3(0, 1, 0) }
func (t fakeEmitTriangle) RelativeLocationToPlane(p core.Vec3) float64 { return -1 }
func (t fakeEmitTriangle) Temperature() float64                        { return t.temp }

type fakeEmitBSDF struct{ emission core.Vec3 }

func (b fakeEmitBSDF) Evaluate(omegaI, omegaO core.Vec3) core.Vec3 { return core.Vec3{} }
func (b fakeEmitBSDF) Sample(omegaI core.Vec3, u1, u2 float64) (core.Vec3, core.Vec3, float64, core.SurfaceScatteringEvent) {
	return core.Vec3{}, core.Vec3{}, 0, core.EventDiffuse
}
func (b fakeEmitBSDF) ProbabilityDensity(omegaI, omegaO core.Vec3) float64 { return 0 }
func (b fakeEmitBSDF) IsEmissive() bool                                   { return true }
func (b fakeEmitBSDF) IsDelta() bool                                      { return false }
func (b fakeEmitBSDF) Emit(normal, outgoing core.Vec3) core.Vec3          { return b.emission }

type fakeScene struct {
	geom fakeGeometry
	tri  fakeEmitTriangle
	bsdf fakeEmitBSDF
}

func newFakeScene() fakeScene {
	tri := fakeEmitTriangle{id: 1, temp: 42}
	return fakeScene{
		geom: fakeGeometry{triangleID: tri.id},
		tri:  tri,
		bsdf: fakeEmitBSDF{emission: core.NewVec3(2, 2, 2)},
	}
}

func (s fakeScene) Geometry() core.SceneGeometry { return s.geom }
func (s fakeScene) Camera() core.Camera          { return fakeCamera{} }
func (s fakeScene) TriangleByID(id int) (core.Triangle, core.BSDF, bool) {
	if id != s.tri.id {
		return nil, nil, false
	}
	return s.tri, s.bsdf, true
}
func (s fakeScene) EmissiveTriangles() []core.EmissiveTriangle {
	return []core.EmissiveTriangle{{Triangle: s.tri, BSDF: s.bsdf}}
}
func (s fakeScene) SampleEmissiveTriangle(u float64) (core.EmissiveTriangle, float64) {
	return core.EmissiveTriangle{Triangle: s.tri, BSDF: s.bsdf}, 1
}
func (s fakeScene) Atmosphere() (core.VolumeMaterial, bool) { return nil, false }

var _ core.Scene = fakeScene{}
