package main

import (
	"math"

	"github.com/jianoll/taichi/pkg/core"
)

// triangle is a minimal core.Triangle: three vertices and a precomputed
// outward normal. It exists only to give this demo's cornellScene
// something to intersect against; the real module treats geometry as an
// external collaborator reached through core.Triangle/core.SceneGeometry.
type triangle struct {
	id         int
	v0, v1, v2 core.Vec3
	normal     core.Vec3
}

func newTriangle(id int, v0, v1, v2 core.Vec3) triangle {
	n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	return triangle{id: id, v0: v0, v1: v1, v2: v2, normal: n}
}

func (t triangle) ID() int           { return t.id }
func (t triangle) Normal() core.Vec3 { return t.normal }

func (t triangle) Area() float64 {
	return t.v1.Sub(t.v0).Cross(t.v2.Sub(t.v0)).Length() / 2
}

// SamplePoint draws a uniform point via the standard square-root
// barycentric trick.
func (t triangle) SamplePoint(u, v float64) core.Vec3 {
	su := math.Sqrt(u)
	b0 := 1 - su
	b1 := v * su
	b2 := 1 - b0 - b1
	return t.v0.Multiply(b0).Add(t.v1.Multiply(b1)).Add(t.v2.Multiply(b2))
}

func (t triangle) RelativeLocationToPlane(p core.Vec3) float64 {
	return p.Sub(t.v0).Dot(t.normal)
}

// intersect is the Möller-Trumbore ray/triangle test, returning the hit
// distance and ok=false if there is no hit at distance >= minDistance.
func (t triangle) intersect(r core.Ray) (dist float64, ok bool) {
	const eps = 1e-9
	edge1 := t.v1.Sub(t.v0)
	edge2 := t.v2.Sub(t.v0)
	pvec := r.Direction.Cross(edge2)
	det := edge1.Dot(pvec)
	if math.Abs(det) < eps {
		return 0, false
	}
	invDet := 1 / det
	tvec := r.Origin.Sub(t.v0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	qvec := tvec.Cross(edge1)
	v := r.Direction.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	dist = edge2.Dot(qvec) * invDet
	if dist < r.MinDistance+eps {
		return 0, false
	}
	return dist, true
}

// orientedNormal returns n flipped, if necessary, to lie on the same side
// as omegaI — the same rule cornellGeometry.Query uses to orient
// hit.Normal, so a BSDF built from a triangle's static normal always
// agrees with the hit info the caller computed independently.
func orientedNormal(n, omegaI core.Vec3) core.Vec3 {
	if n.Dot(omegaI) < 0 {
		return n.Negate()
	}
	return n
}

// lambertBSDF is a perfectly diffuse, non-emissive surface bound to its
// triangle's static geometric normal.
type lambertBSDF struct {
	albedo core.Vec3
	normal core.Vec3
}

func (b lambertBSDF) Evaluate(omegaI, omegaO core.Vec3) core.Vec3 {
	n := orientedNormal(b.normal, omegaI)
	if omegaO.Dot(n) <= 0 {
		return core.Vec3{}
	}
	return b.albedo.Multiply(1 / math.Pi)
}

// Sample draws a cosine-weighted direction in the hemisphere around the
// triangle's normal, oriented toward omegaI.
func (b lambertBSDF) Sample(omegaI core.Vec3, u1, u2 float64) (core.Vec3, core.Vec3, float64, core.SurfaceScatteringEvent) {
	n := orientedNormal(b.normal, omegaI)
	t, bt := orthonormalBasis(n)
	r := math.Sqrt(u1)
	phi := 2 * math.Pi * u2
	local := core.NewVec3(r*math.Cos(phi), r*math.Sin(phi), math.Sqrt(math.Max(0, 1-u1)))
	dir := t.Multiply(local.X).Add(bt.Multiply(local.Y)).Add(n.Multiply(local.Z)).Normalize()
	pdf := dir.Dot(n) / math.Pi
	return dir, b.Evaluate(omegaI, dir), pdf, core.EventDiffuse
}

func (b lambertBSDF) ProbabilityDensity(omegaI, omegaO core.Vec3) float64 {
	n := orientedNormal(b.normal, omegaI)
	cos := omegaO.Dot(n)
	if cos <= 0 {
		return 0
	}
	return cos / math.Pi
}

func (b lambertBSDF) IsEmissive() bool { return false }
func (b lambertBSDF) IsDelta() bool    { return false }

// emitBSDF is a one-sided diffuse area light bound to its triangle's
// static geometric normal: it never scatters, it only emits toward
// directions on the same side as that normal.
type emitBSDF struct {
	radiance core.Vec3
	normal   core.Vec3
}

func (b emitBSDF) Evaluate(omegaI, omegaO core.Vec3) core.Vec3 { return core.Vec3{} }
func (b emitBSDF) Sample(omegaI core.Vec3, u1, u2 float64) (core.Vec3, core.Vec3, float64, core.SurfaceScatteringEvent) {
	return core.Vec3{}, core.Vec3{}, 0, core.EventDiffuse
}
func (b emitBSDF) ProbabilityDensity(omegaI, omegaO core.Vec3) float64 { return 0 }
func (b emitBSDF) IsEmissive() bool                                    { return true }
func (b emitBSDF) IsDelta() bool                                       { return false }

// Emit reports the light's radiance toward outgoing, using normal as
// passed by the caller (a hit normal, or the light triangle's own normal
// in direct lighting) rather than its own stored normal.
func (b emitBSDF) Emit(normal, outgoing core.Vec3) core.Vec3 {
	if normal.Dot(outgoing) <= 0 {
		return core.Vec3{}
	}
	return b.radiance
}

func orthonormalBasis(n core.Vec3) (t, bt core.Vec3) {
	a := core.NewVec3(0, 1, 0)
	if math.Abs(n.Dot(a)) > 0.99 {
		a = core.NewVec3(1, 0, 0)
	}
	t = a.Cross(n).Normalize()
	bt = n.Cross(t)
	return t, bt
}

// primitive pairs a triangle with the BSDF it scatters/emits through.
type primitive struct {
	tri  triangle
	bsdf core.BSDF
}

// cornellGeometry brute-force intersects a small, fixed primitive list;
// the real module never implements its own SceneGeometry, but a demo
// needs something concrete to stand in for it.
type cornellGeometry struct {
	prims []primitive
}

func (g cornellGeometry) Query(r core.Ray) core.IntersectionInfo {
	best := core.IntersectionInfo{Distance: math.Inf(1)}
	for _, p := range g.prims {
		if dist, ok := p.tri.intersect(r); ok && dist < best.Distance {
			pos := r.At(dist)
			n := p.tri.Normal()
			front := r.Direction.Dot(n) < 0
			if !front {
				n = n.Negate()
			}
			best = core.IntersectionInfo{
				Intersected: true,
				Distance:    dist,
				Position:    pos,
				Normal:      n,
				FrontFace:   front,
				TriangleID:  p.tri.id,
			}
		}
	}
	return best
}

func (g cornellGeometry) QueryHitTriangleID(r core.Ray) int {
	hit := g.Query(r)
	if !hit.Intersected {
		return -1
	}
	return hit.TriangleID
}

// pinholeCamera is a fixed perspective camera looking down -Z, grounded
// on the teacher's viewport-corner camera model.
type pinholeCamera struct {
	origin                                core.Vec3
	lowerLeftCorner, horizontal, vertical core.Vec3
}

func newPinholeCamera(origin, lookAt core.Vec3, vfov, aspect float64) pinholeCamera {
	theta := vfov * math.Pi / 180
	halfHeight := math.Tan(theta / 2)
	halfWidth := aspect * halfHeight

	forward := lookAt.Sub(origin).Normalize()
	up := core.NewVec3(0, 1, 0)
	right := forward.Cross(up).Normalize()
	trueUp := right.Cross(forward)

	horizontal := right.Multiply(2 * halfWidth)
	vertical := trueUp.Multiply(2 * halfHeight)
	lowerLeft := origin.Add(forward).Sub(horizontal.Multiply(0.5)).Sub(vertical.Multiply(0.5))

	return pinholeCamera{origin: origin, lowerLeftCorner: lowerLeft, horizontal: horizontal, vertical: vertical}
}

func (c pinholeCamera) Sample(offset, size core.Vec2) core.Ray {
	s := offset.X
	t := 1 - offset.Y
	dir := c.lowerLeftCorner.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t)).Sub(c.origin)
	return core.NewRay(c.origin, dir.Normalize())
}

// cornellScene is a classic Cornell box: five diffuse walls and one
// emissive quad set into the ceiling.
type cornellScene struct {
	geom      cornellGeometry
	camera    pinholeCamera
	emissive  []core.EmissiveTriangle
	primByID  map[int]primitive
	totalArea float64
}

func newCornellScene() *cornellScene {
	diffuse := func(albedo core.Vec3) func(core.Vec3) core.BSDF {
		return func(n core.Vec3) core.BSDF { return lambertBSDF{albedo: albedo, normal: n} }
	}
	red := diffuse(core.NewVec3(0.63, 0.065, 0.05))
	green := diffuse(core.NewVec3(0.14, 0.45, 0.091))
	white := diffuse(core.NewVec3(0.725, 0.71, 0.68))
	light := func(n core.Vec3) core.BSDF { return emitBSDF{radiance: core.NewVec3(15, 15, 15), normal: n} }

	quad := func(a, b, c, d core.Vec3, bsdfFor func(core.Vec3) core.BSDF, id *int, prims *[]primitive) {
		t1 := newTriangle(*id, a, b, c)
		*prims = append(*prims, primitive{tri: t1, bsdf: bsdfFor(t1.normal)})
		*id++
		t2 := newTriangle(*id, a, c, d)
		*prims = append(*prims, primitive{tri: t2, bsdf: bsdfFor(t2.normal)})
		*id++
	}

	var prims []primitive
	id := 0

	// Floor, ceiling, back wall, left wall (red), right wall (green).
	quad(core.NewVec3(-1, -1, -1), core.NewVec3(1, -1, -1), core.NewVec3(1, -1, 1), core.NewVec3(-1, -1, 1), white, &id, &prims)
	quad(core.NewVec3(-1, 1, 1), core.NewVec3(1, 1, 1), core.NewVec3(1, 1, -1), core.NewVec3(-1, 1, -1), white, &id, &prims)
	quad(core.NewVec3(-1, -1, -1), core.NewVec3(-1, 1, -1), core.NewVec3(1, 1, -1), core.NewVec3(1, -1, -1), white, &id, &prims)
	quad(core.NewVec3(-1, -1, 1), core.NewVec3(-1, -1, -1), core.NewVec3(-1, 1, -1), core.NewVec3(-1, 1, 1), red, &id, &prims)
	quad(core.NewVec3(1, -1, -1), core.NewVec3(1, -1, 1), core.NewVec3(1, 1, 1), core.NewVec3(1, 1, -1), green, &id, &prims)

	// Small emissive quad hanging just below the ceiling.
	quad(core.NewVec3(-0.25, 0.99, -0.25), core.NewVec3(0.25, 0.99, -0.25), core.NewVec3(0.25, 0.99, 0.25), core.NewVec3(-0.25, 0.99, 0.25), light, &id, &prims)

	byID := make(map[int]primitive, len(prims))
	var emissive []core.EmissiveTriangle
	total := 0.0
	for _, p := range prims {
		byID[p.tri.id] = p
		if p.bsdf.IsEmissive() {
			emissive = append(emissive, core.EmissiveTriangle{Triangle: p.tri, BSDF: p.bsdf})
			total += p.tri.Area()
		}
	}

	cam := newPinholeCamera(core.NewVec3(0, 0, 3.2), core.NewVec3(0, 0, 0), 40, 1)

	return &cornellScene{
		geom:      cornellGeometry{prims: prims},
		camera:    cam,
		emissive:  emissive,
		primByID:  byID,
		totalArea: total,
	}
}

func (s *cornellScene) Geometry() core.SceneGeometry { return s.geom }
func (s *cornellScene) Camera() core.Camera          { return s.camera }

func (s *cornellScene) TriangleByID(id int) (core.Triangle, core.BSDF, bool) {
	p, ok := s.primByID[id]
	if !ok {
		return nil, nil, false
	}
	return p.tri, p.bsdf, true
}

func (s *cornellScene) EmissiveTriangles() []core.EmissiveTriangle { return s.emissive }

// SampleEmissiveTriangle picks uniformly among emissive triangles, area-
// weighting omitted for simplicity since this demo has exactly one light
// quad's two triangles of equal area.
func (s *cornellScene) SampleEmissiveTriangle(u float64) (core.EmissiveTriangle, float64) {
	idx := int(u * float64(len(s.emissive)))
	if idx >= len(s.emissive) {
		idx = len(s.emissive) - 1
	}
	return s.emissive[idx], 1 / float64(len(s.emissive))
}

func (s *cornellScene) Atmosphere() (core.VolumeMaterial, bool) { return nil, false }

var _ core.Scene = (*cornellScene)(nil)
