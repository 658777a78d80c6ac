package core

// Sequence is a restartable stream of uniform [0,1) samples. The same
// (sampler, path-index) pair must reproduce an identical stream across
// runs; concrete implementations live in package sequence. The path
// tracer and direct-lighting estimator must consume a Sequence in a fixed
// call order so PSSMLT mutations perturb the same logical dimension
// across proposals.
type Sequence interface {
	Next1D() float64
	Next2D() Vec2
}

// SurfaceScatteringEvent classifies a BSDF sample.
type SurfaceScatteringEvent int

const (
	// EventDiffuse is a non-delta scattering event (has a well-defined pdf).
	EventDiffuse SurfaceScatteringEvent = iota
	// EventSpecularReflection is a perfect-mirror event (delta pdf).
	EventSpecularReflection
	// EventSpecularTransmission is a perfect-refraction event (delta pdf).
	EventSpecularTransmission
)

// IsDelta reports whether an event was drawn from a Dirac-delta
// distribution, i.e. has no density w.r.t. solid angle.
func (e SurfaceScatteringEvent) IsDelta() bool {
	return e == EventSpecularReflection || e == EventSpecularTransmission
}

// VolumeEvent is the outcome of sampling a medium's interaction type at
// the end of a free-flight distance.
type VolumeEvent int

const (
	// VolumeScattering means the ray scatters off a particle in the medium.
	VolumeScattering VolumeEvent = iota
	// VolumeAbsorption means the ray is absorbed and the path terminates.
	VolumeAbsorption
	// VolumeNull means the free-flight distance did not land on a real
	// interaction (null-collision); callers that do not model null
	// collisions treat this the same as VolumeAbsorption.
	VolumeNull
)

// BSDF evaluates and samples scattering at a single shading point. An
// implementation is instantiated fresh per intersection by a collaborator
// outside this module.
type BSDF interface {
	// Evaluate returns the BSDF value for a fixed pair of directions.
	Evaluate(omegaI, omegaO Vec3) Vec3
	// Sample draws an outgoing direction and returns its BSDF value, pdf
	// w.r.t. solid angle, and scattering event classification.
	Sample(omegaI Vec3, u1, u2 float64) (omegaO Vec3, f Vec3, pdf float64, event SurfaceScatteringEvent)
	// ProbabilityDensity returns the pdf w.r.t. solid angle for a fixed
	// pair of directions (used for MIS when reconstructing a light-sampled
	// direction's BSDF pdf).
	ProbabilityDensity(omegaI, omegaO Vec3) float64
	// IsEmissive reports whether this surface emits light.
	IsEmissive() bool
	// IsDelta reports whether every event this BSDF can produce is a delta
	// event (no non-specular lobe at all).
	IsDelta() bool
}

// Emitter is implemented by BSDFs that emit radiance. Emit is evaluated
// with the surface normal and the direction pointing away from the
// surface toward the viewer.
type Emitter interface {
	Emit(normal, outgoing Vec3) Vec3
}

// Triangle is a single emissive or occluding primitive.
type Triangle interface {
	ID() int
	Area() float64
	Normal() Vec3
	// SamplePoint draws a uniformly distributed point on the triangle's
	// surface given two independent uniforms.
	SamplePoint(u, v float64) Vec3
	// RelativeLocationToPlane returns the signed distance from p to the
	// triangle's support plane; positive means p is on the same side as
	// the triangle's outward normal.
	RelativeLocationToPlane(p Vec3) float64
}

// VolumeMaterial is a participating medium.
type VolumeMaterial interface {
	SampleFreeDistance(r Sequence) float64
	SampleEvent(r Sequence) VolumeEvent
	SamplePhase(r Sequence) Vec3
	GetAttenuation(distance float64) Vec3
}

// Camera generates primary rays for a jittered pixel offset.
type Camera interface {
	// Sample returns a ray for a pixel described by its normalized
	// lower-left offset and the pixel's normalized size, e.g. a pixel at
	// integer coordinates (i,j) in a W x H image has offset
	// (i/W, j/H) and size (1/W, 1/H); the jitter within the pixel is
	// folded into offset by the caller using the same Sequence that drives
	// the rest of the path, so that a (sampler, path-index) pair alone
	// determines the primary ray.
	Sample(offset, size Vec2) Ray
}

// SceneGeometry is the ray/triangle intersection collaborator.
type SceneGeometry interface {
	Query(ray Ray) IntersectionInfo
	QueryHitTriangleID(ray Ray) int
}

// Scene bundles the read-only collaborators the path tracer and
// direct-lighting estimator need.
type Scene interface {
	Geometry() SceneGeometry
	Camera() Camera
	// TriangleByID looks up a triangle by the id reported in an
	// IntersectionInfo; ok is false if no such triangle exists (e.g. id
	// is -1 for a miss).
	TriangleByID(id int) (tri Triangle, bsdf BSDF, ok bool)
	// EmissiveTriangles iterates every light-emitting triangle in the
	// scene, paired with the BSDF to evaluate its emission.
	EmissiveTriangles() []EmissiveTriangle
	// SampleEmissiveTriangle draws one emissive triangle with probability
	// proportional to its emissive power and returns it with that
	// probability.
	SampleEmissiveTriangle(u float64) (tri EmissiveTriangle, pdf float64)
	// Atmosphere returns the medium that fills the space the scene is
	// embedded in, if any.
	Atmosphere() (VolumeMaterial, bool)
}

// EmissiveTriangle pairs a light-emitting triangle with its BSDF.
type EmissiveTriangle struct {
	Triangle Triangle
	BSDF     BSDF
}
