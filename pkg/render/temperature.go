package render

import (
	"context"

	"github.com/jianoll/taichi/pkg/core"
)

// TemperatureTriangle is implemented by triangles that carry a scalar
// "temperature" value for diagnostic visualization. It is not part of the
// light-transport core's narrow Triangle interface; a triangle that
// doesn't implement it simply contributes zero.
type TemperatureTriangle interface {
	Temperature() float64
}

// TemperatureRenderer is a standalone diagnostic visualizer: it renders
// one sample per pixel of the hit triangle's temperature, with no
// lighting, sampling, or path tracing involved. It satisfies Renderer so
// it can be driven the same way as the real integrators, for sanity
// checking a SceneGeometry/triangle wiring independently of them.
type TemperatureRenderer struct {
	scene         core.Scene
	width, height int
	done          bool
	pixels        []core.Vec3
}

// NewTemperatureRenderer builds a TemperatureRenderer for the given scene
// and resolution.
func NewTemperatureRenderer(scene core.Scene, width, height int) *TemperatureRenderer {
	return &TemperatureRenderer{scene: scene, width: width, height: height}
}

// RenderStage renders the whole image in one pass; a second call is a
// no-op, since there is nothing progressive about a single hit-test per
// pixel.
func (r *TemperatureRenderer) RenderStage(ctx context.Context) error {
	if r.done {
		return nil
	}
	r.pixels = make([]core.Vec3, r.width*r.height)
	for i := 0; i < r.width; i++ {
		for j := 0; j < r.height; j++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			offset := core.NewVec2(float64(i)/float64(r.width), float64(j)/float64(r.height))
			size := core.NewVec2(1/float64(r.width), 1/float64(r.height))
			ray := r.scene.Camera().Sample(offset, size)
			temp := r.trace(ray)
			r.pixels[j*r.width+i] = core.NewVec3(temp, temp, temp)
		}
	}
	r.done = true
	return nil
}

func (r *TemperatureRenderer) trace(ray core.Ray) float64 {
	id := r.scene.Geometry().QueryHitTriangleID(ray)
	if id == -1 {
		return 0
	}
	tri, _, ok := r.scene.TriangleByID(id)
	if !ok {
		return 0
	}
	tt, ok := tri.(TemperatureTriangle)
	if !ok {
		return 0
	}
	return tt.Temperature()
}

// GetOutput returns the single rendered frame, or an all-zero image if
// RenderStage has not run yet.
func (r *TemperatureRenderer) GetOutput() Image {
	pixels := r.pixels
	if pixels == nil {
		pixels = make([]core.Vec3, r.width*r.height)
	}
	return Image{Width: r.width, Height: r.height, Pixels: pixels}
}

var _ Renderer = (*TemperatureRenderer)(nil)
