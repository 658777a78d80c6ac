package render

import "github.com/jianoll/taichi/pkg/core"

// Image is a row-major width x height buffer of radiance values, the one
// output type every Renderer produces.
type Image struct {
	Width, Height int
	Pixels        []core.Vec3
}

// At returns the pixel at (x, y).
func (img Image) At(x, y int) core.Vec3 {
	return img.Pixels[y*img.Width+x]
}
