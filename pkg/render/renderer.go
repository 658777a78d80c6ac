// Package render composes the path tracer, direct-lighting estimator, and
// PSSMLT chain into complete renderers, driven stage by stage behind a
// small shared lifecycle interface.
package render

import "context"

// Renderer is the capability shared by every concrete renderer in this
// package: run one more stage of work, then report the accumulated image
// so far. A stage is the unit of cancellation and progress reporting; a
// caller drives RenderStage in a loop until it has the quality or time
// budget it wants.
type Renderer interface {
	RenderStage(ctx context.Context) error
	GetOutput() Image
}
