// Package accum accumulates per-pixel radiance contributions from many
// concurrently traced paths into a final averaged image, independent of
// worker count and scheduling order.
package accum

import (
	"sync"
	"sync/atomic"

	"github.com/jianoll/taichi/pkg/core"
)

// Accumulator collects per-pixel sums. In per-pixel mode (the default,
// used by the plain path tracer) each pixel tracks its own sample count;
// in shared mode (used by the MCMC integrator) every pixel is divided by
// one externally-driven sample count at read time.
type Accumulator struct {
	width, height int
	shared        bool

	sum         []core.Vec3
	count       []int64
	sharedCount int64

	rowLocks []sync.Mutex
}

// New creates a per-pixel-count Accumulator of the given resolution.
func New(width, height int) *Accumulator {
	return &Accumulator{
		width:    width,
		height:   height,
		sum:      make([]core.Vec3, width*height),
		count:    make([]int64, width*height),
		rowLocks: make([]sync.Mutex, height),
	}
}

// NewShared creates an Accumulator whose pixels are all divided by one
// externally-incremented sample count, matching the MCMC integrator's
// single running sample_count.
func NewShared(width, height int) *Accumulator {
	a := New(width, height)
	a.shared = true
	return a
}

func (a *Accumulator) index(ix, iy int) int {
	return iy*a.width + ix
}

// Accumulate adds c to pixel (ix, iy) and, in per-pixel mode, counts the
// sample; out-of-bounds coordinates are silently dropped, matching the
// half-open/clamped pixel gating the caller already applied. A non-finite
// c is dropped too: sum[idx] otherwise stays NaN forever once poisoned
// (NaN+x is NaN), zeroing that pixel for the rest of the render instead of
// just the offending sample.
func (a *Accumulator) Accumulate(ix, iy int, c core.Vec3) {
	if ix < 0 || ix >= a.width || iy < 0 || iy >= a.height {
		return
	}
	if !c.IsFinite() {
		return
	}
	a.rowLocks[iy].Lock()
	defer a.rowLocks[iy].Unlock()
	idx := a.index(ix, iy)
	a.sum[idx] = a.sum[idx].Add(c)
	if !a.shared {
		a.count[idx]++
	}
}

// IncrementShared advances the shared sample count by one; callers in
// shared mode call this once per MCMC iteration, accepted or not.
func (a *Accumulator) IncrementShared() {
	atomic.AddInt64(&a.sharedCount, 1)
}

// GetAveraged divides each pixel's sum by its sample count, returning a
// row-major W*H slice of radiance values. A pixel with zero samples, or
// whose average is NaN or infinite, reports as the zero vector.
func (a *Accumulator) GetAveraged() []core.Vec3 {
	out := make([]core.Vec3, len(a.sum))
	sharedCount := float64(atomic.LoadInt64(&a.sharedCount))
	for i, s := range a.sum {
		var divisor float64
		if a.shared {
			divisor = sharedCount
		} else {
			divisor = float64(a.count[i])
		}
		if divisor == 0 {
			continue
		}
		avg := s.Multiply(1 / divisor)
		if avg.IsFinite() {
			out[i] = avg
		}
	}
	return out
}

// Width reports the accumulator's pixel width.
func (a *Accumulator) Width() int { return a.width }

// Height reports the accumulator's pixel height.
func (a *Accumulator) Height() int { return a.height }

// Tile is a private per-worker scratch accumulator. A worker accumulates
// into its own Tile so that concurrent workers never contend on the same
// memory; the parent Accumulator folds every Tile in at a stage boundary
// via Merge, in a fixed worker order, so the result is independent of
// goroutine scheduling.
type Tile struct {
	width, height int
	sum           []core.Vec3
	count         []int64
}

// Shard creates a fresh Tile sized to this Accumulator's resolution.
func (a *Accumulator) Shard() *Tile {
	return &Tile{
		width:  a.width,
		height: a.height,
		sum:    make([]core.Vec3, a.width*a.height),
		count:  make([]int64, a.width*a.height),
	}
}

// Accumulate adds c to pixel (ix, iy) within this tile. Tiles are
// single-writer by construction, so no locking is needed here. A
// non-finite c is dropped for the same reason Accumulator.Accumulate
// drops one.
func (t *Tile) Accumulate(ix, iy int, c core.Vec3) {
	if ix < 0 || ix >= t.width || iy < 0 || iy >= t.height {
		return
	}
	if !c.IsFinite() {
		return
	}
	idx := iy*t.width + ix
	t.sum[idx] = t.sum[idx].Add(c)
	t.count[idx]++
}

// Merge folds a worker's Tile into the parent Accumulator. Callers must
// merge tiles in a fixed order (e.g. worker index) across runs for the
// reduction to be bit-for-bit reproducible.
func (a *Accumulator) Merge(t *Tile) {
	for i := range a.sum {
		a.sum[i] = a.sum[i].Add(t.sum[i])
		a.count[i] += t.count[i]
	}
}
