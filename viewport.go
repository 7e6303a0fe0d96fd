package mandel

import (
	"fmt"
	"image"
	"math"
	"sync"
)

const (
	// ZoomFactor is how much one zoom step scales the visible region.
	ZoomFactor = 2

	// BaseIterations is the iteration budget at zoom level 1.
	BaseIterations = 25

	// ReferenceSize is the default side of the square gesture coordinate space.
	ReferenceSize = 900

	// DefaultMaxZoom bounds the zoom depth. Past roughly this level float64
	// cannot tell neighbouring reference pixels apart anywhere in the set.
	DefaultMaxZoom = 46
)

// Frame is an immutable copy of the viewport taken before rendering.
type Frame struct {
	Region  Region
	Zoom    int
	MaxIter int
}

// Viewport owns the visible region and the zoom level and turns zoom
// gestures into region updates. Gesture pixels are interpreted in the
// reference extent, independent of the raster size being rendered.
//
// Viewport is safe for concurrent use.
type Viewport struct {
	m       sync.Mutex
	region  Region
	zoom    int
	refW    int
	refH    int
	maxZoom int
}

type ViewportOption func(*Viewport)

// WithReferenceExtent sets the coordinate space zoom gestures arrive in.
// Non-positive values are ignored.
func WithReferenceExtent(w, h int) ViewportOption {
	return func(v *Viewport) {
		if w > 0 && h > 0 {
			v.refW, v.refH = w, h
		}
	}
}

// WithMaxZoom caps the zoom level. Values below 1 are ignored.
func WithMaxZoom(n int) ViewportOption {
	return func(v *Viewport) {
		if n >= 1 {
			v.maxZoom = n
		}
	}
}

func NewViewport(opts ...ViewportOption) *Viewport {
	v := &Viewport{
		region:  DefaultRegion,
		zoom:    1,
		refW:    ReferenceSize,
		refH:    ReferenceSize,
		maxZoom: DefaultMaxZoom,
	}
	for _, o := range opts {
		o(v)
	}
	return v
}

// ReferenceExtent returns the gesture coordinate space.
func (v *Viewport) ReferenceExtent() (w, h int) {
	return v.refW, v.refH
}

func (v *Viewport) Region() Region {
	v.m.Lock()
	defer v.m.Unlock()
	return v.region
}

func (v *Viewport) Zoom() int {
	v.m.Lock()
	defer v.m.Unlock()
	return v.zoom
}

// IterationBudget returns round(BaseIterations * (log2(zoom) + 1)).
func (v *Viewport) IterationBudget() int {
	v.m.Lock()
	defer v.m.Unlock()
	return iterationBudget(v.zoom)
}

func iterationBudget(zoom int) int {
	return int(math.Round(BaseIterations * (math.Log2(float64(zoom)) + 1)))
}

// Snapshot copies the state a render needs.
func (v *Viewport) Snapshot() Frame {
	v.m.Lock()
	defer v.m.Unlock()
	return Frame{Region: v.region, Zoom: v.zoom, MaxIter: iterationBudget(v.zoom)}
}

// Reset restores the default region and zoom level 1.
func (v *Viewport) Reset() {
	v.m.Lock()
	defer v.m.Unlock()
	v.reset()
}

func (v *Viewport) reset() {
	v.region = DefaultRegion
	v.zoom = 1
}

// Goto shows r at zoom level 1.
func (v *Viewport) Goto(r Region) error {
	if err := r.Validate(); err != nil {
		return err
	}
	v.m.Lock()
	defer v.m.Unlock()
	v.region = r
	v.zoom = 1
	Logger().Debug("viewport goto", "region", r)
	return nil
}

// Scroll dispatches a wheel gesture: positive delta zooms in, anything else zooms out.
func (v *Viewport) Scroll(p image.Point, delta float64) error {
	if delta > 0 {
		return v.ZoomIn(p)
	}
	return v.ZoomOut(p)
}

// ZoomIn halves the region towards the plane point under p.
// Every bound b becomes (c + b) / ZoomFactor with c's matching component,
// so the anchor drifts towards the region centre rather than staying
// under the cursor.
func (v *Viewport) ZoomIn(p image.Point) error {
	v.m.Lock()
	defer v.m.Unlock()

	if err := v.checkPixel(p); err != nil {
		return err
	}
	if v.zoom >= v.maxZoom {
		Logger().Warn("zoom in refused", "zoom", v.zoom, "max", v.maxZoom)
		return fmt.Errorf("%w: level %d", ErrZoomLimit, v.zoom)
	}

	c := ToComplex(p, v.region, v.refW, v.refH)
	next := Region{
		Xmin: (real(c) + v.region.Xmin) / ZoomFactor,
		Xmax: (real(c) + v.region.Xmax) / ZoomFactor,
		Ymin: (imag(c) + v.region.Ymin) / ZoomFactor,
		Ymax: (imag(c) + v.region.Ymax) / ZoomFactor,
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrZoomLimit, err)
	}
	if !resolvable(next.Xmin, next.Xmax, v.refW) || !resolvable(next.Ymin, next.Ymax, v.refH) {
		Logger().Warn("zoom in refused, precision exhausted", "zoom", v.zoom, "region", next)
		return fmt.Errorf("%w: float64 precision exhausted at level %d", ErrZoomLimit, v.zoom)
	}

	v.region = next
	v.zoom++
	Logger().Debug("zoom in", "pixel", p, "anchor", c, "zoom", v.zoom, "region", next)
	return nil
}

// ZoomOut is the counterpart of ZoomIn: bounds become (c + b) * ZoomFactor.
// It does not undo ZoomIn exactly. Dropping to level 1 resets the region
// and ignores p. A zoom out within the reference extent always lowers the
// level by one.
func (v *Viewport) ZoomOut(p image.Point) error {
	v.m.Lock()
	defer v.m.Unlock()

	if v.zoom-1 <= 1 {
		v.reset()
		Logger().Debug("zoom out to floor", "pixel", p)
		return nil
	}
	if err := v.checkPixel(p); err != nil {
		return err
	}

	c := ToComplex(p, v.region, v.refW, v.refH)
	next := Region{
		Xmin: (real(c) + v.region.Xmin) * ZoomFactor,
		Xmax: (real(c) + v.region.Xmax) * ZoomFactor,
		Ymin: (imag(c) + v.region.Ymin) * ZoomFactor,
		Ymax: (imag(c) + v.region.Ymax) * ZoomFactor,
	}
	v.zoom--
	if err := next.Validate(); err != nil {
		// Deep zoom-outs can outgrow float64. The level still drops and the
		// region stays put until the floor reset.
		Logger().Warn("zoom out kept region", "zoom", v.zoom, "err", err)
		return nil
	}

	v.region = next
	Logger().Debug("zoom out", "pixel", p, "anchor", c, "zoom", v.zoom, "region", next)
	return nil
}

func (v *Viewport) checkPixel(p image.Point) error {
	if !p.In(image.Rect(0, 0, v.refW, v.refH)) {
		return fmt.Errorf("%w: %v not in %dx%d", ErrPixelOutOfRange, p, v.refW, v.refH)
	}
	return nil
}

// resolvable reports whether n pixels across [lo, hi] are still at least
// one float64 step apart.
func resolvable(lo, hi float64, n int) bool {
	a := math.Max(math.Abs(lo), math.Abs(hi))
	ulp := math.Nextafter(a, math.Inf(1)) - a
	return (hi-lo)/float64(n) > ulp
}
