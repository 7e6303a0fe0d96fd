package mandel

import (
	"errors"
	"image"
	"math/rand"
	"testing"
)

var center = image.Pt(450, 450)

func TestNewViewportDefaults(t *testing.T) {
	v := NewViewport()
	if v.Zoom() != 1 {
		t.Errorf("Zoom() = %d, want 1", v.Zoom())
	}
	if v.Region() != DefaultRegion {
		t.Errorf("Region() = %v, want %v", v.Region(), DefaultRegion)
	}
	if w, h := v.ReferenceExtent(); w != ReferenceSize || h != ReferenceSize {
		t.Errorf("ReferenceExtent() = %dx%d", w, h)
	}
}

func TestZoomInCenter(t *testing.T) {
	v := NewViewport()
	if err := v.ZoomIn(center); err != nil {
		t.Fatal(err)
	}
	want := Region{Xmin: -1.25, Xmax: 0.25, Ymin: -0.75, Ymax: 0.75}
	if got := v.Region(); got != want {
		t.Errorf("Region() = %v, want %v", got, want)
	}
	if v.Zoom() != 2 {
		t.Errorf("Zoom() = %d, want 2", v.Zoom())
	}

	if err := v.ZoomIn(center); err != nil {
		t.Fatal(err)
	}
	want = Region{Xmin: -0.875, Xmax: -0.125, Ymin: -0.375, Ymax: 0.375}
	if got := v.Region(); got != want {
		t.Errorf("Region() = %v, want %v", got, want)
	}
}

func TestZoomOutIsNotInverse(t *testing.T) {
	v := NewViewport()
	for i := 0; i < 2; i++ {
		if err := v.ZoomIn(center); err != nil {
			t.Fatal(err)
		}
	}

	if err := v.ZoomOut(center); err != nil {
		t.Fatal(err)
	}
	// One zoom in from the default lands on [-1.25, 0.25]; zooming out does not go back there.
	want := Region{Xmin: -2.75, Xmax: -1.25, Ymin: -0.75, Ymax: 0.75}
	if got := v.Region(); got != want {
		t.Errorf("Region() = %v, want %v", got, want)
	}
	if v.Zoom() != 2 {
		t.Errorf("Zoom() = %d, want 2", v.Zoom())
	}
}

func TestZoomOutFloor(t *testing.T) {
	v := NewViewport()
	for i := 0; i < 5; i++ {
		if err := v.ZoomOut(image.Pt(10, 890)); err != nil {
			t.Fatal(err)
		}
		if v.Zoom() != 1 || v.Region() != DefaultRegion {
			t.Fatalf("after %d zoom outs: zoom %d region %v", i+1, v.Zoom(), v.Region())
		}
	}

	if err := v.ZoomIn(image.Pt(100, 200)); err != nil {
		t.Fatal(err)
	}
	// Level 2 -> 1 resets regardless of the pixel, even one outside the reference extent.
	if err := v.ZoomOut(image.Pt(-5, 5000)); err != nil {
		t.Fatal(err)
	}
	if v.Zoom() != 1 || v.Region() != DefaultRegion {
		t.Errorf("zoom %d region %v, want reset", v.Zoom(), v.Region())
	}
}

func TestZoomPixelOutOfRange(t *testing.T) {
	v := NewViewport()
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {900, 0}, {0, 900}} {
		if err := v.ZoomIn(p); !errors.Is(err, ErrPixelOutOfRange) {
			t.Errorf("ZoomIn(%v) = %v, want ErrPixelOutOfRange", p, err)
		}
	}
	if v.Zoom() != 1 || v.Region() != DefaultRegion {
		t.Errorf("rejected gestures changed state: zoom %d region %v", v.Zoom(), v.Region())
	}
}

func TestReferenceExtentDecoupled(t *testing.T) {
	// The same relative position zooms to the same place whatever the reference size.
	small := NewViewport(WithReferenceExtent(100, 100))
	large := NewViewport()
	if err := small.ZoomIn(image.Pt(50, 50)); err != nil {
		t.Fatal(err)
	}
	if err := large.ZoomIn(center); err != nil {
		t.Fatal(err)
	}
	if small.Region() != large.Region() {
		t.Errorf("small %v != large %v", small.Region(), large.Region())
	}
	if err := small.ZoomIn(image.Pt(450, 450)); !errors.Is(err, ErrPixelOutOfRange) {
		t.Errorf("ZoomIn outside 100x100 = %v, want ErrPixelOutOfRange", err)
	}
}

func TestIterationBudget(t *testing.T) {
	tests := []struct {
		zoom int
		want int
	}{
		{1, 25},
		{2, 50},
		{3, 65},
		{4, 75},
		{8, 100},
		{16, 125},
	}
	for _, tt := range tests {
		if got := iterationBudget(tt.zoom); got != tt.want {
			t.Errorf("iterationBudget(%d) = %d, want %d", tt.zoom, got, tt.want)
		}
	}

	v := NewViewport(WithMaxZoom(100))
	prev := v.IterationBudget()
	if prev != 25 {
		t.Fatalf("IterationBudget() at level 1 = %d, want 25", prev)
	}
	for v.ZoomIn(image.Pt(300, 400)) == nil {
		b := v.IterationBudget()
		if b < prev {
			t.Fatalf("budget decreased from %d to %d at zoom %d", prev, b, v.Zoom())
		}
		prev = b
	}
}

func TestMaxZoom(t *testing.T) {
	v := NewViewport(WithMaxZoom(3))
	for i := 0; i < 2; i++ {
		if err := v.ZoomIn(center); err != nil {
			t.Fatal(err)
		}
	}
	before := v.Region()
	if err := v.ZoomIn(center); !errors.Is(err, ErrZoomLimit) {
		t.Fatalf("ZoomIn past max = %v, want ErrZoomLimit", err)
	}
	if v.Zoom() != 3 || v.Region() != before {
		t.Errorf("refused zoom changed state: zoom %d region %v", v.Zoom(), v.Region())
	}
}

func TestZoomPrecisionLimit(t *testing.T) {
	v := NewViewport(WithMaxZoom(1000))
	var err error
	for i := 0; i < 1000 && err == nil; i++ {
		err = v.ZoomIn(image.Pt(321, 654))
	}
	if !errors.Is(err, ErrZoomLimit) {
		t.Fatalf("deep zoom ended with %v, want ErrZoomLimit", err)
	}
	if err := v.Region().Validate(); err != nil {
		t.Errorf("region at precision limit: %v", err)
	}
	if v.Zoom() > 60 {
		t.Errorf("zoomed to level %d before precision ran out", v.Zoom())
	}
}

func TestZoomSequenceKeepsRegionOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	v := NewViewport()

	for i := 0; i < 5000; i++ {
		p := image.Pt(rng.Intn(ReferenceSize), rng.Intn(ReferenceSize))
		delta := 1.0
		if rng.Intn(5) < 2 {
			delta = -1
		}
		before := v.Zoom()
		err := v.Scroll(p, delta)
		switch {
		case delta < 0 && err != nil:
			t.Fatalf("step %d: ZoomOut(%v) = %v", i, p, err)
		case delta < 0 && v.Zoom() != max(before-1, 1):
			t.Fatalf("step %d: ZoomOut(%v) went from level %d to %d", i, p, before, v.Zoom())
		case err != nil && !errors.Is(err, ErrZoomLimit):
			t.Fatalf("step %d: ZoomIn(%v) = %v", i, p, err)
		}
		if err := v.Region().Validate(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if v.Zoom() < 1 {
			t.Fatalf("step %d: zoom %d", i, v.Zoom())
		}
	}
}

func TestZoomOutFromDeepestLevel(t *testing.T) {
	tests := []struct {
		name string
		p    image.Point
	}{
		{"centre", center},
		{"bottom right corner", image.Pt(899, 899)},
		{"top left corner", image.Pt(0, 0)},
		{"off centre", image.Pt(300, 400)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport()
			for v.ZoomIn(tt.p) == nil {
			}
			if v.Zoom() < 30 {
				t.Fatalf("zoom in stopped at level %d", v.Zoom())
			}

			for v.Zoom() > 1 {
				before := v.Zoom()
				if err := v.ZoomOut(tt.p); err != nil {
					t.Fatalf("ZoomOut at level %d = %v", before, err)
				}
				if v.Zoom() != before-1 {
					t.Fatalf("ZoomOut went from level %d to %d", before, v.Zoom())
				}
				if err := v.Region().Validate(); err != nil {
					t.Fatalf("level %d: %v", v.Zoom(), err)
				}
			}
			if v.Region() != DefaultRegion {
				t.Errorf("region at level 1 = %v, want %v", v.Region(), DefaultRegion)
			}
		})
	}
}

func TestGotoAndReset(t *testing.T) {
	v := NewViewport()
	if err := v.ZoomIn(center); err != nil {
		t.Fatal(err)
	}
	if err := v.Goto(SeahorseValley); err != nil {
		t.Fatal(err)
	}
	f := v.Snapshot()
	if f.Region != SeahorseValley || f.Zoom != 1 || f.MaxIter != 25 {
		t.Errorf("Snapshot() = %+v", f)
	}

	if err := v.Goto(Region{}); !errors.Is(err, ErrInvalidRegion) {
		t.Errorf("Goto(empty) = %v, want ErrInvalidRegion", err)
	}

	v.Reset()
	if v.Region() != DefaultRegion || v.Zoom() != 1 {
		t.Errorf("after Reset: zoom %d region %v", v.Zoom(), v.Region())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	v := NewViewport()
	f := v.Snapshot()
	if err := v.ZoomIn(center); err != nil {
		t.Fatal(err)
	}
	if f.Region != DefaultRegion || f.Zoom != 1 {
		t.Errorf("snapshot changed after zoom: %+v", f)
	}
}
