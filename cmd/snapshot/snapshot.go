package main

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/render"
)

// gesture is one scripted wheel event in reference extent coordinates.
type gesture struct {
	p     image.Point
	delta float64
}

// parseGesture reads "x,y" (zoom in) or "x,y,in" / "x,y,out".
func parseGesture(s string) (gesture, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return gesture{}, fmt.Errorf("zoom %q: want x,y[,in|out]", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return gesture{}, fmt.Errorf("zoom %q: x: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return gesture{}, fmt.Errorf("zoom %q: y: %w", s, err)
	}

	g := gesture{p: image.Pt(x, y), delta: 1}
	if len(parts) == 3 {
		switch strings.TrimSpace(parts[2]) {
		case "in", "+":
		case "out", "-":
			g.delta = -1
		default:
			return gesture{}, fmt.Errorf("zoom %q: direction must be in or out", s)
		}
	}
	return g, nil
}

// replay applies the gestures to vp in order.
func replay(vp *mandel.Viewport, gestures []string) error {
	for _, s := range gestures {
		g, err := parseGesture(s)
		if err != nil {
			return err
		}
		if err := vp.Scroll(g.p, g.delta); err != nil {
			return fmt.Errorf("zoom %q: %w", s, err)
		}
	}
	return nil
}

// snapshot renders the viewport at w x h. With supersample > 1 the raster
// is rendered that many times larger and scaled down.
func snapshot(ctx context.Context, vp *mandel.Viewport, rnd render.Renderer, w, h, supersample int) (*image.RGBA, mandel.Frame, error) {
	frame := vp.Snapshot()
	if supersample < 1 {
		return nil, frame, fmt.Errorf("supersample must be at least 1, got %d", supersample)
	}
	if err := mandel.CheckExtent(w, h); err != nil {
		return nil, frame, err
	}

	img, err := rnd.Render(ctx, frame.Region, w*supersample, h*supersample, frame.MaxIter)
	if err != nil {
		return nil, frame, err
	}
	if supersample == 1 {
		return img, frame, nil
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst, frame, nil
}
