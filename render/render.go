package render

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"
	"time"

	mandel "github.com/marben/mandelzoom"
)

const DefaultTileSize = 64

// Renderer fills rasters with escape-time colours. The zero value renders
// with the Classic palette on runtime.NumCPU() workers.
type Renderer struct {
	Palette  Palette
	Workers  int
	TileSize int

	// OnTileRender, if set, is called before each tile is rendered.
	// It may be called from several goroutines at once.
	OnTileRender func(tile image.Rectangle)
}

// Render renders a w x h raster of r with a default Renderer.
func Render(ctx context.Context, r mandel.Region, w, h, maxIter int) (*image.RGBA, error) {
	return Renderer{}.Render(ctx, r, w, h, maxIter)
}

// Render allocates a w x h raster and renders r into it.
func (rnd Renderer) Render(ctx context.Context, r mandel.Region, w, h, maxIter int) (*image.RGBA, error) {
	if err := mandel.CheckExtent(w, h); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := rnd.RenderInto(ctx, img, r, maxIter); err != nil {
		return nil, err
	}
	return img, nil
}

// RenderInto overwrites dst with a render of r. Tiles are spread over the
// worker pool; each pixel is written by exactly one worker. When ctx is
// cancelled the remaining tiles are skipped and ctx.Err() is returned,
// leaving dst partially updated.
func (rnd Renderer) RenderInto(ctx context.Context, dst *image.RGBA, r mandel.Region, maxIter int) error {
	bounds := dst.Bounds()
	if err := checkInputs(r, bounds.Dx(), bounds.Dy(), maxIter); err != nil {
		return err
	}

	start := time.Now()
	ts := newTileScheduler(bounds, rnd.tileSize(), rnd.tileSize())

	var wg sync.WaitGroup
	workers := rnd.workers()
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				tile, found := ts.popTile()
				if !found {
					return
				}
				rnd.fill(dst, bounds, tile, r, maxIter)
				done := ts.tileFinished(tile)
				mandel.Logger().Debug("tile rendered", "tile", tile, "progress", done)
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		mandel.Logger().Debug("render abandoned", "region", r, "err", err)
		return err
	}
	mandel.Logger().Debug("render finished",
		"region", r,
		"size", bounds.Size(),
		"max_iter", maxIter,
		"workers", workers,
		"elapsed", time.Since(start))
	return nil
}

// RenderTile renders one tile of an imgW x imgH raster of r.
// The returned image has global coordinates (tile.Min .. tile.Max) within
// an imgW x imgH raster.
func (rnd Renderer) RenderTile(r mandel.Region, tile image.Rectangle, imgW, imgH, maxIter int) (*image.RGBA, error) {
	if err := checkInputs(r, imgW, imgH, maxIter); err != nil {
		return nil, err
	}
	full := image.Rect(0, 0, imgW, imgH)
	if !tile.In(full) || tile.Empty() {
		return nil, fmt.Errorf("%w: tile %v outside %v", mandel.ErrInvalidExtent, tile, full)
	}

	img := image.NewRGBA(tile)
	rnd.fill(img, full, tile, r, maxIter)
	return img, nil
}

// fill renders the pixels of tile into dst. raster is the full image the
// tile belongs to and defines the pixel -> plane mapping.
func (rnd Renderer) fill(dst *image.RGBA, raster, tile image.Rectangle, r mandel.Region, maxIter int) {
	if rnd.OnTileRender != nil {
		rnd.OnTileRender(tile)
	}
	palette := rnd.palette()
	w, h := raster.Dx(), raster.Dy()

	for py := tile.Min.Y; py < tile.Max.Y; py++ {
		for px := tile.Min.X; px < tile.Max.X; px++ {
			c := mandel.ToComplex(image.Pt(px, py).Sub(raster.Min), r, w, h)
			dst.SetRGBA(px, py, palette(EscapeTime(c, maxIter), maxIter))
		}
	}
}

func checkInputs(r mandel.Region, w, h, maxIter int) error {
	if err := mandel.CheckExtent(w, h); err != nil {
		return err
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if maxIter < 1 {
		return fmt.Errorf("%w: %d", mandel.ErrInvalidIterations, maxIter)
	}
	return nil
}

func (rnd Renderer) palette() Palette {
	if rnd.Palette == nil {
		return Classic
	}
	return rnd.Palette
}

func (rnd Renderer) workers() int {
	if rnd.Workers > 0 {
		return rnd.Workers
	}
	return runtime.NumCPU()
}

func (rnd Renderer) tileSize() int {
	if rnd.TileSize > 0 {
		return rnd.TileSize
	}
	return DefaultTileSize
}
