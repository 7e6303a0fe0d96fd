// Package cli holds the flags shared by the mandelzoom binaries.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/render"
)

// ViewFlags configure the viewport and the renderer.
type ViewFlags struct {
	RefWidth  int
	RefHeight int
	MaxZoom   int
	Region    string
	Palette   string
	Workers   int
	Verbose   bool
}

func DefaultViewFlags() *ViewFlags {
	return &ViewFlags{
		RefWidth:  mandel.ReferenceSize,
		RefHeight: mandel.ReferenceSize,
		MaxZoom:   mandel.DefaultMaxZoom,
		Region:    "default",
		Palette:   "classic",
	}
}

func (f *ViewFlags) Register(fs *pflag.FlagSet) {
	fs.IntVar(&f.RefWidth, "ref-width", f.RefWidth, "width of the coordinate space zoom gestures are given in")
	fs.IntVar(&f.RefHeight, "ref-height", f.RefHeight, "height of the coordinate space zoom gestures are given in")
	fs.IntVar(&f.MaxZoom, "max-zoom", f.MaxZoom, "deepest zoom level allowed")
	fs.StringVar(&f.Region, "region", f.Region, "starting region: "+strings.Join(mandel.RegionNames(), ", "))
	fs.StringVar(&f.Palette, "palette", f.Palette, "colour palette: "+strings.Join(render.PaletteNames(), ", "))
	fs.IntVar(&f.Workers, "workers", f.Workers, "render goroutines (0 means one per CPU)")
	fs.BoolVarP(&f.Verbose, "verbose", "v", f.Verbose, "log zoom transitions and frame timings")
}

// Validate checks the flag values without building anything.
func (f *ViewFlags) Validate() error {
	if err := mandel.CheckExtent(f.RefWidth, f.RefHeight); err != nil {
		return fmt.Errorf("reference extent: %w", err)
	}
	if f.MaxZoom < 1 {
		return fmt.Errorf("max-zoom must be at least 1, got %d", f.MaxZoom)
	}
	if f.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", f.Workers)
	}
	if _, err := mandel.LookupRegion(f.Region); err != nil {
		return err
	}
	if _, err := render.LookupPalette(f.Palette); err != nil {
		return err
	}
	return nil
}

// Viewport builds a viewport positioned on the configured region.
func (f *ViewFlags) Viewport() (*mandel.Viewport, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	vp := mandel.NewViewport(
		mandel.WithReferenceExtent(f.RefWidth, f.RefHeight),
		mandel.WithMaxZoom(f.MaxZoom),
	)
	r, err := mandel.LookupRegion(f.Region)
	if err != nil {
		return nil, err
	}
	if err := vp.Goto(r); err != nil {
		return nil, err
	}
	return vp, nil
}

func (f *ViewFlags) Renderer() (render.Renderer, error) {
	p, err := render.LookupPalette(f.Palette)
	if err != nil {
		return render.Renderer{}, err
	}
	return render.Renderer{Palette: p, Workers: f.Workers}, nil
}

// SetupLogging routes library logs to w when verbose output was asked for.
func (f *ViewFlags) SetupLogging(w io.Writer) {
	if !f.Verbose {
		return
	}
	mandel.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
}
