// snapshot renders one view of the Mandelbrot set, optionally after a
// scripted sequence of zoom gestures, and saves it as a PNG file.
package main

import (
	"context"
	"fmt"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marben/mandelzoom/internal/cli"
)

type snapshotConfig struct {
	view *cli.ViewFlags

	width, height int
	supersample   int
	zooms         []string
	out           string
}

func main() {
	if err := mainCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func mainCmd() *cobra.Command {
	cfg := &snapshotConfig{view: cli.DefaultViewFlags()}

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the Mandelbrot set to a PNG file",
		Example: "  snapshot --zoom 450,450 --zoom 300,500 --out mandel.png\n" +
			"  snapshot --region seahorse --supersample 3 --width 1920 --height 1080",
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.width, "width", 900, "image width in pixels")
	flags.IntVar(&cfg.height, "height", 900, "image height in pixels")
	flags.IntVar(&cfg.supersample, "supersample", 1, "render N times larger and scale down")
	flags.StringArrayVar(&cfg.zooms, "zoom", nil, "zoom gesture x,y[,in|out] in reference coordinates (repeatable)")
	flags.StringVarP(&cfg.out, "out", "o", "mandel.png", "output file")
	cfg.view.Register(flags)

	return cmd
}

func run(ctx context.Context, cfg *snapshotConfig) error {
	cfg.view.SetupLogging(os.Stderr)

	vp, err := cfg.view.Viewport()
	if err != nil {
		return err
	}
	rnd, err := cfg.view.Renderer()
	if err != nil {
		return err
	}
	if err := replay(vp, cfg.zooms); err != nil {
		return err
	}

	start := time.Now()
	img, frame, err := snapshot(ctx, vp, rnd, cfg.width, cfg.height, cfg.supersample)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	log.Printf("rendered %v at zoom %d (%d iterations) in %s", frame.Region, frame.Zoom, frame.MaxIter, time.Since(start))

	f, err := os.Create(cfg.out)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.Printf("saved to %q", cfg.out)
	return nil
}
