// viewer is a terminal front-end for the Mandelbrot zoom. Each terminal
// cell shows two pixels stacked with a half block; the mouse wheel zooms.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/internal/cli"
)

func main() {
	if err := mainCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func mainCmd() *cobra.Command {
	view := cli.DefaultViewFlags()
	var logFile string

	cmd := &cobra.Command{
		Use:   "viewer",
		Short: "Zoom into the Mandelbrot set in the terminal",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			closeLog, err := setupLog(view, logFile)
			if err != nil {
				return err
			}
			defer closeLog()
			return run(cmd.Context(), view)
		},
	}
	// the terminal is taken over, so logs only make sense in a file
	cmd.Flags().StringVar(&logFile, "log", "", "append logs to this file")
	view.Register(cmd.Flags())
	return cmd
}

// setupLog sends both the binary's and the library's logs to path.
// Verbose logging without a log file would draw over the screen.
func setupLog(view *cli.ViewFlags, path string) (func(), error) {
	if path == "" {
		if view.Verbose {
			return nil, errors.New("--verbose needs --log")
		}
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	view.SetupLogging(f)
	return func() {
		log.SetOutput(os.Stderr)
		mandel.SetLogger(nil)
		f.Close()
	}, nil
}

func run(ctx context.Context, view *cli.ViewFlags) error {
	vp, err := view.Viewport()
	if err != nil {
		return err
	}
	rnd, err := view.Renderer()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("tcell.NewScreen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("screen.Init: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()

	v, err := newViewer(screen, vp, rnd)
	if err != nil {
		return err
	}
	log.Printf("viewer started at %dx%d cells", v.cols, v.rows)

	for {
		if err := v.draw(ctx); err != nil {
			return err
		}

		// Coalesce bursts of wheel events into one redraw.
		if err := v.handle(screen.PollEvent()); err != nil {
			return quitOK(err)
		}
		for screen.HasPendingEvent() {
			if err := v.handle(screen.PollEvent()); err != nil {
				return quitOK(err)
			}
		}
	}
}

func quitOK(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}
