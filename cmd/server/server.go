package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/marben/mandelzoom/internal/cli"
)

type serverConfig struct {
	view *cli.ViewFlags

	addr           string
	width, height  int
	originPatterns []string
}

// main is the entry point for the Mandelbrot zoom server.
// Every browser connection gets its own viewport; rendering happens here and
// finished frames are pushed over the websocket as PNG.
func main() {
	if err := mainCmd().ExecuteContext(context.Background()); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}

func mainCmd() *cobra.Command {
	cfg := &serverConfig{view: cli.DefaultViewFlags()}

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve an interactive Mandelbrot zoom over HTTP and websocket",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			// At this point usage information has already been printed if obviously incorrect.
			cmd.SilenceUsage = true
			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.addr, "addr", ":8080", "listen address")
	flags.IntVar(&cfg.width, "width", 900, "render width in pixels")
	flags.IntVar(&cfg.height, "height", 900, "render height in pixels")
	flags.StringSliceVar(&cfg.originPatterns, "origin", nil, "extra websocket origin patterns to accept")
	cfg.view.Register(flags)

	return cmd
}

func run(ctx context.Context, cfg *serverConfig) error {
	cfg.view.SetupLogging(os.Stderr)

	srv, err := newZoomServer(cfg)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.addr,
		Handler:           srv.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Printf("listening on http://localhost%s", cfg.addr)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("httpServer: %w", err)
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.Shutdown: %w", err)
	}
	return nil
}
