// Package session glues a viewport and a renderer into the per-frame loop
// driven by a display front-end: snapshot the viewport, render, present,
// forward zoom gestures.
package session

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/render"
)

// Session owns the rasters for one display. Rasters are allocated once and
// overwritten every frame: renders go to a back buffer that becomes the
// front buffer only once complete, so the last completed render wins.
type Session struct {
	vp   *mandel.Viewport
	rnd  render.Renderer
	w, h int

	renderMu sync.Mutex // serializes renders into back
	back     *image.RGBA

	m         sync.Mutex // guards the fields below
	front     *image.RGBA
	lastFrame mandel.Frame
	rendered  bool
	cancel    context.CancelFunc
}

var _ mandel.FrameSource = (*Session)(nil)

// New creates a session rendering w x h rasters of vp.
func New(vp *mandel.Viewport, rnd render.Renderer, w, h int) (*Session, error) {
	if vp == nil {
		return nil, errors.New("session: nil viewport")
	}
	if err := mandel.CheckExtent(w, h); err != nil {
		return nil, err
	}
	return &Session{
		vp:    vp,
		rnd:   rnd,
		w:     w,
		h:     h,
		front: image.NewRGBA(image.Rect(0, 0, w, h)),
		back:  image.NewRGBA(image.Rect(0, 0, w, h)),
	}, nil
}

func (s *Session) Viewport() *mandel.Viewport { return s.vp }

// Size returns the render extent, which need not match the viewport's
// reference extent.
func (s *Session) Size() (w, h int) {
	return s.w, s.h
}

// Frame renders the current viewport state. A later Frame, Scroll, Reset or
// Goto abandons an in-flight render, which then returns context.Canceled.
//
// The returned raster is reused: it stays valid until the next call to Frame.
func (s *Session) Frame(ctx context.Context) (*image.RGBA, mandel.Frame, error) {
	rctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.supersede(cancel)

	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	frame := s.vp.Snapshot()
	start := time.Now()
	if err := s.rnd.RenderInto(rctx, s.back, frame.Region, frame.MaxIter); err != nil {
		return nil, frame, err
	}
	s.m.Lock()
	s.front, s.back = s.back, s.front
	s.lastFrame = frame
	s.rendered = true
	front := s.front
	s.m.Unlock()

	mandel.Logger().Debug("frame rendered", "zoom", frame.Zoom, "max_iter", frame.MaxIter, "elapsed", time.Since(start))
	return front, frame, nil
}

// Last returns the most recently completed frame, if any.
func (s *Session) Last() (*image.RGBA, mandel.Frame, bool) {
	s.m.Lock()
	defer s.m.Unlock()
	return s.front, s.lastFrame, s.rendered
}

// Scroll forwards a wheel gesture given in reference extent coordinates.
// A refused gesture leaves the in-flight render alone.
func (s *Session) Scroll(x, y int, delta float64) error {
	if err := s.vp.Scroll(image.Pt(x, y), delta); err != nil {
		return err
	}
	s.supersede(nil)
	return nil
}

func (s *Session) Reset() {
	s.vp.Reset()
	s.supersede(nil)
}

// Goto jumps to a named landmark region.
func (s *Session) Goto(name string) error {
	r, err := mandel.LookupRegion(name)
	if err != nil {
		return err
	}
	if err := s.vp.Goto(r); err != nil {
		return err
	}
	s.supersede(nil)
	return nil
}

// supersede cancels the in-flight render and registers next as the one to
// cancel from now on.
func (s *Session) supersede(next context.CancelFunc) {
	s.m.Lock()
	defer s.m.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = next
}
