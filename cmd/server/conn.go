package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/session"
)

// request is a gesture sent by the browser. Reset and Region take
// precedence over a scroll.
type request struct {
	X      int     `json:"x"`
	Y      int     `json:"y"`
	Delta  float64 `json:"delta"`
	Reset  bool    `json:"reset,omitempty"`
	Region string  `json:"region,omitempty"`
}

// message is sent as JSON text. A "frame" message is followed by one binary
// message holding the PNG encoded raster.
type message struct {
	Type      string        `json:"type"`
	Zoom      int           `json:"zoom,omitempty"`
	MaxIter   int           `json:"maxIter,omitempty"`
	Region    mandel.Region `json:"region"`
	Width     int           `json:"width,omitempty"`
	Height    int           `json:"height,omitempty"`
	RefWidth  int           `json:"refWidth,omitempty"`
	RefHeight int           `json:"refHeight,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type client struct {
	c       *websocket.Conn
	sess    *session.Session
	dirty   chan struct{}
	notices chan string
}

// serveClient pumps gestures from c into sess and pushes a new frame after
// every accepted gesture. Only the calling goroutine writes to c.
func serveClient(ctx context.Context, c *websocket.Conn, sess *session.Session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cl := &client{
		c:       c,
		sess:    sess,
		dirty:   make(chan struct{}, 1),
		notices: make(chan string, 8),
	}
	cl.markDirty()

	readErr := make(chan error, 1)
	go func() {
		readErr <- cl.readLoop(ctx)
		cancel()
	}()

	werr := cl.writeLoop(ctx)
	cancel()
	rerr := <-readErr
	if errors.Is(werr, context.Canceled) && rerr != nil {
		// the reader stopped first, its error says why
		return rerr
	}
	return werr
}

func (cl *client) markDirty() {
	select {
	case cl.dirty <- struct{}{}:
	default:
	}
}

func (cl *client) readLoop(ctx context.Context) error {
	for {
		var req request
		if err := wsjson.Read(ctx, cl.c, &req); err != nil {
			return err
		}
		if err := cl.apply(req); err != nil {
			log.Printf("gesture %+v: %v", req, err)
			select {
			case cl.notices <- err.Error():
			default:
			}
			continue
		}
		cl.markDirty()
	}
}

func (cl *client) apply(req request) error {
	switch {
	case req.Reset:
		cl.sess.Reset()
		return nil
	case req.Region != "":
		return cl.sess.Goto(req.Region)
	default:
		return cl.sess.Scroll(req.X, req.Y, req.Delta)
	}
}

func (cl *client) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case notice := <-cl.notices:
			if err := wsjson.Write(ctx, cl.c, message{Type: "error", Error: notice}); err != nil {
				return fmt.Errorf("write notice: %w", err)
			}
		case <-cl.dirty:
			err := cl.sendFrame(ctx)
			if errors.Is(err, context.Canceled) && ctx.Err() == nil {
				// superseded by a newer gesture, which marked the session dirty again
				continue
			}
			if err != nil {
				return err
			}
		}
	}
}

func (cl *client) sendFrame(ctx context.Context) error {
	refW, refH := cl.sess.Viewport().ReferenceExtent()
	return writeFrame(ctx, cl.c, cl.sess, refW, refH)
}

// writeFrame renders the next frame of src and writes its header and PNG
// to c. refW x refH is the extent the browser maps gestures into.
func writeFrame(ctx context.Context, c *websocket.Conn, src mandel.FrameSource, refW, refH int) error {
	img, frame, err := src.Frame(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("png.Encode: %w", err)
	}

	header := message{
		Type:      "frame",
		Zoom:      frame.Zoom,
		MaxIter:   frame.MaxIter,
		Region:    frame.Region,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		RefWidth:  refW,
		RefHeight: refH,
	}
	if err := wsjson.Write(ctx, c, header); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	if err := c.Write(ctx, websocket.MessageBinary, buf.Bytes()); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
