package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"

	mandel "github.com/marben/mandelzoom"
	"github.com/marben/mandelzoom/render"
	"github.com/marben/mandelzoom/session"
)

// upperHalf shows the even pixel row as foreground and the odd one as background.
const upperHalf = '▀'

// hudRows is the number of terminal rows reserved for the status line.
const hudRows = 1

type viewer struct {
	screen tcell.Screen
	vp     *mandel.Viewport
	rnd    render.Renderer
	sess   *session.Session

	cols, rows int
	notice     string
}

func newViewer(screen tcell.Screen, vp *mandel.Viewport, rnd render.Renderer) (*viewer, error) {
	v := &viewer{screen: screen, vp: vp, rnd: rnd}
	if err := v.resize(); err != nil {
		return nil, err
	}
	return v, nil
}

// resize allocates a session matching the terminal. The viewport, and with
// it the zoom state, survives.
func (v *viewer) resize() error {
	cols, rows := v.screen.Size()
	w, h := rasterSize(cols, rows)
	sess, err := session.New(v.vp, v.rnd, w, h)
	if err != nil {
		return fmt.Errorf("terminal too small (%dx%d): %w", cols, rows, err)
	}
	v.sess, v.cols, v.rows = sess, cols, rows
	return nil
}

// rasterSize is the pixel extent drawn in a cols x rows terminal.
func rasterSize(cols, rows int) (w, h int) {
	return cols, (rows - hudRows) * 2
}

// cellToReference maps a terminal cell onto the viewport's reference extent.
func cellToReference(x, y, w, h, refW, refH int) image.Point {
	px := min(max(x*refW/w, 0), refW-1)
	py := min(max(2*y*refH/h, 0), refH-1)
	return image.Pt(px, py)
}

func cellStyle(top, bottom color.RGBA) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(top.R), int32(top.G), int32(top.B))).
		Background(tcell.NewRGBColor(int32(bottom.R), int32(bottom.G), int32(bottom.B)))
}

// draw renders the current viewport and puts it on screen.
func (v *viewer) draw(ctx context.Context) error {
	img, frame, err := v.sess.Frame(ctx)
	if err != nil {
		return err
	}

	b := img.Bounds()
	for row := 0; row*2 < b.Dy(); row++ {
		for x := 0; x < b.Dx(); x++ {
			top := img.RGBAAt(x, 2*row)
			bottom := color.RGBA{A: 255}
			if 2*row+1 < b.Dy() {
				bottom = img.RGBAAt(x, 2*row+1)
			}
			v.screen.SetContent(x, row, upperHalf, nil, cellStyle(top, bottom))
		}
	}
	v.drawHUD(frame)
	v.screen.Show()
	return nil
}

func (v *viewer) drawHUD(frame mandel.Frame) {
	line := fmt.Sprintf(" zoom %d  iter %d  %v  [wheel] zoom  [r] reset  [q] quit", frame.Zoom, frame.MaxIter, frame.Region)
	if v.notice != "" {
		line = " " + v.notice + " |" + line
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	y := v.rows - hudRows
	x := 0
	for _, r := range line {
		if x >= v.cols {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < v.cols; x++ {
		v.screen.SetContent(x, y, ' ', nil, style)
	}
}

var errQuit = errors.New("quit")

// handle applies one event. It returns errQuit when the user asked to leave.
func (v *viewer) handle(ev tcell.Event) error {
	switch ev := ev.(type) {
	case nil:
		// the screen was finalized
		return errQuit
	case *tcell.EventResize:
		v.screen.Sync()
		return v.resize()
	case *tcell.EventKey:
		switch {
		case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC,
			ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
			return errQuit
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'r':
			v.sess.Reset()
			v.notice = ""
		}
	case *tcell.EventMouse:
		var delta float64
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			delta = 1
		case ev.Buttons()&tcell.WheelDown != 0:
			delta = -1
		default:
			return nil
		}
		x, y := ev.Position()
		refW, refH := v.vp.ReferenceExtent()
		w, h := v.sess.Size()
		p := cellToReference(x, y, w, h, refW, refH)
		v.notice = ""
		if err := v.sess.Scroll(p.X, p.Y, delta); err != nil {
			v.notice = err.Error()
		}
	}
	return nil
}
