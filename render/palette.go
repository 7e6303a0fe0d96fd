package render

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette turns an escape count into a pixel colour.
type Palette func(iter, maxIter int) color.RGBA

// Classic is the blue ramp of ColorFor.
var Classic Palette = ColorFor

// Hue sweeps from blue through green to red as points take longer to
// escape. Interior points stay black.
func Hue(iter, maxIter int) color.RGBA {
	if iter >= maxIter {
		return color.RGBA{A: 255}
	}
	t := math.Sqrt(float64(max(iter, 0)) / float64(maxIter))
	r, g, b := colorful.Hsv(240*(1-t), 1, 0.35+0.65*t).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

var palettes = map[string]Palette{
	"classic": Classic,
	"hue":     Hue,
}

// LookupPalette returns the palette registered under name.
func LookupPalette(name string) (Palette, error) {
	p, ok := palettes[name]
	if !ok {
		return nil, fmt.Errorf("unknown palette %q (have %v)", name, PaletteNames())
	}
	return p, nil
}

func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
