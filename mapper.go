package mandel

import (
	"fmt"
	"image"
)

// ToComplex maps pixel p of a w x h raster onto r.
// Pixel (0,0) lands exactly on (Xmin, Ymin); the far edge is never reached.
// w and h must be at least 1, see CheckExtent.
func ToComplex(p image.Point, r Region, w, h int) complex128 {
	x := r.Xmin + (float64(p.X)/float64(w))*(r.Xmax-r.Xmin)
	y := r.Ymin + (float64(p.Y)/float64(h))*(r.Ymax-r.Ymin)
	return complex(x, y)
}

// CheckExtent fails for rasters without pixels.
func CheckExtent(w, h int) error {
	if w < 1 || h < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidExtent, w, h)
	}
	return nil
}
