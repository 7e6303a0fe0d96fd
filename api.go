package mandel

import (
	"context"
	"image"
)

// FrameSource hands out the latest rendered raster together with the
// viewport snapshot it was rendered from.
type FrameSource interface {
	Frame(ctx context.Context) (*image.RGBA, Frame, error)
}
