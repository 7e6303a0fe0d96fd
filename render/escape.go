package render

import (
	"image/color"
	"math"
	"math/cmplx"
)

// EscapeRadius is the modulus at which an orbit is considered escaped.
const EscapeRadius = 2

// EscapeTime iterates z = z*z + c from z = 0 and returns the number of
// iterations done before |z| reached EscapeRadius. A result of maxIter
// means c did not escape within the budget.
func EscapeTime(c complex128, maxIter int) int {
	z := complex(0, 0)
	iter := 0
	for cmplx.Abs(z) < EscapeRadius && iter < maxIter {
		z = z*z + c
		iter++
	}
	return iter
}

// ColorFor maps an escape count to a shade of blue. Points that never
// escaped are black. The blue channel is clamped to 255 for budgets where
// intensity*10 would overflow a byte.
func ColorFor(iter, maxIter int) color.RGBA {
	if iter >= maxIter {
		return color.RGBA{A: 255}
	}
	iter = max(iter, 0)

	factor := math.Sqrt(float64(iter) / float64(maxIter))
	intensity := int(math.Round(float64(maxIter) * factor))
	return color.RGBA{B: uint8(min(max(intensity*10, 0), 255)), A: 255}
}
