package mandel

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrInvalidRegion     = errors.New("invalid region")
	ErrInvalidExtent     = errors.New("invalid extent")
	ErrInvalidIterations = errors.New("invalid iteration budget")
	ErrPixelOutOfRange   = errors.New("pixel outside reference extent")
	ErrZoomLimit         = errors.New("zoom limit reached")
	ErrUnknownRegion     = errors.New("unknown region")
)

// Region within the Mandelbrot set.
// X is the real axis, Y the imaginary one.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// DefaultRegion shows the whole set and is what the viewport resets to.
var DefaultRegion = Region{
	Xmin: -2.0,
	Xmax: 1.0,
	Ymin: -1.5,
	Ymax: 1.5,
}

// Validate reports whether all bounds are finite and strictly ordered.
func (r Region) Validate() error {
	for _, v := range [...]float64{r.Xmin, r.Xmax, r.Ymin, r.Ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bound in %v", ErrInvalidRegion, r)
		}
	}
	if r.Xmin >= r.Xmax || r.Ymin >= r.Ymax {
		return fmt.Errorf("%w: bounds not ordered in %v", ErrInvalidRegion, r)
	}
	return nil
}

func (r Region) Width() float64  { return r.Xmax - r.Xmin }
func (r Region) Height() float64 { return r.Ymax - r.Ymin }

func (r Region) String() string {
	return fmt.Sprintf("[%g, %g] x [%g, %g]i", r.Xmin, r.Xmax, r.Ymin, r.Ymax)
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var landmarks = map[string]Region{
	"default":          DefaultRegion,
	"seahorse":         SeahorseValley,
	"elephant":         ElephantValley,
	"spiral-minibrot":  SpiralMinibrot,
	"triple-spiral":    TripleSpiral,
	"dragon":           ValleyOfTheDragon,
	"mini-spiral-brot": MinibrotInMiniSpiral,
}

// LookupRegion returns the landmark registered under name.
func LookupRegion(name string) (Region, error) {
	r, ok := landmarks[name]
	if !ok {
		return Region{}, fmt.Errorf("%w: %q", ErrUnknownRegion, name)
	}
	return r, nil
}

// RegionNames lists landmark names in sorted order.
func RegionNames() []string {
	names := make([]string, 0, len(landmarks))
	for n := range landmarks {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
