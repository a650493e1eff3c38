package neighborhood

import (
	"image"
	"math"
)

// Pixel is a four-component color with channels R, G, B, A in [0, 1].
type Pixel [4]float32

// Sampler reads a single pixel at an exact integer coordinate.
//
// Implementations must not interpolate. Collect only calls Load for
// coordinates that passed the bounds test.
type Sampler interface {
	Load(x, y int) Pixel
}

// Radius is the half-width of the sampled rectangle along each axis.
// A radius of r yields 2r+1 candidate coordinates on that axis.
type Radius struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BoundsPolicy selects the lower bound test applied to both axes.
type BoundsPolicy int

const (
	// SkipOrigin samples only x > 0 and y > 0.
	SkipOrigin BoundsPolicy = iota
	// IncludeOrigin samples x >= 0 and y >= 0.
	IncludeOrigin
)

// String returns the policy name used in tool arguments and logs.
func (p BoundsPolicy) String() string {
	if p == IncludeOrigin {
		return "include-origin"
	}
	return "skip-origin"
}

// Params are the read-only inputs of one neighborhood enumeration.
type Params struct {
	// Center is the coordinate the neighborhood is built around.
	Center image.Point

	// Radius is the per-axis half-width. Negative components are treated as 0.
	Radius Radius

	// Bound is the exclusive upper limit of valid coordinates (width, height).
	Bound image.Point

	// Policy is the lower bound test.
	Policy BoundsPolicy
}

// lower returns the smallest coordinate that passes the lower bound test.
func (p Params) lower() int {
	if p.Policy == IncludeOrigin {
		return 0
	}
	return 1
}

// Contains reports whether (x, y) passes the bounds test.
// It does not check that the coordinate lies inside the radius.
func (p Params) Contains(x, y int) bool {
	lo := p.lower()
	return x >= lo && y >= lo && x < p.Bound.X && y < p.Bound.Y
}

// addSat returns a+b for b >= 0, saturating at math.MaxInt.
func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// subSat returns a-b for b >= 0, saturating at math.MinInt.
func subSat(a, b int) int {
	if a < math.MinInt+b {
		return math.MinInt
	}
	return a - b
}

// Collect runs body once for every in-bounds coordinate of the neighborhood,
// passing the pixel loaded from s at that coordinate.
//
// X is the outer loop and Y the inner loop, both ascending. Callers whose
// accumulation is order-sensitive get a deterministic order but should not
// rely on it for correctness.
//
// Only the clipped Window is walked, so the cost is proportional to the
// number of visited pixels however large the radius.
func Collect(s Sampler, p Params, body func(x, y int, px Pixel)) {
	w := p.Window()
	for x := w.Min.X; x < w.Max.X; x++ {
		for y := w.Min.Y; y < w.Max.Y; y++ {
			body(x, y, s.Load(x, y))
		}
	}
}

// Visit enumerates the same coordinates as Collect without loading pixels.
func Visit(p Params, fn func(x, y int)) {
	w := p.Window()
	for x := w.Min.X; x < w.Max.X; x++ {
		for y := w.Min.Y; y < w.Max.Y; y++ {
			fn(x, y)
		}
	}
}

// Fold accumulates fn over every pixel Collect visits, starting from init.
func Fold[T any](s Sampler, p Params, init T, fn func(acc T, px Pixel) T) T {
	acc := init
	Collect(s, p, func(_, _ int, px Pixel) {
		acc = fn(acc, px)
	})
	return acc
}

// Window returns the rectangle of coordinates Collect visits, with Max
// exclusive. The rectangle is empty when nothing is visited.
//
// The candidate range [c-r, c+r] is computed with saturating arithmetic and
// then clipped to [lower, Bound), so no radius can wrap around.
func (p Params) Window() image.Rectangle {
	rx, ry := max(p.Radius.X, 0), max(p.Radius.Y, 0)
	lo := p.lower()

	// x1 and y1 are inclusive and never exceed Bound-1, so Max cannot overflow.
	x0 := max(subSat(p.Center.X, rx), lo)
	y0 := max(subSat(p.Center.Y, ry), lo)
	x1 := min(addSat(p.Center.X, rx), p.Bound.X-1)
	y1 := min(addSat(p.Center.Y, ry), p.Bound.Y-1)
	if x0 > x1 || y0 > y1 {
		return image.Rectangle{}
	}
	return image.Rectangle{
		Min: image.Pt(x0, y0),
		Max: image.Pt(x1+1, y1+1),
	}
}

// Count returns the number of coordinates Collect visits for p.
func Count(p Params) int {
	w := p.Window()
	return w.Dx() * w.Dy()
}
