package filters

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/ironsheep/image-filter-mcp/internal/compute"
	"github.com/ironsheep/image-filter-mcp/internal/neighborhood"
)

// Operator names a gradient operator.
type Operator string

const (
	Sobel   Operator = "sobel"
	Roberts Operator = "roberts"

	// Uolis is the nonlinear operator 2550·log10(p⁴ / n₁n₂n₃n₄) / 4 taken
	// per channel over the 4-neighbors of p. It has no masks.
	Uolis Operator = "uolis"
)

// gradientMasks holds the horizontal and vertical masks of each operator.
//
// Sobel:
//
//	gx = -1 0 1    gy =  1  2  1
//	     -2 0 2          0  0  0
//	     -1 0 1         -1 -2 -1
//
// Roberts cross, taken at the top-left of its 2x2 cell:
//
//	gx = p(x,y)   - p(x+1,y+1)
//	gy = p(x,y+1) - p(x+1,y)
var gradientMasks = map[Operator][2]Mask{
	Sobel: {
		{Width: 3, Height: 3, Weights: []float64{-1, 0, 1, -2, 0, 2, -1, 0, 1}},
		{Width: 3, Height: 3, Weights: []float64{1, 2, 1, 0, 0, 0, -1, -2, -1}},
	},
	Roberts: {
		{Width: 3, Height: 3, Weights: []float64{0, 0, 0, 0, 1, 0, 0, 0, -1}},
		{Width: 3, Height: 3, Weights: []float64{0, 0, 0, 0, 0, -1, 0, 1, 0}},
	},
}

// Operators lists the supported gradient operators.
func Operators() []Operator {
	return []Operator{Sobel, Roberts, Uolis}
}

// ParseOperator validates an operator name. Matching is case-insensitive.
func ParseOperator(name string) (Operator, error) {
	op := Operator(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := gradientMasks[op]; !ok && op != Uolis {
		return "", fmt.Errorf("%w: unknown gradient operator %q", ErrUnknownFilter, name)
	}
	return op, nil
}

// magnitude returns the sqrt(gx² + gy²) response of a mask pair.
func magnitude(gx, gy Mask) func(neighborhood.Sampler, neighborhood.Params) [3]float64 {
	return func(s neighborhood.Sampler, p neighborhood.Params) [3]float64 {
		sx := weightedSum(s, p, gx)
		sy := weightedSum(s, p, gy)
		return [3]float64{
			math.Hypot(sx[0], sy[0]),
			math.Hypot(sx[1], sy[1]),
			math.Hypot(sx[2], sy[2]),
		}
	}
}

// uolisResponse evaluates the Uolis formula at p.Center. The neighbor product
// covers only the 4-neighbors the neighborhood walk visits. A zero product
// gives +Inf and 0/0 gives NaN; truncByte maps them to 255 and 0.
func uolisResponse(s neighborhood.Sampler, p neighborhood.Params) [3]float64 {
	prod := [3]float64{1, 1, 1}
	neighborhood.Collect(s, p, func(x, y int, px neighborhood.Pixel) {
		dx, dy := x-p.Center.X, y-p.Center.Y
		if dx*dx+dy*dy != 1 {
			return
		}
		b := px.Bytes()
		for c := range prod {
			prod[c] *= float64(b[c])
		}
	})

	center := s.Load(p.Center.X, p.Center.Y).Bytes()
	var out [3]float64
	for c := range out {
		v := float64(center[c])
		out[c] = 2550 * math.Log10(v*v*v*v/prod[c]) / 4
	}
	return out
}

// Gradient computes the per-channel edge response of img using the given
// operator: sqrt(gx² + gy²) for the mask operators, the Uolis formula for
// Uolis.
//
// The outermost row and column on every side are left black; alpha is kept
// from the source.
func Gradient(ctx context.Context, img image.Image, op Operator, policy neighborhood.BoundsPolicy) (*image.NRGBA, error) {
	var (
		radius  neighborhood.Radius
		measure func(neighborhood.Sampler, neighborhood.Params) [3]float64
	)
	if op == Uolis {
		radius = neighborhood.Radius{X: 1, Y: 1}
		measure = uolisResponse
	} else {
		masks, ok := gradientMasks[op]
		if !ok {
			return nil, fmt.Errorf("%w: unknown gradient operator %q", ErrUnknownFilter, op)
		}
		radius = masks[0].radius()
		measure = magnitude(masks[0], masks[1])
	}

	src := neighborhood.NewImageSampler(img)
	bound := src.Bound()
	dst := image.NewNRGBA(image.Rectangle{Max: bound})

	err := compute.Dispatch(ctx, bound, func(id image.Point) {
		out := color.NRGBA{A: src.At(id.X, id.Y).A}
		if !isBorder(id, bound, radius) {
			p := neighborhood.Params{Center: id, Radius: radius, Bound: bound, Policy: policy}
			v := measure(src, p)
			out.R = truncByte(v[0])
			out.G = truncByte(v[1])
			out.B = truncByte(v[2])
		}
		dst.SetNRGBA(id.X, id.Y, out)
	})
	if err != nil {
		return nil, fmt.Errorf("%s gradient: %w", op, err)
	}
	return dst, nil
}
