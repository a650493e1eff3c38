package filters

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-filter-mcp/internal/compute"
	"github.com/ironsheep/image-filter-mcp/internal/neighborhood"
)

// ErrInvalidMask is returned for a convolution mask with an even or
// non-positive side, or a weight count that does not match its size.
var ErrInvalidMask = errors.New("invalid convolution mask")

// Mask is a convolution kernel with weights stored row-major (Y outer).
// The center weight is at (Width/2, Height/2).
type Mask struct {
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Weights []float64 `json:"weights"`

	// Scale multiplies the weighted sum. Zero means 1.
	Scale float64 `json:"scale,omitempty"`
}

// Validate checks that the mask is usable.
func (m Mask) Validate() error {
	if m.Width < 1 || m.Height < 1 || m.Width%2 == 0 || m.Height%2 == 0 {
		return fmt.Errorf("%w: size %dx%d must be odd and positive", ErrInvalidMask, m.Width, m.Height)
	}
	if len(m.Weights) != m.Width*m.Height {
		return fmt.Errorf("%w: %d weights for a %dx%d mask", ErrInvalidMask, len(m.Weights), m.Width, m.Height)
	}
	return nil
}

func (m Mask) radius() neighborhood.Radius {
	return neighborhood.Radius{X: m.Width / 2, Y: m.Height / 2}
}

func (m Mask) scale() float64 {
	if m.Scale == 0 {
		return 1
	}
	return m.Scale
}

// weight returns the weight for the offset (dx, dy) from the center.
func (m Mask) weight(dx, dy int) float64 {
	r := m.radius()
	return m.Weights[(dy+r.Y)*m.Width+dx+r.X]
}

// weightedSum applies m to the neighborhood described by p, per RGB channel.
func weightedSum(s neighborhood.Sampler, p neighborhood.Params, m Mask) [3]float64 {
	var sum [3]float64
	neighborhood.Collect(s, p, func(x, y int, px neighborhood.Pixel) {
		w := m.weight(x-p.Center.X, y-p.Center.Y)
		b := px.Bytes()
		for c := 0; c < 3; c++ {
			sum[c] += w * float64(b[c])
		}
	})
	return sum
}

// isBorder reports whether the mask centered at id would reach past the image.
func isBorder(id, bound image.Point, r neighborhood.Radius) bool {
	return id.X < r.X || id.Y < r.Y || id.X >= bound.X-r.X || id.Y >= bound.Y-r.Y
}

// truncByte clamps v to [0, 255] and drops the fraction.
func truncByte(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// Convolve applies the linear mask m to img.
//
// Pixels closer to the border than the mask radius are copied unchanged.
// Interior results are scaled, clamped to [0, 255] and truncated.
func Convolve(ctx context.Context, img image.Image, m Mask, policy neighborhood.BoundsPolicy) (*image.NRGBA, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	src := neighborhood.NewImageSampler(img)
	bound := src.Bound()
	radius := m.radius()
	scale := m.scale()
	dst := image.NewNRGBA(image.Rectangle{Max: bound})

	err := compute.Dispatch(ctx, bound, func(id image.Point) {
		c := src.At(id.X, id.Y)
		if !isBorder(id, bound, radius) {
			p := neighborhood.Params{Center: id, Radius: radius, Bound: bound, Policy: policy}
			sum := weightedSum(src, p, m)
			c.R = truncByte(sum[0] * scale)
			c.G = truncByte(sum[1] * scale)
			c.B = truncByte(sum[2] * scale)
		}
		dst.SetNRGBA(id.X, id.Y, c)
	})
	if err != nil {
		return nil, fmt.Errorf("convolve: %w", err)
	}
	return dst, nil
}
