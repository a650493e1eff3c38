package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-filter-mcp/internal/neighborhood"
)

// RGB holds 8-bit color components.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSL holds hue in degrees and saturation and lightness as percentages.
type HSL struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	L float64 `json:"l"`
}

// ColorInfo describes a single color in the formats the server reports.
type ColorInfo struct {
	Hex string `json:"hex"`
	RGB RGB    `json:"rgb"`
	HSL HSL    `json:"hsl"`
}

// NeighborhoodResult summarizes the pixels a neighborhood filter at Center
// would collect.
type NeighborhoodResult struct {
	Center  [2]int              `json:"center"`
	Radius  neighborhood.Radius `json:"radius"`
	Policy  string              `json:"bounds_policy"`
	Visited int                 `json:"visited"`

	// Window is the bounding box of the visited pixels as [x0, y0, x1, y1],
	// x1 and y1 exclusive. Omitted when nothing is visited.
	Window *[4]int `json:"window,omitempty"`

	Mean *ColorInfo `json:"mean,omitempty"`
	Min  *ColorInfo `json:"min,omitempty"`
	Max  *ColorInfo `json:"max,omitempty"`
}

func newColorInfo(r, g, b uint8) *ColorInfo {
	c, _ := colorful.MakeColor(color.NRGBA{r, g, b, 255})
	h, s, l := c.Hsl()
	return &ColorInfo{
		Hex: c.Hex(),
		RGB: RGB{r, g, b},
		HSL: HSL{
			H: math.Round(h*10) / 10,
			S: math.Round(s*1000) / 10,
			L: math.Round(l*1000) / 10,
		},
	}
}

// SampleNeighborhood walks the neighborhood of center exactly as the filters
// do and reports the count, extent and mean, min and max colors of the
// visited pixels. center must lie inside img.
func SampleNeighborhood(img image.Image, center image.Point, radius neighborhood.Radius, policy neighborhood.BoundsPolicy) (*NeighborhoodResult, error) {
	s := neighborhood.NewImageSampler(img)
	bound := s.Bound()
	if center.X < 0 || center.Y < 0 || center.X >= bound.X || center.Y >= bound.Y {
		return nil, fmt.Errorf("center (%d, %d) outside image bounds (%dx%d)", center.X, center.Y, bound.X, bound.Y)
	}

	// negative radii sample as zero; report what was sampled
	radius = neighborhood.Radius{X: max(radius.X, 0), Y: max(radius.Y, 0)}
	p := neighborhood.Params{
		Center: center,
		Radius: radius,
		Bound:  bound,
		Policy: policy,
	}

	var (
		n      int
		sum    [3]int
		lo, hi [3]uint8
	)
	lo = [3]uint8{255, 255, 255}
	neighborhood.Visit(p, func(x, y int) {
		c := s.At(x, y)
		for i, v := range [3]uint8{c.R, c.G, c.B} {
			sum[i] += int(v)
			if v < lo[i] {
				lo[i] = v
			}
			if v > hi[i] {
				hi[i] = v
			}
		}
		n++
	})

	res := &NeighborhoodResult{
		Center:  [2]int{center.X, center.Y},
		Radius:  radius,
		Policy:  policy.String(),
		Visited: n,
	}
	if n == 0 {
		return res, nil
	}

	w := p.Window()
	res.Window = &[4]int{w.Min.X, w.Min.Y, w.Max.X, w.Max.Y}
	var mean [3]uint8
	for i := range sum {
		mean[i] = neighborhood.ToByte(float64(sum[i]) / float64(n))
	}
	res.Mean = newColorInfo(mean[0], mean[1], mean[2])
	res.Min = newColorInfo(lo[0], lo[1], lo[2])
	res.Max = newColorInfo(hi[0], hi[1], hi[2])
	return res, nil
}
