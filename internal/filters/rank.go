package filters

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/ironsheep/image-filter-mcp/internal/compute"
	"github.com/ironsheep/image-filter-mcp/internal/neighborhood"
)

var (
	// ErrUnknownFilter is returned for a filter name that is not registered.
	ErrUnknownFilter = errors.New("unknown filter")

	// ErrInvalidWindow is returned when a window side is smaller than 1.
	ErrInvalidWindow = errors.New("invalid filter window")
)

// Kind names a rank or statistic filter.
type Kind string

const (
	Median        Kind = "median"
	GeometricMean Kind = "gmean"
	Max           Kind = "max"
	Min           Kind = "min"
	Mean          Kind = "mean"
)

// Kinds returns every supported filter kind in display order.
func Kinds() []Kind {
	return []Kind{Median, GeometricMean, Max, Min, Mean}
}

// ParseKind validates a filter name. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := reducers[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return k, nil
}

// Options configures a rank or statistic filter.
type Options struct {
	// Width and Height are the window size in pixels. The radius on each
	// axis is half the size rounded down, so even sizes behave like the
	// next larger odd size.
	Width  int
	Height int

	// Policy is the neighborhood bounds policy.
	Policy neighborhood.BoundsPolicy
}

// Radius returns the neighborhood radius derived from the window size.
func (o Options) Radius() neighborhood.Radius {
	return neighborhood.Radius{X: o.Width / 2, Y: o.Height / 2}
}

func (o Options) validate() error {
	if o.Width < 1 || o.Height < 1 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidWindow, o.Width, o.Height)
	}
	return nil
}

// reducer computes the RGB result for one neighborhood. It returns false when
// the neighborhood visited no pixel.
type reducer func(s neighborhood.Sampler, p neighborhood.Params) ([3]uint8, bool)

var reducers = map[Kind]reducer{
	Median:        medianOf,
	GeometricMean: geometricMeanOf,
	Max:           maxOf,
	Min:           minOf,
	Mean:          meanOf,
}

// Apply runs the filter of the given kind over img and returns a new image
// with bounds starting at (0, 0).
//
// Output pixels whose neighborhood is empty (possible only for a radius of 0
// on an axis through row or column 0) keep the source value.
func Apply(ctx context.Context, img image.Image, kind Kind, opts Options) (*image.NRGBA, error) {
	reduce, ok := reducers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFilter, kind)
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	src := neighborhood.NewImageSampler(img)
	bound := src.Bound()
	radius := opts.Radius()
	dst := image.NewNRGBA(image.Rectangle{Max: bound})

	err := compute.Dispatch(ctx, bound, func(id image.Point) {
		c := src.At(id.X, id.Y)
		p := neighborhood.Params{Center: id, Radius: radius, Bound: bound, Policy: opts.Policy}
		if rgb, ok := reduce(src, p); ok {
			c.R, c.G, c.B = rgb[0], rgb[1], rgb[2]
		}
		dst.SetNRGBA(id.X, id.Y, c)
	})
	if err != nil {
		return nil, fmt.Errorf("%s filter: %w", kind, err)
	}
	return dst, nil
}

func medianOf(s neighborhood.Sampler, p neighborhood.Params) ([3]uint8, bool) {
	var hist [3][256]uint32
	n := 0
	neighborhood.Collect(s, p, func(_, _ int, px neighborhood.Pixel) {
		b := px.Bytes()
		for c := 0; c < 3; c++ {
			hist[c][b[c]]++
		}
		n++
	})
	if n == 0 {
		return [3]uint8{}, false
	}

	idx := uint32(n / 2)
	var out [3]uint8
	for c := 0; c < 3; c++ {
		out[c] = 255
		var partial uint32
		for level := 0; level < 256; level++ {
			partial += hist[c][level]
			if partial > idx {
				out[c] = uint8(level)
				break
			}
		}
	}
	return out, true
}

// geometricMeanOf sums logarithms rather than multiplying so large windows do
// not overflow. A zero channel value drives that channel's result to 0.
func geometricMeanOf(s neighborhood.Sampler, p neighborhood.Params) ([3]uint8, bool) {
	var logs [3]float64
	n := 0
	neighborhood.Collect(s, p, func(_, _ int, px neighborhood.Pixel) {
		b := px.Bytes()
		for c := 0; c < 3; c++ {
			logs[c] += math.Log(float64(b[c]))
		}
		n++
	})
	if n == 0 {
		return [3]uint8{}, false
	}

	var out [3]uint8
	for c := 0; c < 3; c++ {
		v := math.Exp(logs[c] / float64(n))
		// Truncate, tolerating the last-bit error of exp(log(v)).
		out[c] = uint8(math.Min(math.Floor(v+1e-9), 255))
	}
	return out, true
}

func maxOf(s neighborhood.Sampler, p neighborhood.Params) ([3]uint8, bool) {
	type acc struct {
		v [3]uint8
		n int
	}
	r := neighborhood.Fold(s, p, acc{}, func(a acc, px neighborhood.Pixel) acc {
		b := px.Bytes()
		for c := 0; c < 3; c++ {
			a.v[c] = max(a.v[c], b[c])
		}
		a.n++
		return a
	})
	return r.v, r.n > 0
}

func minOf(s neighborhood.Sampler, p neighborhood.Params) ([3]uint8, bool) {
	type acc struct {
		v [3]uint8
		n int
	}
	r := neighborhood.Fold(s, p, acc{v: [3]uint8{255, 255, 255}}, func(a acc, px neighborhood.Pixel) acc {
		b := px.Bytes()
		for c := 0; c < 3; c++ {
			a.v[c] = min(a.v[c], b[c])
		}
		a.n++
		return a
	})
	return r.v, r.n > 0
}

func meanOf(s neighborhood.Sampler, p neighborhood.Params) ([3]uint8, bool) {
	var sum [3]float64
	n := 0
	neighborhood.Collect(s, p, func(_, _ int, px neighborhood.Pixel) {
		b := px.Bytes()
		for c := 0; c < 3; c++ {
			sum[c] += float64(b[c])
		}
		n++
	})
	if n == 0 {
		return [3]uint8{}, false
	}

	var out [3]uint8
	for c := 0; c < 3; c++ {
		out[c] = neighborhood.ToByte(sum[c] / float64(n))
	}
	return out, true
}
