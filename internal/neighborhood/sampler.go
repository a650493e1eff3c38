package neighborhood

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ImageSampler is a Sampler over a decoded image.
//
// The source is copied once into a 0-based *image.NRGBA so Load works in the
// same coordinate space as Params regardless of the source bounds origin or
// color model. Alpha is not premultiplied, matching what an rgba8 image view
// returns to a shader.
type ImageSampler struct {
	img *image.NRGBA
}

// NewImageSampler creates a sampler over img.
func NewImageSampler(img image.Image) *ImageSampler {
	return &ImageSampler{img: imaging.Clone(img)}
}

// Bound returns the exclusive upper coordinate limit (width, height).
func (s *ImageSampler) Bound() image.Point {
	return s.img.Rect.Size()
}

// Load returns the pixel at (x, y). Coordinates outside the image read as a
// zero Pixel.
func (s *ImageSampler) Load(x, y int) Pixel {
	if !(image.Point{X: x, Y: y}.In(s.img.Rect)) {
		return Pixel{}
	}
	c := s.img.NRGBAAt(x, y)
	return Pixel{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

// At returns the 8-bit color at (x, y) without converting to a Pixel.
func (s *ImageSampler) At(x, y int) color.NRGBA {
	return s.img.NRGBAAt(x, y)
}

// Bytes converts a Pixel channel back to 8 bits, rounding and clamping.
func (px Pixel) Bytes() [4]uint8 {
	var out [4]uint8
	for i, v := range px {
		out[i] = ToByte(float64(v) * 255)
	}
	return out
}

// ToByte rounds v to the nearest integer in [0, 255].
func ToByte(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
