// Package imaging loads source images for the filter server and packages
// filter output for MCP responses.
//
// Images are decoded once per path and held in an ImageCache. Filters never
// mutate a cached image; they always write a fresh *image.NRGBA.
//
// # Coordinate System
//
// Coordinates are 0-based with (0,0) at the top-left, X increasing rightward
// and Y increasing downward. Every filter works on an image rebased to that
// origin, so the filter bound of an image is simply (width, height).
//
// Row 0 and column 0 are outside the default sampling window. SampleNeighborhood
// reports exactly which pixels a filter at a given center would see, which is
// the quickest way to check that behavior on a real file.
//
// # Color Representation
//
// Sampled colors are reported as:
//   - Hex: "#rrggbb" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless.
package imaging
