// Package filters implements the windowed image kernels built on the
// neighborhood loop: rank and statistic filters (median, geometric mean,
// max, min, mean), linear convolution, and gradient operators.
//
// Every filter is expressed as a per-pixel kernel dispatched over the output
// grid with compute.Dispatch. Each invocation enumerates its neighborhood with
// neighborhood.Collect and writes its own output pixel only.
//
// # Boundary Behavior
//
// The bounds policy is passed through to neighborhood.Params unchanged. With
// the default policy (neighborhood.SkipOrigin) row 0 and column 0 of the source
// never contribute to any output pixel. This matches the GPU kernels these
// filters mirror and changes the output next to the top and left edges;
// pass neighborhood.IncludeOrigin to sample the full clamped window instead.
//
// # Channels
//
// Filters operate on the R, G and B channels as 8-bit values. The alpha of each
// output pixel is copied from the source pixel at the same coordinate.
package filters
