// Package neighborhood enumerates the rectangular pixel neighborhood around a
// center coordinate and hands every in-bounds pixel to caller-supplied logic.
//
// This is the loop every windowed image kernel in this module shares: rank
// filters, convolutions and gradient operators all call Collect (or Fold)
// once per output pixel instead of repeating the nested loop.
//
// # Iteration
//
// For a center (cx, cy) and radius (rx, ry) the candidate coordinates are the
// Cartesian product of [cx-rx, cx+rx] and [cy-ry, cy+ry]. X is the outer loop
// and Y the inner loop, both ascending. Coordinates failing the bounds test
// are skipped; they are never zero-filled and never reported.
//
// # Bounds
//
// A coordinate is sampled when x < bound.X and y < bound.Y and it passes the
// lower test selected by BoundsPolicy:
//   - SkipOrigin (the zero value): x > 0 && y > 0. Row 0 and column 0 of the
//     image are never sampled, even when they fall inside the radius. Every
//     GPU kernel built on this loop produces its output under this rule.
//   - IncludeOrigin: x >= 0 && y >= 0, the plain clamped window.
//
// # Thread Safety
//
// Collect keeps no state between calls. Concurrent calls over the same
// read-only Sampler are safe; any accumulation target belongs to the caller.
package neighborhood
