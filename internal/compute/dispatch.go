// Package compute runs a per-pixel kernel over an output grid, one logical
// invocation per coordinate, the way a compute shader dispatch would.
//
// Invocations share nothing and have no ordering between them. Each one
// must write only to its own output location.
package compute

import (
	"context"
	"image"
	"sync/atomic"

	"github.com/anthonynsimon/bild/parallel"
)

// Kernel is the work done for a single output coordinate.
type Kernel func(id image.Point)

// Dispatch invokes kernel once for every coordinate in [0,size.X)×[0,size.Y).
//
// Rows are split across goroutines. Cancellation is checked before each row;
// once ctx is done the remaining rows are skipped and ctx.Err() is returned.
// Rows already started run to completion.
func Dispatch(ctx context.Context, size image.Point, kernel Kernel) error {
	if size.X <= 0 || size.Y <= 0 {
		return nil
	}

	var cancelled atomic.Bool
	parallel.Line(size.Y, func(start, end int) {
		for y := start; y < end; y++ {
			if cancelled.Load() {
				return
			}
			if ctx.Err() != nil {
				cancelled.Store(true)
				return
			}
			for x := 0; x < size.X; x++ {
				kernel(image.Point{X: x, Y: y})
			}
		}
	})

	return ctx.Err()
}
