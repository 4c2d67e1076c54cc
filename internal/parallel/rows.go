package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBand keeps small images from being split into bands that cost more to
// schedule than to process.
const minBand = 16

// Rows calls fn over disjoint [y0,y1) bands covering [0,height), one band
// per available processor. fn must only write rows inside its band. The
// context is checked before each band starts.
func Rows(ctx context.Context, height int, fn func(y0, y1 int)) error {
	if height <= 0 {
		return ctx.Err()
	}
	numProcs := runtime.GOMAXPROCS(0)
	band := (height + numProcs - 1) / numProcs
	if band < minBand {
		band = minBand
	}

	g, ctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < height; y0 += band {
		y0 := y0
		y1 := y0 + band
		if y1 > height {
			y1 = height
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(y0, y1)
			return nil
		})
	}
	return g.Wait()
}
