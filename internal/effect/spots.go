package effect

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"

	"golang.org/x/image/vector"
)

// Spots describes a random scatter of filled circles.
type Spots struct {
	Count     int
	MinRadius float64 // inclusive
	MaxRadius float64 // exclusive
	Color     color.NRGBA
}

// Circle is one placed spot, in pixel coordinates.
type Circle struct {
	X, Y, R float64
}

// PlaceSpots draws centers uniformly in [0,w) x [0,h) and radii uniformly in
// [MinRadius, MaxRadius). The sequence depends only on rng's state.
func PlaceSpots(rng *rand.Rand, w, h int, s Spots) []Circle {
	out := make([]Circle, s.Count)
	for i := range out {
		out[i] = Circle{
			X: rng.Float64() * float64(w),
			Y: rng.Float64() * float64(h),
			R: rng.Float64()*(s.MaxRadius-s.MinRadius) + s.MinRadius,
		}
	}
	return out
}

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// fillCircles composites each circle onto dst separately with anti-aliased
// coverage, so overlapping spots darken further.
func fillCircles(dst *image.NRGBA, circles []Circle, c color.NRGBA) {
	b := dst.Bounds()
	src := image.NewUniform(c)
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	for _, circle := range circles {
		z.Reset(b.Dx(), b.Dy())
		z.DrawOp = draw.Over
		addCircle(z, float32(circle.X), float32(circle.Y), float32(circle.R))
		z.Draw(dst, b, src, image.Point{})
	}
}

func addCircle(z *vector.Rasterizer, cx, cy, r float32) {
	k := r * kappa
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}
