package resize

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// MaxDimension bounds both sides of every simulated image.
const MaxDimension = 800

// Dimensions returns the size an image of w x h is scaled to so that
// neither side exceeds max. The longer side becomes max and the shorter one
// keeps the aspect ratio, rounded. Images already in bounds keep their size.
func Dimensions(w, h, max int) (int, int) {
	if w <= max && h <= max {
		return w, h
	}
	if w > h {
		return max, atLeastOne(math.Round(float64(h) * float64(max) / float64(w)))
	}
	return atLeastOne(math.Round(float64(w) * float64(max) / float64(h))), max
}

func atLeastOne(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// Fit downscales img to fit in max x max with Lanczos resampling. It never
// upscales; an in-bounds *image.NRGBA at the origin is returned as is, other
// in-bounds images are converted.
func Fit(img image.Image, max int) *image.NRGBA {
	b := img.Bounds()
	w, h := Dimensions(b.Dx(), b.Dy(), max)
	if w == b.Dx() && h == b.Dy() {
		if nrgba, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
			return nrgba
		}
		return imaging.Clone(img)
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
