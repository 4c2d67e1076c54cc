package resize

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func TestDimensions(t *testing.T) {
	testCases := []struct {
		desc  string
		w, h  int
		wantW int
		wantH int
	}{
		{desc: "in bounds", w: 640, h: 480, wantW: 640, wantH: 480},
		{desc: "exactly max", w: 800, h: 800, wantW: 800, wantH: 800},
		{desc: "landscape", w: 1000, h: 500, wantW: 800, wantH: 400},
		{desc: "portrait", w: 500, h: 1000, wantW: 400, wantH: 800},
		{desc: "square", w: 1600, h: 1600, wantW: 800, wantH: 800},
		{desc: "rounding", w: 1001, h: 333, wantW: 800, wantH: 266},
		{desc: "rounding up", w: 3000, h: 1001, wantW: 800, wantH: 267},
		{desc: "sliver", w: 10000, h: 3, wantW: 800, wantH: 1},
		{desc: "tall in bounds wide out", w: 801, h: 2, wantW: 800, wantH: 2},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			w, h := Dimensions(tC.w, tC.h, MaxDimension)
			require.Equal(t, tC.wantW, w)
			require.Equal(t, tC.wantH, h)
		})
	}
}

func TestDimensionsBoundsAndAspect(t *testing.T) {
	for w := 1; w < 3000; w += 97 {
		for h := 1; h < 3000; h += 89 {
			gw, gh := Dimensions(w, h, MaxDimension)
			require.LessOrEqual(t, gw, MaxDimension)
			require.LessOrEqual(t, gh, MaxDimension)
			require.LessOrEqual(t, gw, w, "never upscales")
			require.LessOrEqual(t, gh, h, "never upscales")
			if w > MaxDimension || h > MaxDimension {
				// aspect within one pixel of rounding on the short side
				if w > h {
					require.InDelta(t, float64(h)*float64(gw)/float64(w), float64(gh), 1)
				} else {
					require.InDelta(t, float64(w)*float64(gh)/float64(h), float64(gw), 1)
				}
			}
		}
	}
}

func TestFitPassthrough(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 20, 10))
	require.Same(t, img, Fit(img, MaxDimension))

	rgba := image.NewRGBA(image.Rect(0, 0, 20, 10))
	out := Fit(rgba, MaxDimension)
	require.Equal(t, image.Rect(0, 0, 20, 10), out.Bounds())
}

func TestFitDownscalesUniform(t *testing.T) {
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	img := imaging.New(1000, 500, gray)
	out := Fit(img, MaxDimension)
	require.Equal(t, image.Rect(0, 0, 800, 400), out.Bounds())
	for _, p := range []image.Point{{0, 0}, {400, 200}, {799, 399}} {
		require.Equal(t, gray, out.NRGBAAt(p.X, p.Y))
	}
}
