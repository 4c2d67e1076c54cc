package cvd

import (
	"context"
	"image"
	"image/color"

	"github.com/WIZARDISHUNGRY/visim/internal/colorspace"
	"github.com/WIZARDISHUNGRY/visim/internal/parallel"
)

const (
	// FullSeverity simulates dichromacy.
	FullSeverity = 1.0
	// AnomalousSeverity simulates anomalous trichromacy.
	AnomalousSeverity = 0.6
)

// Project returns the full dichromat projection of a linear RGB color. The
// side of the separation plane picks which half-plane matrix applies.
func Project(lin [3]float64, d Deficiency) [3]float64 {
	p := &brettelParams[d]
	n := p.SeparationPlaneNormal
	dot := lin[0]*n[0] + lin[1]*n[1] + lin[2]*n[2]
	if dot >= 0 {
		return p.CVDFromRGB1.MulVec(lin)
	}
	return p.CVDFromRGB2.MulVec(lin)
}

// SimulateLinear interpolates between lin and its dichromat projection.
// The result may leave [0,1]; callers clamp when encoding.
func SimulateLinear(lin [3]float64, d Deficiency, severity float64) [3]float64 {
	cvd := Project(lin, d)
	for i := range cvd {
		cvd[i] = cvd[i]*severity + lin[i]*(1-severity)
	}
	return cvd
}

// Simulate maps one sRGB pixel. Alpha is passed through.
func Simulate(c color.NRGBA, d Deficiency, severity float64) color.NRGBA {
	r, g, b := colorspace.SRGBFromLinearRGB(SimulateLinear(colorspace.LinearRGB(c), d, severity))
	return color.NRGBA{R: r, G: g, B: b, A: c.A}
}

// SimulateImage rewrites every pixel inside img.Bounds() in place, so a
// SubImage touches only its own rectangle.
func SimulateImage(ctx context.Context, img *image.NRGBA, d Deficiency, severity float64) error {
	b := img.Bounds()
	width := b.Dx()
	return parallel.Rows(ctx, b.Dy(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			off := img.PixOffset(b.Min.X, b.Min.Y+y)
			row := img.Pix[off : off+width*4]
			for i := 0; i < len(row); i += 4 {
				c := Simulate(color.NRGBA{R: row[i], G: row[i+1], B: row[i+2], A: row[i+3]}, d, severity)
				row[i], row[i+1], row[i+2] = c.R, c.G, c.B
			}
		}
	})
}
