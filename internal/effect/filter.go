package effect

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/samber/lo"
)

type FilterKind int

const (
	FilterBrightness FilterKind = iota
	FilterContrast
	FilterSepia
	FilterBlur
)

// Filter is one step of a filter chain. Amount is a fraction for the color
// filters (0.85 for 85%) and a standard deviation in pixels for blur.
type Filter struct {
	Kind   FilterKind
	Amount float64
}

func Brightness(a float64) Filter { return Filter{Kind: FilterBrightness, Amount: a} }
func Contrast(a float64) Filter   { return Filter{Kind: FilterContrast, Amount: a} }
func Sepia(a float64) Filter      { return Filter{Kind: FilterSepia, Amount: a} }
func Blur(px float64) Filter      { return Filter{Kind: FilterBlur, Amount: px} }

func (f Filter) String() string {
	switch f.Kind {
	case FilterBrightness:
		return fmt.Sprintf("brightness(%g%%)", f.Amount*100)
	case FilterContrast:
		return fmt.Sprintf("contrast(%g%%)", f.Amount*100)
	case FilterSepia:
		return fmt.Sprintf("sepia(%g%%)", f.Amount*100)
	case FilterBlur:
		return fmt.Sprintf("blur(%gpx)", f.Amount)
	}
	return fmt.Sprintf("Filter(%d)", f.Kind)
}

// apply maps a color with components in [0,1]. Every step clamps.
func (f Filter) apply(c [3]float64) [3]float64 {
	switch f.Kind {
	case FilterBrightness:
		for i := range c {
			c[i] *= f.Amount
		}
	case FilterContrast:
		for i := range c {
			c[i] = (c[i]-0.5)*f.Amount + 0.5
		}
	case FilterSepia:
		a := 1 - lo.Clamp(f.Amount, 0, 1)
		r, g, b := c[0], c[1], c[2]
		c[0] = (0.393+0.607*a)*r + (0.769-0.769*a)*g + (0.189-0.189*a)*b
		c[1] = (0.349-0.349*a)*r + (0.686+0.314*a)*g + (0.168-0.168*a)*b
		c[2] = (0.272-0.272*a)*r + (0.534-0.534*a)*g + (0.131+0.869*a)*b
	}
	for i := range c {
		c[i] = lo.Clamp(c[i], 0, 1)
	}
	return c
}

func toByte(v float64) uint8 {
	return uint8(math.Round(lo.Clamp(v, 0, 255)))
}

// render returns a new image holding src seen through filters, applied in
// order. Runs of color filters are evaluated in float and quantized once.
func render(src *image.NRGBA, filters []Filter) *image.NRGBA {
	dst := src
	var pending []Filter
	flush := func() {
		if len(pending) == 0 {
			return
		}
		chain := pending
		pending = nil
		dst = imaging.AdjustFunc(dst, func(c color.NRGBA) color.NRGBA {
			v := [3]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255}
			for _, f := range chain {
				v = f.apply(v)
			}
			return color.NRGBA{R: toByte(v[0] * 255), G: toByte(v[1] * 255), B: toByte(v[2] * 255), A: c.A}
		})
	}
	for _, f := range filters {
		if f.Kind != FilterBlur {
			pending = append(pending, f)
			continue
		}
		flush()
		dst = imaging.Blur(dst, f.Amount)
	}
	flush()
	if dst == src {
		dst = imaging.Clone(src)
	}
	return dst
}
