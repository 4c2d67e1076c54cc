package colorspace

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// linearTable holds the linear value of every 8 bit sRGB level.
var linearTable [256]float64

func init() {
	for i := range linearTable {
		r, _, _ := colorful.Color{R: float64(i) / 255}.LinearRgb()
		linearTable[i] = r
	}
}

// LinearFromSRGB removes the sRGB gamma from an 8 bit channel value.
func LinearFromSRGB(v uint8) float64 {
	return linearTable[v]
}

// SRGBFromLinear gamma encodes a linear channel value. Values outside [0,1]
// saturate to 0 or 255, so any linear result is representable.
func SRGBFromLinear(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	r, _, _ := colorful.LinearRgb(v, 0, 0).Clamped().RGB255()
	return r
}

// LinearRGB returns the linear components of c, ignoring alpha.
func LinearRGB(c color.NRGBA) [3]float64 {
	return [3]float64{linearTable[c.R], linearTable[c.G], linearTable[c.B]}
}

func SRGBFromLinearRGB(v [3]float64) (r, g, b uint8) {
	return SRGBFromLinear(v[0]), SRGBFromLinear(v[1]), SRGBFromLinear(v[2])
}
