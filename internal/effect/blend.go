package effect

import (
	"context"
	"fmt"
	"image"

	"github.com/WIZARDISHUNGRY/visim/internal/parallel"
	"github.com/samber/lo"
)

// Blend is the compositing operator used when a pass's layer is drawn onto
// the canvas.
type Blend int

const (
	// Copy replaces canvas pixels.
	Copy Blend = iota
	// SourceOver is normal alpha compositing: S + D*(1-Sa).
	SourceOver
	// Lighter adds source and destination, saturating at white: S + D.
	Lighter
)

func (b Blend) String() string {
	switch b {
	case Copy:
		return "copy"
	case SourceOver:
		return "source-over"
	case Lighter:
		return "lighter"
	}
	return fmt.Sprintf("Blend(%d)", int(b))
}

// composite draws layer onto canvas. Both buffers are non-premultiplied and
// the same size; the math is done premultiplied.
func composite(ctx context.Context, canvas, layer *image.NRGBA, mode Blend) error {
	if mode == Copy {
		copy(canvas.Pix, layer.Pix)
		return nil
	}
	width := canvas.Bounds().Dx()
	return parallel.Rows(ctx, canvas.Bounds().Dy(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			d := canvas.Pix[y*canvas.Stride : y*canvas.Stride+width*4]
			s := layer.Pix[y*layer.Stride : y*layer.Stride+width*4]
			for i := 0; i < len(d); i += 4 {
				blendPixel(d[i:i+4:i+4], s[i:i+4:i+4], mode)
			}
		}
	})
}

func blendPixel(d, s []uint8, mode Blend) {
	sa := float64(s[3]) / 255
	da := float64(d[3]) / 255

	var outA float64
	var out [3]float64
	switch mode {
	case SourceOver:
		outA = sa + da*(1-sa)
		for i := 0; i < 3; i++ {
			out[i] = float64(s[i])*sa + float64(d[i])*da*(1-sa)
		}
	case Lighter:
		outA = lo.Clamp(sa+da, 0, 1)
		for i := 0; i < 3; i++ {
			out[i] = lo.Clamp(float64(s[i])*sa+float64(d[i])*da, 0, 255)
		}
	}
	if outA == 0 {
		d[0], d[1], d[2], d[3] = 0, 0, 0, 0
		return
	}
	for i := 0; i < 3; i++ {
		d[i] = toByte(out[i] / outA)
	}
	d[3] = toByte(outA * 255)
}
