package effect

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"
	"strings"

	"github.com/WIZARDISHUNGRY/visim/internal/impairment"
	"github.com/WIZARDISHUNGRY/visim/internal/logger"
	"github.com/WIZARDISHUNGRY/visim/internal/parallel"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

// Op selects what a Pass does.
type Op int

const (
	// OpDraw renders the original source through Filters and composites
	// the result onto the canvas with Blend.
	OpDraw Op = iota
	// OpHaze moves every channel toward white by Amount. OpHaze, OpTint and
	// OpVignette edit the canvas in place and take no Blend.
	OpHaze
	// OpTint moves red and green toward 255 by Amount. Blue is left alone.
	OpTint
	// OpVignette multiplies RGB by Amount - d/maxRadius.
	OpVignette
	// OpSpots fills randomly placed circles with Blend.
	OpSpots
)

var opNames = [...]string{
	OpDraw:     "draw",
	OpHaze:     "haze",
	OpTint:     "tint",
	OpVignette: "vignette",
	OpSpots:    "spots",
}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opNames) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opNames[o]
}

// Pass is one step of an effect recipe. A recipe is an ordered []Pass;
// each pass completes before the next one reads the canvas.
type Pass struct {
	Op      Op
	Filters []Filter
	Amount  float64
	Spots   Spots
	// Blend is read by OpDraw and OpSpots. In place ops require Copy, the
	// zero value.
	Blend Blend
}

func (p Pass) String() string {
	switch p.Op {
	case OpDraw:
		fs := make([]string, len(p.Filters))
		for i, f := range p.Filters {
			fs[i] = f.String()
		}
		return fmt.Sprintf("draw[%s] %s", strings.Join(fs, " "), p.Blend)
	case OpSpots:
		return fmt.Sprintf("spots[%d r=%g..%g] %s", p.Spots.Count, p.Spots.MinRadius, p.Spots.MaxRadius, p.Blend)
	}
	return fmt.Sprintf("%s(%g)", p.Op, p.Amount)
}

func Glaucoma() []Pass {
	return []Pass{
		{Op: OpVignette, Amount: 1.3},
	}
}

func Cataracts() []Pass {
	return []Pass{
		{Op: OpDraw, Filters: []Filter{Brightness(0.85), Contrast(0.85), Sepia(0.2), Blur(1)}, Blend: SourceOver},
		{Op: OpHaze, Amount: 0.3},
		{Op: OpTint, Amount: 0.15},
		// bloom
		{Op: OpDraw, Filters: []Filter{Blur(5), Brightness(0.5)}, Blend: Lighter},
	}
}

func DiabeticRetinopathy() []Pass {
	return []Pass{
		{Op: OpDraw, Filters: []Filter{Contrast(1.2), Brightness(0.9)}, Blend: SourceOver},
		{Op: OpSpots, Spots: Spots{Count: 20, MinRadius: 2, MaxRadius: 7, Color: color.NRGBA{A: 128}}, Blend: SourceOver},
	}
}

func HighMyopia() []Pass {
	return []Pass{
		{Op: OpDraw, Filters: []Filter{Blur(2), Brightness(0.9)}, Blend: SourceOver},
	}
}

// ForKind returns the recipe for k. Kinds without an effect, including
// MacularDegeneration, report false and are passed through by the caller.
func ForKind(k impairment.Kind) ([]Pass, bool) {
	switch k {
	case impairment.Glaucoma:
		return Glaucoma(), true
	case impairment.Cataracts:
		return Cataracts(), true
	case impairment.DiabeticRetinopathy:
		return DiabeticRetinopathy(), true
	case impairment.HighMyopia:
		return HighMyopia(), true
	}
	return nil, false
}

// Apply runs passes over a canvas that starts as a copy of src and returns
// the canvas. src is not modified. rng is only consulted by OpSpots.
func Apply(ctx context.Context, src *image.NRGBA, passes []Pass, rng *rand.Rand) (*image.NRGBA, error) {
	log := logger.Entry(ctx)
	canvas := imaging.Clone(src)
	for i, p := range passes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.WithField("pass", i).Tracef("effect pass %s", p)
		if err := apply(ctx, canvas, src, p, rng); err != nil {
			return nil, errors.Wrapf(err, "pass %d (%s)", i, p.Op)
		}
	}
	return canvas, nil
}

func apply(ctx context.Context, canvas, src *image.NRGBA, p Pass, rng *rand.Rand) error {
	switch p.Op {
	case OpHaze, OpTint, OpVignette:
		if p.Blend != Copy {
			return errors.Errorf("%s edits in place, got blend %s", p.Op, p.Blend)
		}
	}
	switch p.Op {
	case OpDraw:
		return composite(ctx, canvas, render(src, p.Filters), p.Blend)
	case OpHaze:
		return mapPixels(ctx, canvas, func(x, y int, c []uint8) {
			for i := 0; i < 3; i++ {
				c[i] = toByte(float64(c[i])*(1-p.Amount) + 255*p.Amount)
			}
		})
	case OpTint:
		return mapPixels(ctx, canvas, func(x, y int, c []uint8) {
			for i := 0; i < 2; i++ {
				c[i] = toByte(float64(c[i]) + (255-float64(c[i]))*p.Amount)
			}
		})
	case OpVignette:
		b := canvas.Bounds()
		cx, cy := float64(b.Dx())/2, float64(b.Dy())/2
		maxRadius := math.Min(cx, cy)
		return mapPixels(ctx, canvas, func(x, y int, c []uint8) {
			strength := VignetteStrength(p.Amount, math.Hypot(float64(x)-cx, float64(y)-cy), maxRadius)
			for i := 0; i < 3; i++ {
				c[i] = toByte(float64(c[i]) * strength)
			}
		})
	case OpSpots:
		if rng == nil {
			return errors.New("spots need a random source")
		}
		if p.Blend != SourceOver {
			return errors.Errorf("spots only support %s, got %s", SourceOver, p.Blend)
		}
		b := canvas.Bounds()
		fillCircles(canvas, PlaceSpots(rng, b.Dx(), b.Dy(), p.Spots), p.Spots.Color)
		return nil
	}
	return errors.Errorf("unknown op %d", p.Op)
}

// VignetteStrength is the RGB multiplier at distance d from the center.
// It is base at the center and base-1 at maxRadius, and keeps falling
// beyond it; the caller saturates the scaled channel to [0,255].
func VignetteStrength(base, d, maxRadius float64) float64 {
	return base - d/maxRadius
}

// mapPixels edits canvas in place, one RGBA quadruple at a time.
func mapPixels(ctx context.Context, canvas *image.NRGBA, fn func(x, y int, c []uint8)) error {
	width := canvas.Bounds().Dx()
	return parallel.Rows(ctx, canvas.Bounds().Dy(), func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			row := canvas.Pix[y*canvas.Stride : y*canvas.Stride+width*4]
			for x := 0; x < width; x++ {
				fn(x, y, row[x*4:x*4+4:x*4+4])
			}
		}
	})
}
