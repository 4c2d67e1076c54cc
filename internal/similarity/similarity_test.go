package similarity

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"
)

func checker(w, h, cell int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{A: 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDistance(t *testing.T) {
	ctx := context.Background()
	ref := checker(128, 128, 32)
	s, err := NewScorer(ref, DefaultDim)
	require.NoError(t, err)
	require.Equal(t, 256, s.Bits())

	dist, err := s.Distance(ctx, imaging.Clone(ref))
	require.NoError(t, err)
	require.Zero(t, dist)

	dist, err = s.Distance(ctx, imaging.Invert(ref))
	require.NoError(t, err)
	require.Greater(t, dist, 0)
	require.LessOrEqual(t, dist, s.Bits())
}

func TestDistanceCanceled(t *testing.T) {
	s, err := NewScorer(checker(32, 32, 8), DefaultDim)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Distance(ctx, checker(32, 32, 8))
	require.ErrorIs(t, err, context.Canceled)
}
