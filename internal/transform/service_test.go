package transform

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/WIZARDISHUNGRY/visim/internal/cvd"
	"github.com/WIZARDISHUNGRY/visim/internal/impairment"
	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func newService(t testing.TB, opts ...Option) *Service {
	s, err := New(opts...)
	require.NoError(t, err)
	return s
}

func encodePNG(t testing.TB, img image.Image) []byte {
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func decodePNG(t testing.TB, data []byte) *image.NRGBA {
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return imaging.Clone(img)
}

func noise(w, h int, seed int64) *image.NRGBA {
	r := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	r.Read(img.Pix)
	return img
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 90, A: 255})
		}
	}
	return img
}

func TestProtanopiaEndToEnd(t *testing.T) {
	gray := color.NRGBA{R: 128, G: 128, B: 128, A: 255}
	in := encodePNG(t, imaging.New(1000, 500, gray))

	out, err := newService(t).Transform(context.Background(), in, "protanopia")
	require.NoError(t, err)

	img := decodePNG(t, out)
	require.Equal(t, image.Rect(0, 0, 800, 400), img.Bounds())

	want := cvd.Simulate(gray, cvd.Protan, cvd.FullSeverity)
	// gray sits on the neutral axis, which every projection preserves
	require.InDelta(t, 128, int(want.R), 1)
	require.InDelta(t, 128, int(want.G), 1)
	require.InDelta(t, 128, int(want.B), 1)
	for _, p := range []image.Point{{0, 0}, {400, 200}, {799, 399}, {13, 377}} {
		require.Equal(t, want, img.NRGBAAt(p.X, p.Y), "pixel %v", p)
	}
}

func TestUnknownIsPassthrough(t *testing.T) {
	src := noise(30, 20, 1)
	out, err := newService(t).Transform(context.Background(), encodePNG(t, src), "unknown_string")
	require.NoError(t, err)
	require.Equal(t, src.Pix, decodePNG(t, out).Pix)
}

func TestMacularDegenerationIsPassthrough(t *testing.T) {
	src := noise(16, 16, 2)
	out, err := newService(t).Transform(context.Background(), encodePNG(t, src), "macular_degeneration")
	require.NoError(t, err)
	require.Equal(t, src.Pix, decodePNG(t, out).Pix)
}

func TestUnknownPassthroughResized(t *testing.T) {
	src := gradient(1600, 1200)
	out, err := newService(t).Transform(context.Background(), encodePNG(t, src), "no such thing")
	require.NoError(t, err)
	img := decodePNG(t, out)
	require.Equal(t, image.Rect(0, 0, 800, 600), img.Bounds())

	srcHash, err := goimagehash.ExtPerceptionHash(src, 8, 8)
	require.NoError(t, err)
	outHash, err := goimagehash.ExtPerceptionHash(img, 8, 8)
	require.NoError(t, err)
	dist, err := srcHash.Distance(outHash)
	require.NoError(t, err)
	require.LessOrEqual(t, dist, 2)
}

func TestEveryKindKeepsDimensions(t *testing.T) {
	src := encodePNG(t, gradient(900, 300))
	svc := newService(t, WithSeed(3))
	for _, k := range impairment.All() {
		t.Run(k.String(), func(t *testing.T) {
			out, err := svc.Transform(context.Background(), src, k.String())
			require.NoError(t, err)
			require.Equal(t, image.Rect(0, 0, 800, 267), decodePNG(t, out).Bounds())
		})
	}
}

func TestSeededRetinopathyIsReproducible(t *testing.T) {
	src := encodePNG(t, gradient(200, 100))
	a, err := newService(t, WithSeed(5)).Transform(context.Background(), src, "diabetic_retinopathy")
	require.NoError(t, err)
	b, err := newService(t, WithSeed(5)).Transform(context.Background(), src, "diabetic_retinopathy")
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestTransformImageLeavesInputAlone(t *testing.T) {
	src := noise(40, 40, 9)
	orig := append([]uint8(nil), src.Pix...)
	for _, k := range []impairment.Kind{impairment.Protanopia, impairment.Glaucoma, impairment.Unknown} {
		out, err := newService(t).TransformImage(context.Background(), src, k)
		require.NoError(t, err)
		require.NotSame(t, src, out)
	}
	require.Equal(t, orig, src.Pix)
}

func TestErrors(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Transform(ctx, nil, "glaucoma")
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = svc.TransformImage(ctx, nil, impairment.Glaucoma)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = svc.TransformImage(ctx, (*image.NRGBA)(nil), impairment.Glaucoma)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = svc.Transform(ctx, []byte("definitely not an image"), "glaucoma")
	var decodeErr *DecodeError
	require.True(t, errors.As(err, &decodeErr), "got %v", err)
	require.Error(t, errors.Cause(err))

	_, err = svc.TransformImage(ctx, image.NewNRGBA(image.Rect(0, 0, 0, 10)), impairment.Glaucoma)
	var dimErr *UnsupportedDimensionError
	require.True(t, errors.As(err, &dimErr), "got %v", err)
	require.Equal(t, 0, dimErr.Width)
	require.Equal(t, 10, dimErr.Height)
}

func TestTransformCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := newService(t).Transform(ctx, encodePNG(t, noise(64, 64, 4)), "cataracts")
	require.ErrorIs(t, err, context.Canceled)
	require.Nil(t, out)
}

func TestOptions(t *testing.T) {
	_, err := New(WithMaxDimension(0))
	require.Error(t, err)
	_, err = New(WithRandFactory(nil))
	require.Error(t, err)

	svc := newService(t, WithMaxDimension(50))
	out, err := svc.TransformImage(context.Background(), noise(100, 80, 1), impairment.HighMyopia)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 50, 40), out.Bounds())
}

func BenchmarkTransform(b *testing.B) {
	src := encodePNG(b, gradient(1600, 1200))
	svc := newService(b)
	ctx := context.Background()
	for _, k := range impairment.Selectable() {
		b.Run(k.String(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := svc.Transform(ctx, src, k.String()); err != nil {
					b.Fatalf("Transform: %v", err)
				}
			}
		})
	}
}
