package transform

import (
	"context"
	"image"
	"math/rand"
	"time"

	"github.com/WIZARDISHUNGRY/visim/internal/cvd"
	"github.com/WIZARDISHUNGRY/visim/internal/effect"
	"github.com/WIZARDISHUNGRY/visim/internal/impairment"
	"github.com/WIZARDISHUNGRY/visim/internal/logger"
	"github.com/WIZARDISHUNGRY/visim/internal/resize"
	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Service turns an image and an impairment into the simulated image. It
// holds no per-request state and is safe for concurrent use.
type Service struct {
	maxDimension int
	newRand      func() *rand.Rand
}

type Option func(s *Service) error

func New(opts ...Option) (*Service, error) {
	s := &Service{
		maxDimension: resize.MaxDimension,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// WithSeed makes every request draw its random elements from a fresh
// generator seeded with seed, so output is reproducible. A zero seed keeps
// the default time seeded generator.
func WithSeed(seed int64) Option {
	return func(s *Service) error {
		if seed == 0 {
			return nil
		}
		s.newRand = func() *rand.Rand { return rand.New(rand.NewSource(seed)) }
		return nil
	}
}

// WithRandFactory supplies the generator for each request. f is called once
// per request and the result is not shared.
func WithRandFactory(f func() *rand.Rand) Option {
	return func(s *Service) error {
		if f == nil {
			return errors.New("nil rand factory")
		}
		s.newRand = f
		return nil
	}
}

func WithMaxDimension(max int) Option {
	return func(s *Service) error {
		if max <= 0 {
			return errors.Errorf("max dimension must be positive, got %d", max)
		}
		s.maxDimension = max
		return nil
	}
}

// Transform decodes data, simulates the impairment named by id and returns
// the result as PNG. Unrecognized ids pass the (resized) image through.
func (s *Service) Transform(ctx context.Context, data []byte, id string) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	kind := impairment.Parse(id)
	ctx, log := logger.WithFields(ctx, logrus.Fields{"kind": kind.String()})
	if kind == impairment.Unknown {
		log.WithField("id", id).Debug("unrecognized impairment, passing through")
	}

	start := time.Now()
	img, err := decode(data)
	if err != nil {
		return nil, err
	}
	log.WithField("elapsed", time.Since(start)).Trace("decoded")

	out, err := s.TransformImage(ctx, img, kind)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	encoded, err := encode(out)
	if err != nil {
		return nil, errors.Wrap(err, "encode")
	}
	log.WithField("elapsed", time.Since(start)).WithField("bytes", len(encoded)).Trace("encoded")
	return encoded, nil
}

// TransformImage resizes img and applies kind. img is never modified; the
// returned image is owned by the caller.
func (s *Service) TransformImage(ctx context.Context, img image.Image, kind impairment.Kind) (*image.NRGBA, error) {
	// also catches a nil pointer such as (*image.NRGBA)(nil)
	if lo.IsNil(img) {
		return nil, ErrEmptyInput
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, &UnsupportedDimensionError{Width: b.Dx(), Height: b.Dy()}
	}
	log := logger.Entry(ctx)

	start := time.Now()
	resized := resize.Fit(img, s.maxDimension)
	if resized == img {
		// keep the caller's buffer intact for the in-place stages
		resized = imaging.Clone(resized)
	}
	rb := resized.Bounds()
	log = log.WithFields(logrus.Fields{"width": rb.Dx(), "height": rb.Dy()})
	log.WithField("elapsed", time.Since(start)).Debug("resized")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start = time.Now()
	defer func() {
		log.WithField("elapsed", time.Since(start)).Debug("simulated")
	}()

	switch kind.Route() {
	case impairment.Dichromacy:
		d, severity, _ := kind.Dichromacy()
		if err := cvd.SimulateImage(ctx, resized, d, severity); err != nil {
			return nil, errors.Wrap(err, "dichromacy")
		}
		return resized, nil
	case impairment.Effect:
		passes, _ := effect.ForKind(kind)
		out, err := effect.Apply(ctx, resized, passes, s.newRand())
		if err != nil {
			return nil, errors.Wrap(err, kind.String())
		}
		return out, nil
	}
	if kind == impairment.MacularDegeneration {
		log.Warn("macular degeneration has no effect yet, passing through")
	}
	return resized, nil
}
