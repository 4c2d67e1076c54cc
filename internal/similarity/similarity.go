package similarity

import (
	"context"
	"image"

	"github.com/WIZARDISHUNGRY/visim/internal/logger"
	"github.com/corona10/goimagehash"
	"github.com/pkg/errors"
)

// DefaultDim is the hash side length; the hash has DefaultDim² bits.
const DefaultDim = 16

// Scorer measures how far images have drifted perceptually from a
// reference. It is safe for concurrent use.
type Scorer struct {
	dim int
	ref *goimagehash.ExtImageHash
}

func NewScorer(ref image.Image, dim int) (*Scorer, error) {
	hash, err := goimagehash.ExtPerceptionHash(ref, dim, dim)
	if err != nil {
		return nil, errors.Wrap(err, "goimagehash.ExtPerceptionHash")
	}
	return &Scorer{dim: dim, ref: hash}, nil
}

// Bits is the largest distance Distance can return.
func (s *Scorer) Bits() int {
	return s.dim * s.dim
}

// Distance is the Hamming distance between the perceptual hashes of img and
// the reference. Zero means indistinguishable at this resolution.
func (s *Scorer) Distance(ctx context.Context, img image.Image) (dist int, err error) {
	defer func() {
		logger.Entry(ctx).Tracef("similarity.Distance: %v %v", dist, err)
	}()
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	hash, err := goimagehash.ExtPerceptionHash(img, s.dim, s.dim)
	if err != nil {
		return 0, errors.Wrap(err, "goimagehash.ExtPerceptionHash")
	}
	dist, err = s.ref.Distance(hash)
	if err != nil {
		return 0, errors.Wrap(err, "hash.Distance")
	}
	return dist, nil
}
