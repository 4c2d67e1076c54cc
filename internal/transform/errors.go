package transform

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyInput is returned when no image was supplied.
var ErrEmptyInput = errors.New("no image provided")

// DecodeError reports input bytes that are not a supported raster image.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode image: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }
func (e *DecodeError) Cause() error  { return e.Err }

// UnsupportedDimensionError reports an image with zero area.
type UnsupportedDimensionError struct {
	Width, Height int
}

func (e *UnsupportedDimensionError) Error() string {
	return fmt.Sprintf("unsupported image dimensions %dx%d", e.Width, e.Height)
}
