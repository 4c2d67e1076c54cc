package transform

import (
	"bytes"
	"image"
	"image/png"
	"sync"

	"github.com/disintegration/imaging"

	// decoders beyond imaging's defaults
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// decode reads any registered format and applies EXIF orientation, as
// browsers do when displaying a photo.
func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return img, nil
}

// encodeBuffers recycles the PNG encoder's scratch space across requests.
// Each Get hands out a buffer no other encode holds.
type encodeBuffers struct {
	pool sync.Pool
}

var _ png.EncoderBufferPool = (*encodeBuffers)(nil)

func (e *encodeBuffers) Get() *png.EncoderBuffer {
	if eb, ok := e.pool.Get().(*png.EncoderBuffer); ok {
		return eb
	}
	return new(png.EncoderBuffer)
}

func (e *encodeBuffers) Put(eb *png.EncoderBuffer) {
	e.pool.Put(eb)
}

// encoder writes lossless PNG so the per-pixel math is not requantized.
var encoder = png.Encoder{
	CompressionLevel: png.DefaultCompression,
	BufferPool:       &encodeBuffers{},
}

func encode(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := encoder.Encode(buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
