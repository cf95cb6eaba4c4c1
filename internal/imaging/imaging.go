// Package imaging turns uploaded bytes into an in-memory bitmap and back.
//
// PNG, JPEG and GIF decoders come from the standard library; BMP, TIFF and
// WebP are registered from golang.org/x/image.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrEmpty is returned for a zero-length upload.
	ErrEmpty = errors.New("image data is empty")
	// ErrUnsupportedFormat is returned when the content is not a raster image.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrCorrupt is returned when the content looks like an image but cannot be decoded.
	ErrCorrupt = errors.New("corrupt image data")
	// ErrTooLarge is returned when the declared dimensions exceed the pixel limit.
	ErrTooLarge = errors.New("image dimensions exceed limit")
)

// DefaultMaxPixels bounds width*height of decoded images, about 89.5 megapixels.
const DefaultMaxPixels = 89478485

// Decode is DecodeWithLimit with DefaultMaxPixels.
func Decode(data []byte) (image.Image, string, error) {
	return DecodeWithLimit(data, DefaultMaxPixels)
}

// DecodeWithLimit sniffs and decodes data into a bitmap. The header is read
// first and images declaring more than maxPixels pixels are rejected before
// any pixel buffer is allocated. maxPixels <= 0 selects DefaultMaxPixels.
// The returned format is the registered decoder name (png, jpeg, bmp, ...).
func DecodeWithLimit(data []byte, maxPixels int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmpty
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", decodeErr(err, mt)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: %dx%d", ErrCorrupt, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return nil, "", fmt.Errorf("%w: %dx%d > %d pixels", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", decodeErr(err, mt)
	}
	return img, format, nil
}

func decodeErr(err error, mt *mimetype.MIME) error {
	if errors.Is(err, image.ErrFormat) {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, mt.String())
	}
	return fmt.Errorf("%w: %v", ErrCorrupt, err)
}

// EncodePNG serializes img losslessly for engines that take encoded bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, ErrEmpty
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
