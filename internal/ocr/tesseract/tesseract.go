// Package tesseract implements ocr.Engine on top of libtesseract through
// gosseract. Building it requires the tesseract and leptonica headers.
package tesseract

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"ocrdoc/internal/imaging"
	"ocrdoc/internal/ocr"
)

// Engine is a tesseract-backed ocr.Engine. Each recognition gets its own
// client, so an Engine can be shared across requests.
type Engine struct {
	tessdataPrefix string
	clientFactory  func() *gosseract.Client
}

var _ ocr.Engine = (*Engine)(nil)

// New returns an Engine. An empty tessdataPrefix keeps the library default.
func New(tessdataPrefix string) *Engine {
	return &Engine{tessdataPrefix: tessdataPrefix, clientFactory: gosseract.NewClient}
}

func (e *Engine) Name() string { return "tesseract" }

// Version reports the linked libtesseract version.
func (e *Engine) Version() string { return gosseract.Version() }

// Recognize runs tesseract over img with langs loaded together.
func (e *Engine) Recognize(ctx context.Context, img image.Image, langs []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := imaging.EncodePNG(img)
	if err != nil {
		return "", err
	}

	c := e.clientFactory()
	defer c.Close()
	// keep tesseract's trailing newlines; char_count is computed on the raw text
	c.Trim = false

	if e.tessdataPrefix != "" {
		if err := c.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			return "", fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if len(langs) > 0 {
		if err := c.SetLanguage(langs...); err != nil {
			return "", fmt.Errorf("set languages %s: %w", ocr.LanguageSpec(langs), err)
		}
	}
	if err := c.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// Ping initializes the engine with langs against a blank page, which fails
// when any trained data file is missing.
func (e *Engine) Ping(ctx context.Context, langs []string) error {
	blank := image.NewGray(image.Rect(0, 0, 32, 32))
	for i := range blank.Pix {
		blank.Pix[i] = 0xff
	}
	_, err := e.Recognize(ctx, blank, langs)
	return err
}
