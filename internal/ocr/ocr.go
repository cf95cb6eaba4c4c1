// Package ocr defines the contract for optical character recognition engines
// and the decorators that bound and observe them.
package ocr

import (
	"context"
	"image"
	"strings"
)

// Languages is the recognition set, in the order the engine loads its
// trained data: English, Hindi, Sanskrit, Marathi, Tamil, Punjabi, Japanese.
var Languages = []string{"eng", "hin", "san", "mar", "tam", "pan", "jpn"}

// LanguageSpec joins langs the way tesseract expects them ("eng+hin+...").
func LanguageSpec(langs []string) string {
	return strings.Join(langs, "+")
}

// Engine recognizes text in a decoded bitmap.
// Implementations must be safe for concurrent use.
type Engine interface {
	// Name identifies the engine in logs and metrics.
	Name() string
	// Recognize returns the plain text found in img using the given languages.
	Recognize(ctx context.Context, img image.Image, langs []string) (string, error)
	// Ping reports whether the engine can serve recognitions with langs.
	Ping(ctx context.Context, langs []string) error
}
