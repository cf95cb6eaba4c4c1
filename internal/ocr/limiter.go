package ocr

import (
	"context"
	"image"

	"golang.org/x/sync/semaphore"
)

// limited bounds the number of in-flight recognitions of the wrapped engine.
type limited struct {
	Engine
	sem *semaphore.Weighted
}

// WithConcurrencyLimit wraps next so that at most max recognitions run at once.
// A max of zero or less returns next unchanged.
func WithConcurrencyLimit(next Engine, max int64) Engine {
	if max <= 0 {
		return next
	}
	return &limited{Engine: next, sem: semaphore.NewWeighted(max)}
}

// Recognize waits for a slot, honouring ctx, before delegating.
func (l *limited) Recognize(ctx context.Context, img image.Image, langs []string) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.sem.Release(1)
	return l.Engine.Recognize(ctx, img, langs)
}
