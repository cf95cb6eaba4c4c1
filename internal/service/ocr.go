package service

import (
	"context"
	"fmt"
	"io"

	"ocrdoc/internal/imaging"
	"ocrdoc/internal/model"
	"ocrdoc/internal/ocr"
	"ocrdoc/internal/textstats"
)

// OCRService extracts text and statistics from uploaded images.
type OCRService interface {
	// Extract reads an image from r, recognizes its text and computes statistics.
	// Undecodable input yields a *DecodeError; engine failures an *EngineError.
	Extract(ctx context.Context, r io.Reader) (*model.ExtractionResult, error)

	// Ready reports whether the OCR engine can serve the configured languages.
	Ready(ctx context.Context) error
}

type ocrService struct {
	engine    ocr.Engine
	langs     []string
	maxPixels int
}

// OCROption configures an OCRService.
type OCROption func(*ocrService)

// WithMaxImagePixels rejects uploads whose declared width*height exceeds n.
func WithMaxImagePixels(n int) OCROption {
	return func(s *ocrService) { s.maxPixels = n }
}

// NewOCRService constructs an OCRService recognizing with langs.
func NewOCRService(engine ocr.Engine, langs []string, opts ...OCROption) OCRService {
	s := &ocrService{engine: engine, langs: langs, maxPixels: imaging.DefaultMaxPixels}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ocrService) Extract(ctx context.Context, r io.Reader) (*model.ExtractionResult, error) {
	if r == nil {
		return nil, ErrNoFile
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	img, _, err := imaging.DecodeWithLimit(data, s.maxPixels)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	text, err := s.engine.Recognize(ctx, img, s.langs)
	if err != nil {
		return nil, &EngineError{Op: OpRecognize, Err: err}
	}

	return &model.ExtractionResult{
		Text:  text,
		Stats: textstats.Compute(text),
	}, nil
}

func (s *ocrService) Ready(ctx context.Context) error {
	if err := s.engine.Ping(ctx, s.langs); err != nil {
		return &EngineError{Op: OpPing, Err: err}
	}
	return nil
}
