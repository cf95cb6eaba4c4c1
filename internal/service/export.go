package service

import (
	"bytes"
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"ocrdoc/internal/document"
)

// ExportService packages text into a downloadable document.
type ExportService interface {
	// Export renders text under the export title and returns the serialized
	// document. On failure no bytes are returned.
	Export(ctx context.Context, text string) ([]byte, error)
}

type exportService struct {
	writer document.Writer
}

// NewExportService constructs an ExportService using writer for serialization.
func NewExportService(writer document.Writer) ExportService {
	return &exportService{writer: writer}
}

func (s *exportService) Export(ctx context.Context, text string) ([]byte, error) {
	_, span := otel.Tracer("ocrdoc/internal/service").Start(ctx, "document.export")
	defer span.End()
	span.SetAttributes(attribute.Int("document.text_length", len(text)))

	var buf bytes.Buffer
	if err := s.writer.Write(&buf, document.ExportBlocks(text)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "serialization failed")
		return nil, &EngineError{Op: OpSerialize, Err: err}
	}
	span.SetAttributes(attribute.Int("document.size_bytes", buf.Len()))
	return buf.Bytes(), nil
}
