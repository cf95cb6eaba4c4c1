package ocr

import (
	"context"
	"image"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "ocrdoc/internal/ocr"

// instrumented records a span and a duration observation per recognition.
type instrumented struct {
	Engine
	tracer   trace.Tracer
	duration *prometheus.HistogramVec
}

// Instrument wraps next with tracing and an ocr_recognition_duration_seconds
// histogram registered on reg.
func Instrument(next Engine, reg prometheus.Registerer) (Engine, error) {
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ocr_recognition_duration_seconds",
			Help:    "Time spent recognizing text in a single image.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"engine", "outcome"},
	)
	if err := reg.Register(duration); err != nil {
		return nil, err
	}
	return &instrumented{
		Engine:   next,
		tracer:   otel.Tracer(tracerName),
		duration: duration,
	}, nil
}

func (i *instrumented) Recognize(ctx context.Context, img image.Image, langs []string) (string, error) {
	ctx, span := i.tracer.Start(ctx, "ocr.recognize", trace.WithAttributes(
		attribute.String("ocr.engine", i.Name()),
		attribute.String("ocr.languages", LanguageSpec(langs)),
	))
	defer span.End()
	if img != nil {
		b := img.Bounds()
		span.SetAttributes(attribute.Int("image.width", b.Dx()), attribute.Int("image.height", b.Dy()))
	}

	start := time.Now()
	text, err := i.Engine.Recognize(ctx, img, langs)
	outcome := "success"
	if err != nil {
		outcome = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, "recognition failed")
	} else {
		span.SetAttributes(attribute.Int("ocr.text_length", len(text)))
	}
	i.duration.WithLabelValues(i.Name(), outcome).Observe(time.Since(start).Seconds())
	return text, err
}
