package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"ocrdoc/internal/document"
	"ocrdoc/internal/model"
	"ocrdoc/internal/service"
)

// healthTimeout bounds the engine readiness probe.
const healthTimeout = 5 * time.Second

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, log logrus.FieldLogger, ocrSvc service.OCRService, exportSvc service.ExportService) {
	app.Get("/health", HealthCheck(log, ocrSvc))
	app.Get("/healthz", LivenessProbe())

	app.Post("/process-image", ProcessImage(log, ocrSvc))
	app.Post("/download-docx", DownloadDocx(log, exportSvc))
}

// HealthCheck reports whether the OCR engine can load every configured language.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200 {object} map[string]string
// @Failure  503 {object} errorPayload
// @Router   /health [get]
func HealthCheck(log logrus.FieldLogger, ocrSvc service.OCRService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := ocrSvc.Ready(ctx); err != nil {
			return respondError(c, log, err)
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is serving.
//
// @Summary  Liveness probe
// @Tags     health
// @Success  200
// @Router   /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ProcessImage runs OCR over the uploaded image and returns text and statistics.
//
// @Summary  Extract text from an image
// @Tags     ocr
// @Accept   multipart/form-data
// @Produce  json
// @Param    file formData file true "Image (PNG, JPEG, GIF, BMP, TIFF, WebP)"
// @Success  200 {object} model.ExtractionResult
// @Failure  400 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /process-image [post]
func ProcessImage(log logrus.FieldLogger, ocrSvc service.OCRService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return respondError(c, log, service.ErrNoFile)
		}

		f, err := fh.Open()
		if err != nil {
			return respondError(c, log, fmt.Errorf("open upload: %w", err))
		}
		defer f.Close()

		res, err := ocrSvc.Extract(c.UserContext(), f)
		if err != nil {
			return respondError(c, log, err)
		}
		return c.JSON(res)
	}
}

// DownloadDocx packages the given text into extracted_text.docx.
//
// @Summary  Export text as a Word document
// @Tags     export
// @Accept   json
// @Produce  application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Param    request body model.ExportRequest true "Text to export"
// @Success  200 {file} binary
// @Failure  400 {object} errorPayload
// @Failure  500 {object} errorPayload
// @Router   /download-docx [post]
func DownloadDocx(log logrus.FieldLogger, exportSvc service.ExportService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := parseExportRequest(c.Body())
		if err != nil {
			return respondError(c, log, err)
		}

		data, err := exportSvc.Export(c.UserContext(), req.Text)
		if err != nil {
			return respondError(c, log, err)
		}

		c.Attachment(document.ExportFilename)
		c.Set(fiber.HeaderContentType, document.MIMEType)
		return c.Status(fiber.StatusOK).Send(data)
	}
}

// parseExportRequest accepts any JSON object. A missing or null text field
// means empty text; only an absent, unparseable or non-object body is rejected.
func parseExportRequest(body []byte) (model.ExportRequest, error) {
	var req model.ExportRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, service.ErrNoJSON
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return req, service.ErrNoJSON
	}

	if raw, ok := fields["text"]; ok {
		if err := json.Unmarshal(raw, &req.Text); err != nil {
			return req, service.ErrInvalidText
		}
	}
	return req, nil
}
