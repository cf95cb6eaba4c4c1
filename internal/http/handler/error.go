package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"ocrdoc/internal/http/middleware"
	"ocrdoc/internal/service"
)

// errorPayload is the error response body shared by every endpoint.
type errorPayload struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response. message must be safe to show to
// clients; internal causes are logged, never returned.
func writeError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(errorPayload{Error: message})
}

// statusFor maps service errors to an HTTP status and client message.
func statusFor(err error) (int, string) {
	var decodeErr *service.DecodeError
	var engineErr *service.EngineError

	switch {
	case errors.Is(err, service.ErrNoFile):
		return fiber.StatusBadRequest, "No file uploaded"
	case errors.Is(err, service.ErrNoJSON):
		return fiber.StatusBadRequest, "No JSON data provided"
	case errors.Is(err, service.ErrInvalidText):
		return fiber.StatusBadRequest, "Field text must be a string"
	case errors.As(err, &decodeErr):
		return fiber.StatusBadRequest, "Invalid image file"
	case errors.As(err, &engineErr):
		switch engineErr.Op {
		case service.OpSerialize:
			return fiber.StatusInternalServerError, "Document generation failed"
		case service.OpPing:
			return fiber.StatusServiceUnavailable, "OCR engine unavailable"
		default:
			return fiber.StatusInternalServerError, "OCR processing failed"
		}
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

// respondError logs err with the request id and writes its mapped response.
func respondError(c *fiber.Ctx, log logrus.FieldLogger, err error) error {
	status, message := statusFor(err)

	entry := log.WithFields(logrus.Fields{
		"request_id": middleware.GetRequestID(c),
		"path":       c.Path(),
		"status":     status,
	}).WithError(err)
	if status >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Info("request rejected")
	}

	return writeError(c, status, message)
}

// ErrorHandler returns a Fiber global error handler that renders framework
// errors (unknown routes, oversized bodies, and panics recovered by
// middleware.Recover) in the same {"error": ...} shape as handler errors.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "Bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "Resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "Method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "Uploaded file too large")
		default:
			return writeError(c, status, "Internal server error")
		}
	}
}
