package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ocrdoc/internal/document"
	"ocrdoc/internal/document/docxtest"
	"ocrdoc/internal/http/middleware"
	"ocrdoc/internal/imaging"
	"ocrdoc/internal/logging"
	"ocrdoc/internal/model"
	"ocrdoc/internal/service"
	serviceMocks "ocrdoc/internal/service/mocks"
)

func newTestApp(ocrSvc service.OCRService, exportSvc service.ExportService) *fiber.App {
	log := logging.New(io.Discard, time.UTC)
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	app.Use(middleware.Recover(log))
	RegisterRoutes(app, log, ocrSvc, exportSvc)
	return app
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile(field, filename)
		require.NoError(t, err)
		part.Write(content)
	} else {
		require.NoError(t, writer.WriteField(field, string(content)))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeError(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestProcessImage(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOCRService)
		app := newTestApp(mockSvc, new(serviceMocks.MockExportService))

		expected := &model.ExtractionResult{
			Text:  "Hello. World.",
			Stats: model.Statistics{WordCount: 2, SentenceCount: 2, CharCount: 13, AvgWordLength: 6},
		}
		mockSvc.On("Extract", mock.Anything, mock.Anything).Return(expected, nil).Once()

		body, ct := multipartBody(t, "file", "scan.png", []byte("png-bytes"))
		req := httptest.NewRequest(http.MethodPost, "/process-image", body)
		req.Header.Set("Content-Type", ct)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var raw map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
		assert.Equal(t, "Hello. World.", raw["text"])
		assert.Equal(t, map[string]any{
			"word_count":      float64(2),
			"sentence_count":  float64(2),
			"char_count":      float64(13),
			"avg_word_length": float64(6),
		}, raw["stats"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("upload bytes reach the service", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOCRService)
		app := newTestApp(mockSvc, new(serviceMocks.MockExportService))

		mockSvc.On("Extract", mock.Anything, mock.MatchedBy(func(r io.Reader) bool {
			b, err := io.ReadAll(r)
			return err == nil && string(b) == "raw image"
		})).Return(&model.ExtractionResult{}, nil).Once()

		body, ct := multipartBody(t, "file", "scan.bmp", []byte("raw image"))
		req := httptest.NewRequest(http.MethodPost, "/process-image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("no body", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOCRService)
		app := newTestApp(mockSvc, new(serviceMocks.MockExportService))

		req := httptest.NewRequest(http.MethodPost, "/process-image", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "No file uploaded", decodeError(t, resp))
		mockSvc.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	})

	t.Run("wrong field name", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOCRService)
		app := newTestApp(mockSvc, new(serviceMocks.MockExportService))

		body, ct := multipartBody(t, "image", "scan.png", []byte("png-bytes"))
		req := httptest.NewRequest(http.MethodPost, "/process-image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "No file uploaded", decodeError(t, resp))
	})

	t.Run("file sent as plain field", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOCRService)
		app := newTestApp(mockSvc, new(serviceMocks.MockExportService))

		body, ct := multipartBody(t, "file", "", []byte("not a file part"))
		req := httptest.NewRequest(http.MethodPost, "/process-image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "No file uploaded", decodeError(t, resp))
	})

	t.Run("undecodable image", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOCRService)
		app := newTestApp(mockSvc, new(serviceMocks.MockExportService))

		mockSvc.On("Extract", mock.Anything, mock.Anything).
			Return(nil, &service.DecodeError{Err: imaging.ErrUnsupportedFormat}).Once()

		body, ct := multipartBody(t, "file", "notes.txt", []byte("hello"))
		req := httptest.NewRequest(http.MethodPost, "/process-image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid image file", decodeError(t, resp))
		mockSvc.AssertExpectations(t)
	})

	t.Run("engine failure", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOCRService)
		app := newTestApp(mockSvc, new(serviceMocks.MockExportService))

		mockSvc.On("Extract", mock.Anything, mock.Anything).
			Return(nil, &service.EngineError{Op: service.OpRecognize, Err: errors.New("segfault")}).Once()

		body, ct := multipartBody(t, "file", "scan.png", []byte("png-bytes"))
		req := httptest.NewRequest(http.MethodPost, "/process-image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "OCR processing failed", decodeError(t, resp))
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadDocx(t *testing.T) {
	t.Run("success with real serializer", func(t *testing.T) {
		app := newTestApp(new(serviceMocks.MockOCRService), service.NewExportService(document.NewDocxWriter()))

		req := httptest.NewRequest(http.MethodPost, "/download-docx", strings.NewReader(`{"text": "Hello"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, document.MIMEType, resp.Header.Get("Content-Type"))
		assert.Equal(t, `attachment; filename="extracted_text.docx"`, resp.Header.Get("Content-Disposition"))

		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		paras, err := docxtest.Paragraphs(data)
		require.NoError(t, err)

		got := docxtest.NonEmpty(paras)
		require.Len(t, got, 2)
		assert.Equal(t, "OCR Extracted Text", got[0].Text)
		assert.Equal(t, "Hello", got[1].Text)
	})

	bodies := []struct {
		name string
		body string
		text string
	}{
		{name: "missing text defaults to empty", body: `{}`, text: ""},
		{name: "null text is empty", body: `{"text": null}`, text: ""},
		{name: "extra fields ignored", body: `{"text": "a\nb", "stats": {"word_count": 2}}`, text: "a\nb"},
	}
	for _, tt := range bodies {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockExportService)
			app := newTestApp(new(serviceMocks.MockOCRService), mockSvc)
			mockSvc.On("Export", mock.Anything, tt.text).Return([]byte("PK"), nil).Once()

			req := httptest.NewRequest(http.MethodPost, "/download-docx", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, _ := app.Test(req)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			mockSvc.AssertExpectations(t)
		})
	}

	rejected := []struct {
		name    string
		body    string
		message string
	}{
		{name: "no body", body: "", message: "No JSON data provided"},
		{name: "whitespace body", body: "  \n", message: "No JSON data provided"},
		{name: "malformed json", body: `{"text": `, message: "No JSON data provided"},
		{name: "json null", body: `null`, message: "No JSON data provided"},
		{name: "json array", body: `["Hello"]`, message: "No JSON data provided"},
		{name: "non-string text", body: `{"text": 42}`, message: "Field text must be a string"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := new(serviceMocks.MockExportService)
			app := newTestApp(new(serviceMocks.MockOCRService), mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/download-docx", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, _ := app.Test(req)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Empty(t, resp.Header.Get("Content-Disposition"))
			assert.Equal(t, tt.message, decodeError(t, resp))
			mockSvc.AssertNotCalled(t, "Export", mock.Anything, mock.Anything)
		})
	}

	t.Run("serializer failure", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockExportService)
		app := newTestApp(new(serviceMocks.MockOCRService), mockSvc)
		mockSvc.On("Export", mock.Anything, "Hello").
			Return(nil, &service.EngineError{Op: service.OpSerialize, Err: errors.New("zip")}).Once()

		req := httptest.NewRequest(http.MethodPost, "/download-docx", strings.NewReader(`{"text":"Hello"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Empty(t, resp.Header.Get("Content-Disposition"))
		assert.Equal(t, "Document generation failed", decodeError(t, resp))
		mockSvc.AssertExpectations(t)
	})
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOCRService)
		app := newTestApp(mockSvc, new(serviceMocks.MockExportService))
		mockSvc.On("Ready", mock.Anything).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockOCRService)
		app := newTestApp(mockSvc, new(serviceMocks.MockExportService))
		mockSvc.On("Ready", mock.Anything).
			Return(&service.EngineError{Op: service.OpPing, Err: errors.New("missing jpn.traineddata")}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "OCR engine unavailable", decodeError(t, resp))
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouting(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockOCRService), new(serviceMocks.MockExportService))

	t.Run("not found route", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/non-existent", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Resource not found", decodeError(t, resp))
	})

	t.Run("method not allowed", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/process-image", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "Method not allowed", decodeError(t, resp))
	})
}

func TestBodyTooLarge(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
		BodyLimit:    1024,
	})
	RegisterRoutes(app, logging.New(io.Discard, time.UTC), new(serviceMocks.MockOCRService), new(serviceMocks.MockExportService))

	body, ct := multipartBody(t, "file", "big.png", bytes.Repeat([]byte{0xff}, 4096))
	req := httptest.NewRequest(http.MethodPost, "/process-image", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{service.ErrNoFile, 400, "No file uploaded"},
		{service.ErrNoJSON, 400, "No JSON data provided"},
		{service.ErrInvalidText, 400, "Field text must be a string"},
		{&service.DecodeError{Err: imaging.ErrCorrupt}, 400, "Invalid image file"},
		{&service.EngineError{Op: service.OpRecognize, Err: errors.New("x")}, 500, "OCR processing failed"},
		{&service.EngineError{Op: service.OpSerialize, Err: errors.New("x")}, 500, "Document generation failed"},
		{&service.EngineError{Op: service.OpPing, Err: errors.New("x")}, 503, "OCR engine unavailable"},
		{errors.New("unexpected"), 500, "Internal server error"},
	}

	for _, tt := range tests {
		status, message := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.message, message, tt.err.Error())
	}
}

func TestPanickingServiceReturns500(t *testing.T) {
	t.Run("export", func(t *testing.T) {
		exportSvc := new(serviceMocks.MockExportService)
		exportSvc.On("Export", mock.Anything, "boom").Run(func(mock.Arguments) {
			panic("serializer bug")
		}).Once()
		app := newTestApp(new(serviceMocks.MockOCRService), exportSvc)

		req := httptest.NewRequest(http.MethodPost, "/download-docx", strings.NewReader(`{"text":"boom"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Internal server error", decodeError(t, resp))
	})

	t.Run("ocr", func(t *testing.T) {
		ocrSvc := new(serviceMocks.MockOCRService)
		ocrSvc.On("Extract", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			panic("decoder bug")
		}).Once()
		app := newTestApp(ocrSvc, new(serviceMocks.MockExportService))

		body, ct := multipartBody(t, "file", "scan.png", []byte("png-bytes"))
		req := httptest.NewRequest(http.MethodPost, "/process-image", body)
		req.Header.Set("Content-Type", ct)
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "Internal server error", decodeError(t, resp))

		// the app keeps serving after a recovered panic
		resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
