package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"ocrdoc/docs"
	"ocrdoc/internal/config"
	"ocrdoc/internal/document"
	handlers "ocrdoc/internal/http/handler"
	"ocrdoc/internal/http/middleware"
	"ocrdoc/internal/logging"
	"ocrdoc/internal/ocr"
	"ocrdoc/internal/ocr/tesseract"
	"ocrdoc/internal/otel"
	"ocrdoc/internal/service"
)

// @title OCR Document API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// OCR engine: tesseract, observed, then bounded
	tess := tesseract.New(cfg.OCR.TessdataPrefix)
	engine, err := ocr.Instrument(tess, reg)
	if err != nil {
		log.WithError(err).Fatal("failed to register ocr metrics")
	}
	engine = ocr.WithConcurrencyLimit(engine, int64(cfg.OCR.MaxConcurrency))

	ocrSvc := service.NewOCRService(engine, ocr.Languages, service.WithMaxImagePixels(cfg.OCR.MaxImagePixels))
	exportSvc := service.NewExportService(document.NewDocxWriter())

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.BodyLimit(),
	})

	// Register global middleware
	app.Use(middleware.Recover(log))
	app.Use(middleware.RequestID())
	app.Use(middleware.CORS(cfg.CORSAllowOrigins))
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	if cfg.MetricsEnabled {
		promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
		if err != nil {
			log.WithError(err).Fatal("failed to register http metrics")
		}
		app.Use(promMiddleware.Handler())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	}

	handlers.RegisterRoutes(app, log, ocrSvc, exportSvc)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}()

	log.WithFields(logrus.Fields{
		"port":            cfg.Port,
		"ocr_engine":      tess.Name(),
		"ocr_version":     tess.Version(),
		"ocr_languages":   ocr.LanguageSpec(ocr.Languages),
		"ocr_concurrency": cfg.OCR.MaxConcurrency,
	}).Info("server_starting")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("failed to start server")
	}
}
