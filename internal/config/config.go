package config

import (
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

// OCRConfig holds settings for the OCR engine.
type OCRConfig struct {
	// TessdataPrefix points the engine at its trained language data.
	// Empty means the engine's compiled-in default (or the process TESSDATA_PREFIX).
	TessdataPrefix string
	// MaxConcurrency bounds simultaneous recognitions. Zero or less disables the bound.
	MaxConcurrency int
	// MaxImagePixels rejects uploads declaring more than width*height pixels.
	MaxImagePixels int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables at startup.
type AppConfig struct {
	Port             string
	Timezone         string
	CORSAllowOrigins string
	MaxUploadMB      int
	MetricsEnabled   bool
	OCR              OCRConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the file.
func Load() *AppConfig {
	return &AppConfig{
		Port:             getEnv("PORT", "5000"),
		Timezone:         getEnv("APP_TIMEZONE", "UTC"),
		CORSAllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
		MaxUploadMB:      getEnvInt("MAX_UPLOAD_MB", 32),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
		OCR: OCRConfig{
			TessdataPrefix: getEnv("TESSDATA_PREFIX", ""),
			MaxConcurrency: getEnvInt("OCR_MAX_CONCURRENCY", 0),
		},
	}
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// BodyLimit is the maximum request body size in bytes.
func (c *AppConfig) BodyLimit() int {
	if c.MaxUploadMB <= 0 {
		return 32 * 1024 * 1024
	}
	return c.MaxUploadMB * 1024 * 1024
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
