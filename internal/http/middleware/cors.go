package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS allows cross-origin calls from allowOrigins (comma separated, "*" for any).
// Content-Disposition is exposed so browsers can read the download filename.
func CORS(allowOrigins string) fiber.Handler {
	if strings.TrimSpace(allowOrigins) == "" {
		allowOrigins = "*"
	}
	return cors.New(cors.Config{
		AllowOrigins:  allowOrigins,
		AllowMethods:  "GET,POST,OPTIONS",
		AllowHeaders:  "Origin,Content-Type,Accept," + RequestIDHeader,
		ExposeHeaders: "Content-Disposition," + RequestIDHeader,
	})
}
