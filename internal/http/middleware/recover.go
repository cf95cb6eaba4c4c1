package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// Recover turns a panic in any later handler into an error for the global
// error handler and logs the panic value with its stack.
func Recover(log logrus.FieldLogger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.WithFields(logrus.Fields{
				"request_id": GetRequestID(c),
				"method":     c.Method(),
				"path":       c.Path(),
				"panic":      fmt.Sprint(e),
				"stack":      string(debug.Stack()),
			}).Error("panic recovered")
		},
	})
}
