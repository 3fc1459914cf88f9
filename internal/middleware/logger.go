package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// Logger writes one line per request. Errors returned by the chain are
// rendered here so the logged status is the one sent to the client.
func Logger(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().Config().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		evt := logger.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			evt = logger.Error().Err(chainErr)
		case chainErr != nil:
			evt = logger.Warn().Err(chainErr)
		}

		rid, _ := c.Locals("requestid").(string)
		evt.
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("remote_ip", c.IP()).
			Msg("request")

		return nil
	}
}
