package logging

import (
	"time"

	"github.com/Davidxcr/YelpCamp/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Middleware logs one line per request. Mount it after requestid so the
// request id is available.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			// The error handler runs after us; report what it will send.
			status = response.StatusOf(chainErr)
		}

		event := Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = Error().Err(chainErr)
		case status >= fiber.StatusBadRequest:
			event = Warn()
		}

		event.
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.IP()).
			Str("request_id", requestID(c)).
			Msg("request")

		return chainErr
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return ""
}
