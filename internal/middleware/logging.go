package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logging writes a concise structured line for each HTTP request.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			latency := time.Since(start)

			if err != nil {
				c.Error(err)
			}

			logger := zerolog.Ctx(c.Request().Context())
			if logger.GetLevel() == zerolog.Disabled {
				logger = &log.Logger
			}
			event := logger.Info()
			if c.Response().Status >= 500 {
				event = logger.Error().Err(err)
			}
			event.
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", latency).
				Msg("request handled")

			return err
		}
	}
}
