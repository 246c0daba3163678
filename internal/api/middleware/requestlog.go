package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

func isHealthPath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

// RequestLog returns Echo middleware that logs requests with structured
// fields. It generates a request ID if none is provided and propagates it
// through the response header and echo context.
//
// Health probes are deduplicated: a successful /healthz or /readyz is logged
// once, then suppressed until it fails. Failed probes are always logged at
// WARN. Everything else is logged on every request.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var mu sync.Mutex
	probeOK := make(map[string]bool)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			status := c.Response().Status
			path := c.Request().URL.Path

			attrs := []any{
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}

			if isHealthPath(path) {
				ok := status < 400
				mu.Lock()
				suppress := ok && probeOK[path]
				probeOK[path] = ok
				mu.Unlock()

				if suppress {
					return err
				}
				if !ok {
					log.Warn("request", attrs...)
					return err
				}
			}

			log.Info("request", attrs...)
			return err
		}
	}
}
