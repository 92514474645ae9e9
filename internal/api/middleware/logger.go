package middleware

import (
	"bytes"
	"io"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// HTTPObserver counts finished requests. *metrics.Service implements it.
type HTTPObserver interface {
	ObserveHTTP(method, route, status string)
}

// MaxLoggedBodyBytes caps how much of a request body is copied into the log.
const MaxLoggedBodyBytes = 4096

type LoggerConfig struct {
	Level          zerolog.Level
	LogRequestBody bool
	Observer       HTTPObserver
}

// LoggerWithConfig stores a request-scoped logger carrying the request id in
// the request context and logs every finished request.
func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			l := log.With().
				Str("id", id).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()

			var body []byte
			if config.LogRequestBody && req.Body != nil {
				raw, err := io.ReadAll(req.Body)
				if err != nil {
					l.Warn().Err(err).Msg("Failed to read request body for logging")
				}
				req.Body = io.NopCloser(bytes.NewReader(raw))
				body = raw
				if len(body) > MaxLoggedBodyBytes {
					body = body[:MaxLoggedBodyBytes]
				}
			}

			c.SetRequest(req.WithContext(l.WithContext(req.Context())))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := res.Status
			route := c.Path()

			ev := l.WithLevel(config.Level)
			if config.LogRequestBody {
				ev = ev.Bytes("body", body)
			}
			ev.Int("status", status).
				Str("route", route).
				Dur("duration", time.Since(start)).
				Int64("bytes_out", res.Size).
				Msg("Request completed")

			if config.Observer != nil {
				config.Observer.ObserveHTTP(req.Method, route, strconv.Itoa(status))
			}

			return nil
		}
	}
}
