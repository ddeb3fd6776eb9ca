// Package middleware holds the echo middleware of the reference photo
// service: request logging, session auth, CORS and sign-in throttling.
package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agentstation/photomap/pkg/logging"
)

// RequestIDHeader is echoed back so client and server logs can be joined.
const RequestIDHeader = "X-Request-ID"

// Logger logs every request with zerolog and puts a request-scoped logger
// into the request context.
func Logger(logger *zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			requestID := req.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(RequestIDHeader, requestID)

			reqLogger := logger.With().
				Str("request_id", requestID).
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Logger()
			c.SetRequest(req.WithContext(logging.WithLogger(req.Context(), &reqLogger)))

			err := next(c)
			if err != nil {
				// let echo write the response so the status below is final
				c.Error(err)
			}

			reqLogger.Info().
				Int("status", c.Response().Status).
				Dur("duration_ms", time.Since(start)).
				Str("remote_addr", c.RealIP()).
				Msg("HTTP request")
			return nil
		}
	}
}
