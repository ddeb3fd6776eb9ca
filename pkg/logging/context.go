package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerKey    = ctxKey{"logger"}
	requestIDKey = ctxKey{"request_id"}
)

// WithLogger stores logger in ctx. A nil logger stores Default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or Default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// enrich stores a child of the context logger built by fn.
func enrich(ctx context.Context, fn func(zerolog.Context) zerolog.Context) context.Context {
	logger := fn(FromContext(ctx).With()).Logger()
	return context.WithValue(ctx, loggerKey, &logger)
}

// WithRequestID records the request ID of an HTTP exchange with the photo
// service and tags the context logger with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, id)
	return enrich(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("request_id", id)
	})
}

// RequestID returns the ID stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithResource tags the context logger with the synchronized resource:
// markers, hashtags, session, or images.
func WithResource(ctx context.Context, resource string) context.Context {
	return enrich(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("resource", resource)
	})
}

// WithMarker tags the context logger with a marker ID.
func WithMarker(ctx context.Context, id string) context.Context {
	return enrich(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("marker_id", id)
	})
}

// WithOperation tags the context logger with an engine operation such as
// commit_title or refresh_markers.
func WithOperation(ctx context.Context, operation string) context.Context {
	return enrich(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("operation", operation)
	})
}
