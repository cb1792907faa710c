package common

import (
	"context"
	"time"
)

// ContainerLogger is the structured logger handlers and adapters write to
type ContainerLogger interface {
	Log(level, message string, metadata map[string]interface{})
}

type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger ContainerLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) ContainerLogger {
	if logger, ok := ctx.Value(loggerKey).(ContainerLogger); ok {
		return logger
	}
	return &noOpLogger{}
}

type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

// SessionScoped is a request bound to one stored session
type SessionScoped interface {
	Session() string
}

// LoggingMiddleware logs each request with its session: failures at ERROR, the rest at DEBUG
func LoggingMiddleware() Middleware {
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		start := time.Now()
		response, err := next(ctx, request)

		fields := map[string]interface{}{
			"request":     RequestName(request),
			"duration_ms": time.Since(start).Milliseconds(),
		}
		if scoped, ok := request.(SessionScoped); ok && scoped.Session() != "" {
			fields["session_id"] = scoped.Session()
		}
		if err != nil {
			fields["error"] = err.Error()
			LoggerFromContext(ctx).Log("ERROR", "request failed", fields)
		} else {
			LoggerFromContext(ctx).Log("DEBUG", "request handled", fields)
		}
		return response, err
	}
}
