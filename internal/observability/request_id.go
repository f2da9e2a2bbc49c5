package observability

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDKey carries the correlation id of one REPL line or admin request.
const RequestIDKey contextKey = "request_id"

const RequestIDHeader = "X-Request-ID"

func NewRequestID() string {
	return uuid.New().String()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithRequestID mints a fresh id and stores it in ctx.
func WithRequestID(ctx context.Context) (context.Context, string) {
	id := NewRequestID()
	return ContextWithRequestID(ctx, id), id
}

func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}

// requestIDFromHeader accepts a caller-supplied id only if it is a UUID, so
// arbitrary header text never ends up in logs.
func requestIDFromHeader(v string) (string, bool) {
	id, err := uuid.Parse(v)
	if err != nil {
		return "", false
	}
	return id.String(), true
}
