package common

import (
	"context"

	"github.com/google/uuid"
)

type contextKey int

const correlationIDKey contextKey = iota

// WithCorrelationID stores the request's correlation ID in ctx.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationIDFromContext returns the correlation ID stored in ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

// ResolveCorrelationID returns the ID stored in ctx, generating a fresh one
// when the call did not arrive through the HTTP middleware.
func ResolveCorrelationID(ctx context.Context) string {
	if id := CorrelationIDFromContext(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
