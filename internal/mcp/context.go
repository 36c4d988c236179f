package mcp

import (
	"context"
	"net/http"
	"strings"
)

// credentialKey is the context key for a per-request Square credential.
type credentialKey struct{}

// WithCredential returns a context carrying the Square access token for one
// MCP request.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey{}, token)
}

// CredentialFromContext returns the access token attached by WithCredential.
func CredentialFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(credentialKey{}).(string)
	return token, ok && token != ""
}

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 7 || !strings.EqualFold(auth[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(auth[7:])
}

// credentialFromRequest moves the inbound bearer token, if any, into the
// context handed to tool handlers.
func credentialFromRequest(ctx context.Context, r *http.Request) context.Context {
	if token := bearerToken(r); token != "" {
		return WithCredential(ctx, token)
	}
	return ctx
}
