package httpx

import (
	"context"

	domainauth "github.com/voltfleet/cpconsole/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across
// packages. Centralized here so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context carrying the given session.
// A nil session returns the original ctx unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the session from context and whether
// one is present.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context,
// nil when unauthenticated.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// BearerToken returns the CSMS token for the current request, empty when
// unauthenticated.
func BearerToken(ctx context.Context) string {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s.Token
	}
	return ""
}
