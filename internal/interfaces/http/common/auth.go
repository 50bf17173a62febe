package common

import (
	"context"
	"time"
)

type callerKey struct{}

// Caller is the API client identified by a verified bearer token.
type Caller struct {
	ID        string
	Name      string
	Issuer    string
	ExpiresAt time.Time
}

// TTL returns how long the token stays valid from now. Zero when it has no
// expiry or has already expired.
func (c Caller) TTL(now time.Time) time.Duration {
	if c.ExpiresAt.IsZero() || !c.ExpiresAt.After(now) {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the caller stored by the auth middleware.
func CallerFrom(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok
}
