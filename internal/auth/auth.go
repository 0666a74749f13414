// Package auth resolves bearer tokens issued by the identity provider to
// the owner id every storage call is scoped to.
package auth

import (
	"context"
	"errors"
	"time"
)

// ErrUnauthenticated is returned for missing, malformed, expired or
// rejected tokens.
var ErrUnauthenticated = errors.New("invalid or expired token")

// Identity is the verified caller.
type Identity struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	FullName  string    `json:"full_name,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Verifier checks a bearer token and returns the identity it belongs to.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
