package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type claims struct {
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
	jwt.RegisteredClaims
}

// JWTVerifier validates HS256 access tokens signed with the provider's secret.
type JWTVerifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTVerifier returns a verifier for tokens signed with secret. When
// audience is non-empty the aud claim must contain it.
func NewJWTVerifier(secret, audience string) *JWTVerifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &JWTVerifier{secret: []byte(secret), parser: jwt.NewParser(opts...)}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (Identity, error) {
	var c claims
	_, err := v.parser.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	if c.Subject == "" {
		return Identity{}, fmt.Errorf("%w: token has no subject", ErrUnauthenticated)
	}

	id := Identity{
		UserID:   c.Subject,
		Email:    c.Email,
		FullName: c.UserMetadata.FullName,
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id, nil
}
