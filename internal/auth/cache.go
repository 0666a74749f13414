package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"budget-tracker-backend/internal/logging"
)

const cacheKeyPrefix = "auth:token:"

// CachedVerifier remembers verified tokens in Redis so repeated requests
// skip the identity provider. Only successful verifications are cached.
type CachedVerifier struct {
	next   Verifier
	client redis.Cmdable
	ttl    time.Duration
	now    func() time.Time
	logger *logging.Logger
}

func NewCachedVerifier(next Verifier, client redis.Cmdable, ttl time.Duration, logger *logging.Logger) *CachedVerifier {
	return &CachedVerifier{
		next:   next,
		client: client,
		ttl:    ttl,
		now:    time.Now,
		logger: logger.WithComponent(logging.ComponentAuth),
	}
}

func (v *CachedVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	key := cacheKey(token)

	cached, err := v.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var id Identity
		if err := json.Unmarshal(cached, &id); err == nil && id.UserID != "" {
			return id, nil
		}
	case !errors.Is(err, redis.Nil):
		v.logger.WarnContext(ctx, "Token cache read failed", logging.FieldError, err)
	}

	id, err := v.next.Verify(ctx, token)
	if err != nil {
		return Identity{}, err
	}

	ttl := v.ttl
	if !id.ExpiresAt.IsZero() {
		if left := id.ExpiresAt.Sub(v.now()); left < ttl {
			ttl = left
		}
	}
	if ttl <= 0 {
		return id, nil
	}
	if data, err := json.Marshal(id); err == nil {
		if err := v.client.SetEx(ctx, key, data, ttl).Err(); err != nil {
			v.logger.WarnContext(ctx, "Token cache write failed", logging.FieldError, err)
		}
	}
	return id, nil
}

// cacheKey hashes the token so raw credentials never reach Redis.
func cacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
