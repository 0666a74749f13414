package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"budget-tracker-backend/internal/logging"
)

const identityKey = "auth.identity"

// RequireUser rejects requests without a valid bearer token and stores the
// verified identity in the gin context.
func RequireUser(v Verifier, logger *logging.Logger) gin.HandlerFunc {
	logger = logger.WithComponent(logging.ComponentAuth)
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		id, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, ErrUnauthenticated) {
				logger.ErrorContext(c.Request.Context(), "Token verification failed",
					logging.FieldOperation, logging.OpVerify,
					logging.FieldError, err)
			}
			abortUnauthorized(c)
			return
		}

		c.Set(identityKey, id)
		c.Set(logging.UserIDKey, id.UserID)
		c.Next()
	}
}

// CurrentUser returns the identity stored by RequireUser.
func CurrentUser(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortUnauthorized(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
}
