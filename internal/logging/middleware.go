package logging

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserIDKey is the gin context key holding the authenticated owner id.
// The auth middleware sets it; the request logger only reads it.
const UserIDKey = "logging.user_id"

const requestIDHeader = "X-Request-ID"

// GinMiddleware attaches a request-scoped logger to the request context and
// logs each completed request at a level matching its status.
func GinMiddleware(logger *Logger) gin.HandlerFunc {
	httpLogger := logger.WithComponent(ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		reqLogger := httpLogger.With(FieldRequestID, requestID)
		c.Request = c.Request.WithContext(NewContext(c.Request.Context(), reqLogger))

		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		args := []any{
			FieldMethod, c.Request.Method,
			FieldPath, c.Request.URL.Path,
			FieldQuery, c.Request.URL.RawQuery,
			FieldStatusCode, status,
			FieldDuration, time.Since(start).Milliseconds(),
			FieldClientIP, c.ClientIP(),
			FieldUserAgent, c.Request.UserAgent(),
		}
		if userID := c.GetString(UserIDKey); userID != "" {
			args = append(args, FieldUserID, userID)
		}
		if len(c.Errors) > 0 {
			args = append(args, FieldError, c.Errors.String())
		}
		reqLogger.Log(c.Request.Context(), level, "HTTP request completed", args...)
	}
}
