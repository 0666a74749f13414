package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Format: "json", Output: &buf})

	r := gin.New()
	r.Use(GinMiddleware(logger))
	r.GET("/boom", func(c *gin.Context) {
		c.Set(UserIDKey, "user-42")
		assert.Equal(t, ComponentHTTP, FromContext(c.Request.Context()).Component())
		c.Status(http.StatusInternalServerError)
	})

	req := httptest.NewRequest(http.MethodGet, "/boom?x=1", nil)
	req.Header.Set("X-Request-ID", "req-1")
	req.Header.Set("User-Agent", "budget-client/2.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "ERROR", record["level"])
	assert.Equal(t, "HTTP request completed", record["msg"])
	assert.Equal(t, "/boom", record[FieldPath])
	assert.Equal(t, "x=1", record[FieldQuery])
	assert.Equal(t, "req-1", record[FieldRequestID])
	assert.Equal(t, "user-42", record[FieldUserID])
	assert.Equal(t, float64(500), record[FieldStatusCode])
	assert.Equal(t, "budget-client/2.1", record[FieldUserAgent])
}

func TestGinMiddlewareGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(GinMiddleware(Discard()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.Equal(t, "unknown", logger.Component())
}
