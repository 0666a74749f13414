package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"budget-tracker-backend/internal/api"
	"budget-tracker-backend/internal/config"
	"budget-tracker-backend/internal/logging"
	"budget-tracker-backend/internal/store"
)

func TestNormalizeDatabaseURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"postgresql://u:p@db:5432/budget", "postgres://u:p@db:5432/budget?sslmode=disable"},
		{"postgres://u:p@db/budget?connect_timeout=5", "postgres://u:p@db/budget?connect_timeout=5&sslmode=disable"},
		{"postgres://u:p@db/budget?sslmode=require", "postgres://u:p@db/budget?sslmode=require"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeDatabaseURL(tt.in))
	}
}

func TestRedisOptions(t *testing.T) {
	assert.Equal(t, "redis:6379", redisOptions("redis:6379").Addr)

	opt := redisOptions("redis://:pw@cache:6380/2")
	assert.Equal(t, "cache:6380", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 2, opt.DB)

	client, err := initRedis("")
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestCORSConfig(t *testing.T) {
	c := corsConfig([]string{"*"})
	assert.True(t, c.AllowAllOrigins)
	assert.Empty(t, c.AllowOrigins)

	c = corsConfig([]string{"https://app.example.com"})
	assert.False(t, c.AllowAllOrigins)
	assert.Equal(t, []string{"https://app.example.com"}, c.AllowOrigins)
	assert.NoError(t, c.Validate())
}

func TestInitTracing(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })
	logger := logging.Discard()

	// Disabled: nothing is installed.
	initTracing(&config.Config{}, logger)()
	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.False(t, ok)

	stop := initTracing(&config.Config{
		ServiceName:  serviceName,
		Environment:  "test",
		OTLPEndpoint: "localhost:4317",
	}, logger)
	_, ok = otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)
	stop()
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tt := range []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"healthy", nil, http.StatusOK, "healthy"},
		{"db down", errors.New("refused"), http.StatusServiceUnavailable, "unhealthy"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", healthCheck(stubPinger{err: tt.err}))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.body, body["status"])
			assert.Equal(t, serviceName, body["service"])
		})
	}
}

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		StorageDriver:     config.DriverSQLite,
		SQLitePath:        filepath.Join(t.TempDir(), "data", "budget.db"),
		SupabaseJWTSecret: "test-secret",
		JWTAudience:       "authenticated",
		AllowedOrigins:    []string{"*"},
		RequestTimeout:    5 * time.Second,
	}
}

func TestMigrateSeedAndServe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := sqliteConfig(t)
	logger := logging.Discard()

	require.NoError(t, runMigrations(cfg, logger))
	// Running again is a no-op.
	require.NoError(t, runMigrations(cfg, logger))

	require.NoError(t, seedDemo(cfg, logger, "demo-user"))
	require.NoError(t, seedDemo(cfg, logger, "demo-user"))
	assert.Error(t, seedDemo(cfg, logger, ""))

	db, err := openDB(cfg, logger)
	require.NoError(t, err)
	defer db.Close()
	st := store.New(db, cfg.StorageDriver)

	server := api.NewServer(api.Options{
		Expenses: st,
		Budgets:  st,
		Verifier: newVerifier(cfg, nil, logger),
		Logger:   logger,
		Timeout:  cfg.RequestTimeout,
	})
	r := newRouter(cfg, logger, st, server)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "demo-user",
		"aud": "authenticated",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(cfg.SupabaseJWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses?limit=100", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list api.ExpenseListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 14, list.Total, "seeding twice must not duplicate")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, strings.Contains(w.Body.String(), "Budget Tracker"))
}
