package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"budget-tracker-backend/internal/api"
	"budget-tracker-backend/internal/auth"
	"budget-tracker-backend/internal/config"
	"budget-tracker-backend/internal/events"
	"budget-tracker-backend/internal/logging"
	"budget-tracker-backend/internal/store"
	"budget-tracker-backend/internal/telemetry"
)

func main() {
	migrateCmd := flag.Bool("migrate", false, "Run database migrations and exit")
	seedDemoCmd := flag.Bool("seed-demo", false, "Seed demo expenses and budgets for -seed-user (idempotent)")
	seedUser := flag.String("seed-user", "", "Owner id that receives the demo data")
	flag.Parse()

	cfg := config.Load()

	// An invalid level is reported by Validate below.
	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := logging.New(logging.Config{Level: level, Format: cfg.LogFormat})
	logging.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", logging.FieldError, err)
		os.Exit(1)
	}

	var err error
	switch {
	case *migrateCmd:
		err = runMigrations(cfg, logger)
		if err == nil {
			logger.Info("Migration completed successfully")
		}
	case *seedDemoCmd:
		err = seedDemo(cfg, logger, *seedUser)
	default:
		err = serve(cfg, logger)
	}
	if err != nil {
		logger.Error("Exiting", logging.FieldError, err)
		os.Exit(1)
	}
}

func seedDemo(cfg *config.Config, logger *logging.Logger, owner string) error {
	if owner == "" {
		return errors.New("-seed-demo requires -seed-user")
	}
	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	seeded, err := store.New(db, cfg.StorageDriver).SeedDemo(context.Background(), owner)
	if err != nil {
		return err
	}
	if seeded {
		logger.Info("Demo data seeded", logging.FieldUserID, owner)
	} else {
		logger.Info("Demo data already present, nothing to do", logging.FieldUserID, owner)
	}
	return nil
}

func serve(cfg *config.Config, logger *logging.Logger) error {
	stopTracing := initTracing(cfg, logger)
	defer stopTracing()

	if cfg.AutoMigrate {
		if err := runMigrations(cfg, logger); err != nil {
			return err
		}
	}

	db, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	st := store.New(db, cfg.StorageDriver)

	redisClient, err := initRedis(cfg.RedisURL)
	if err != nil {
		logger.Warn("Failed to initialize Redis, continuing without identity cache", logging.FieldError, err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher := newPublisher(cfg, logger)
	defer publisher.Close()

	server := api.NewServer(api.Options{
		Expenses:  st,
		Budgets:   st,
		Verifier:  newVerifier(cfg, redisClient, logger),
		Publisher: publisher,
		Logger:    logger,
		Timeout:   cfg.RequestTimeout,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, logger, st, server),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, logging.FieldDriver, cfg.StorageDriver)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// initTracing exports spans when an OTLP endpoint is configured. The
// returned func flushes them and is safe to call when tracing is off.
func initTracing(cfg *config.Config, logger *logging.Logger) func() {
	if cfg.OTLPEndpoint == "" {
		return func() {}
	}
	shutdown, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName:  cfg.ServiceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.Warn("Failed to initialize tracing, continuing without span export", logging.FieldError, err)
		return func() {}
	}
	logger.Info("Tracing enabled", "endpoint", cfg.OTLPEndpoint)

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(ctx); err != nil {
			logger.Warn("Failed to flush traces", logging.FieldError, err)
		}
	}
}

func newRouter(cfg *config.Config, logger *logging.Logger, db pinger, server *api.Server) *gin.Engine {
	r := gin.New()
	r.Use(logging.GinMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/", root)
	r.GET("/health", healthCheck(db))
	server.Register(r)
	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// newVerifier checks tokens locally when the signing secret is known and
// asks the identity provider otherwise. Results are cached in Redis when
// a client is available.
func newVerifier(cfg *config.Config, redisClient *redis.Client, logger *logging.Logger) auth.Verifier {
	var v auth.Verifier
	if cfg.SupabaseJWTSecret != "" {
		v = auth.NewJWTVerifier(cfg.SupabaseJWTSecret, cfg.JWTAudience)
	} else {
		v = auth.NewRemoteVerifier(cfg.SupabaseURL, cfg.SupabaseKey, &http.Client{Timeout: 10 * time.Second})
	}
	if redisClient != nil {
		v = auth.NewCachedVerifier(v, redisClient, cfg.AuthCacheTTL, logger)
	}
	return v
}

func newPublisher(cfg *config.Config, logger *logging.Logger) events.Publisher {
	logger = logger.WithComponent(logging.ComponentEvents)
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled, change events will not be published")
		return events.Nop{}
	}
	p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	if err != nil {
		logger.Warn("Failed to initialize AMQP publisher, continuing without change events", logging.FieldError, err)
		return events.Nop{}
	}
	logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
	return p
}
