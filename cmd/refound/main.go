package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/campusfind/refound/internal/config"
	"github.com/campusfind/refound/internal/db"
	dbRedis "github.com/campusfind/refound/internal/db/redis"
	"github.com/campusfind/refound/internal/domain"
	logpkg "github.com/campusfind/refound/internal/logger"
	"github.com/campusfind/refound/internal/metrics"
	dismissalrepo "github.com/campusfind/refound/internal/repository/dismissal"
	"github.com/campusfind/refound/internal/repository/embcache"
	itemrepo "github.com/campusfind/refound/internal/repository/item"
	notificationrepo "github.com/campusfind/refound/internal/repository/notification"
	chiTransport "github.com/campusfind/refound/internal/transport/chi"
	openaiEmb "github.com/campusfind/refound/internal/transport/openai"
	claimuc "github.com/campusfind/refound/internal/usecase/claim"
	dismissaluc "github.com/campusfind/refound/internal/usecase/dismissal"
	embeddinguc "github.com/campusfind/refound/internal/usecase/embedding"
	healthuc "github.com/campusfind/refound/internal/usecase/health"
	ingestuc "github.com/campusfind/refound/internal/usecase/ingest"
	itemsuc "github.com/campusfind/refound/internal/usecase/items"
	matchinguc "github.com/campusfind/refound/internal/usecase/matching"
	notifyuc "github.com/campusfind/refound/internal/usecase/notify"
	"github.com/campusfind/refound/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting refound API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register engine and embedding metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterEngineMetrics()

	embedder, embedderHealth := buildEmbedder(cfg, store, logger)
	logger.Info("Embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Matching.VectorDimensions),
	)

	// Repositories
	itemRepo := itemrepo.New(store, cfg.Storage.KeyPrefix)
	dismissalRepo := dismissalrepo.New(store, cfg.Storage.KeyPrefix)
	notificationRepo := notificationrepo.New(store, cfg.Storage.KeyPrefix)

	// Use case services
	notifySvc := notifyuc.New(notificationRepo, logger)
	matchingSvc := matchinguc.New(itemRepo, dismissalRepo)
	dismissalSvc := dismissaluc.New(dismissalRepo)
	claimSvc := claimuc.New(itemRepo, notifySvc)
	itemsSvc := itemsuc.New(itemRepo, logger)
	ingestSvc := ingestuc.New(
		itemRepo, matchingSvc, notifySvc,
		embedder, cfg.Matching.VectorDimensions, logger,
	)
	healthSvc := healthuc.New(store, embedderHealth)

	server := chiTransport.NewServer(
		ingestSvc, itemsSvc, matchingSvc, dismissalSvc, claimSvc,
		notifySvc, healthSvc, cfg.HTTP.MaxUploadMB, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.JWTAuthMiddleware(cfg.Auth.JWTSecret))
	r.Use(chiTransport.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain:
// OpenAI -> Cached -> Breaker -> RateLimited -> Instrumented
// The base provider is also returned as the health checker; the decorators
// must stay out of the health path so a probe never trips the breaker.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) (domain.ImageEmbedder, domain.HealthChecker) {
	// Base provider (with transport metrics built-in)
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:  cfg.Embedding.APIKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Logger:  logger,
	})

	// Cached: re-uploads of the same photo skip the provider, so the cache
	// sits inside the breaker and the rate limiter.
	var embedder domain.ImageEmbedder = base
	if store != nil {
		ttl := time.Duration(cfg.Storage.EmbCacheTTLHours) * time.Hour
		embedder = embcache.New(base, store, cfg.Storage.KeyPrefix, ttl, logger)
	}

	embedder = embeddinguc.NewBreakerEmbedder(embedder, logger)

	if cfg.Embedding.RatePerSecond > 0 {
		embedder = embeddinguc.NewRateLimitedEmbedder(
			embedder, cfg.Embedding.RatePerSecond, cfg.Embedding.RateBurst,
		)
	}

	return embeddinguc.NewInstrumentedEmbedder(embedder, cfg.Embedding.Model, logger), base
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}
