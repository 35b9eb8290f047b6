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

	"github.com/askdocs-io/askdocs/internal/chunker"
	"github.com/askdocs-io/askdocs/internal/config"
	"github.com/askdocs-io/askdocs/internal/db"
	dbRedis "github.com/askdocs-io/askdocs/internal/db/redis"
	"github.com/askdocs-io/askdocs/internal/domain"
	logpkg "github.com/askdocs-io/askdocs/internal/logger"
	"github.com/askdocs-io/askdocs/internal/metrics"
	catalogrepo "github.com/askdocs-io/askdocs/internal/repository/catalog"
	chunkrepo "github.com/askdocs-io/askdocs/internal/repository/chunk"
	documentrepo "github.com/askdocs-io/askdocs/internal/repository/document"
	"github.com/askdocs-io/askdocs/internal/repository/embcache"
	feedbackrepo "github.com/askdocs-io/askdocs/internal/repository/feedback"
	"github.com/askdocs-io/askdocs/internal/repository/keyspace"
	vectorrepo "github.com/askdocs-io/askdocs/internal/repository/vector"
	"github.com/askdocs-io/askdocs/internal/retriever"
	"github.com/askdocs-io/askdocs/internal/tokenizer"
	chiTransport "github.com/askdocs-io/askdocs/internal/transport/chi"
	openaiTransport "github.com/askdocs-io/askdocs/internal/transport/openai"
	"github.com/askdocs-io/askdocs/internal/transport/tika"
	feedbackuc "github.com/askdocs-io/askdocs/internal/usecase/feedback"
	healthuc "github.com/askdocs-io/askdocs/internal/usecase/health"
	ingestuc "github.com/askdocs-io/askdocs/internal/usecase/ingest"
	queryuc "github.com/askdocs-io/askdocs/internal/usecase/query"
	removeuc "github.com/askdocs-io/askdocs/internal/usecase/remove"
	searchuc "github.com/askdocs-io/askdocs/internal/usecase/search"
	"github.com/askdocs-io/askdocs/internal/version"
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

	logger.Info("Starting askdocs API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
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

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()
	metrics.RegisterHTTPMetrics()

	ks := keyspace.New(cfg.Storage.KeyPrefix)

	// Ensure the four collections and their search indexes exist, migrating
	// schemas that drifted since the last start.
	catalog := catalogrepo.New(store, ks, logger).WithHNSW(catalogrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})
	if err := catalog.EnsureAll(ctx, domain.Collections(cfg.Embedding.Dimensions)); err != nil {
		logger.Fatal("Failed to ensure collections", zap.Error(err))
	}
	logger.Info("Collections ready", zap.Int("dimensions", cfg.Embedding.Dimensions))

	embedder := buildEmbedder(cfg, store, ks, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	summarizer := openaiTransport.NewSummarizer(&openaiTransport.SummarizerConfig{
		APIKey:      cfg.Summarizer.APIKey,
		BaseURL:     cfg.Summarizer.BaseURL,
		Model:       cfg.Summarizer.Model,
		Temperature: cfg.Summarizer.Temperature,
		MaxTokens:   cfg.Summarizer.MaxTokens,
		Timeout:     time.Duration(cfg.Summarizer.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	extractor := tika.New(&tika.Config{
		BaseURL: cfg.Extractor.TikaURL,
		Timeout: time.Duration(cfg.Extractor.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	chk, err := chunker.New(chunker.Config{
		Strategy:  cfg.Chunking.Strategy,
		ChunkSize: cfg.Chunking.ChunkSize,
		Overlap:   cfg.Chunking.Overlap,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create chunker", zap.Error(err))
	}

	// Create repositories
	docRepo := documentrepo.New(store, ks)
	chunkRepo := chunkrepo.New(store, ks)
	vectorRepo := vectorrepo.New(store, ks)
	feedbackRepo := feedbackrepo.New(store, ks)

	counter := tokenizer.NewHeuristic(cfg.Retrieval.CharsPerToken)
	assembler := retriever.New(chunkRepo, counter, logger).
		WithWindowHalfWidth(cfg.Retrieval.WindowHalfWidth).
		WithScoreThreshold(cfg.Retrieval.ScoreThreshold)

	// Create use case services
	ingestSvc := ingestuc.New(docRepo, chunkRepo, vectorRepo, extractor, embedder, chk)
	querySvc := queryuc.New(embedder, vectorRepo, assembler, docRepo, summarizer).
		WithTopK(cfg.Retrieval.TopK).
		WithTokenBudget(cfg.Retrieval.TokenBudget)
	removeSvc := removeuc.New(docRepo, chunkRepo, vectorRepo)
	searchSvc := searchuc.New(docRepo, chunkRepo).
		WithPagination(cfg.Index.DefaultPageSize, cfg.Index.MaxPageSize)
	feedbackSvc := feedbackuc.New(feedbackRepo)
	healthSvc := healthuc.New(store, newEmbeddingHealthChecker(embedder))

	server := chiTransport.NewServer(
		ingestSvc, querySvc, removeSvc, searchSvc, feedbackSvc, healthSvc, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
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

// combinedEmbedder is what the use cases need from the embedding chain.
type combinedEmbedder interface {
	domain.Embedder
	domain.BatchEmbedder
}

// buildEmbedder assembles the embedding chain: OpenAI provider wrapped in the
// persistent cache. The cache honors the configured TTL through ttlStore.
func buildEmbedder(cfg config.Config, store db.Store, ks keyspace.Keyspace, logger *zap.Logger) combinedEmbedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Timeout:    time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:     logger,
	})

	cacheStore := &ttlStore{
		store: store,
		ttl:   time.Duration(cfg.Embedding.CacheTTL) * time.Second,
	}
	return embcache.New(base, cacheStore, ks, metrics.EmbeddingCacheTotal, logger)
}

// ttlStore adapts the key-value store so cache writes carry the configured
// expiry. A zero TTL stores entries without expiry.
type ttlStore struct {
	store db.KVStore
	ttl   time.Duration
}

func (t *ttlStore) Get(ctx context.Context, key string) ([]byte, error) {
	return t.store.Get(ctx, key)
}

func (t *ttlStore) Set(ctx context.Context, key string, value []byte) error {
	if t.ttl > 0 {
		return t.store.SetWithTTL(ctx, key, value, t.ttl)
	}
	return t.store.Set(ctx, key, value)
}

// embeddingHealthChecker narrows the embedder chain to health.EmbeddingChecker.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
