// evsearch serves the Evvalley search API: natural-language query parsing
// and tiered semantic vehicle search.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/evvalley/search-api/internal/cache/redis"
	"github.com/evvalley/search-api/internal/config"
	"github.com/evvalley/search-api/internal/domain"
	"github.com/evvalley/search-api/internal/logger"
	"github.com/evvalley/search-api/internal/metrics"
	"github.com/evvalley/search-api/internal/repository/embcache"
	listingrepo "github.com/evvalley/search-api/internal/repository/listing"
	"github.com/evvalley/search-api/internal/repository/searchindex"
	transport "github.com/evvalley/search-api/internal/transport/chi"
	openaitransport "github.com/evvalley/search-api/internal/transport/openai"
	"github.com/evvalley/search-api/internal/usecase/health"
	"github.com/evvalley/search-api/internal/usecase/search"
	"github.com/evvalley/search-api/internal/usecase/semantic"
	"github.com/evvalley/search-api/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "evsearch: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting evsearch",
		zap.String("env", env),
		zap.String("version", version.Version),
		zap.Int("port", cfg.HTTP.Port),
	)

	metrics.Register()

	db, err := openDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	listings := listingrepo.New(db)
	index := searchindex.New(db)

	checker := health.NewChecker(3 * time.Second)
	checker.Add("database", health.PingFunc(listings.Ping))

	embedder, cacheStore := buildEmbedder(cfg, log)
	if cacheStore != nil {
		defer cacheStore.Close()
		checker.Add("cache", health.PingFunc(cacheStore.Ping))
	}
	if hc, ok := embedder.(domain.HealthChecker); ok {
		checker.Add("embedding", health.PingFunc(hc.HealthCheck))
	}

	searchSvc := search.New(log)
	semanticSvc := semantic.New(embedder, index, listings, semantic.Config{
		SimilarityThreshold: cfg.Search.SimilarityThreshold,
		MatchLimit:          cfg.Search.MatchLimit,
		KeywordLimit:        cfg.Search.KeywordLimit,
	}, log)

	srv := transport.New(searchSvc, semanticSvc, checker, cfg.Auth.APIKeys, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMin) * time.Minute)

	return db, nil
}

// buildEmbedder assembles the embedder chain: OpenAI transport wrapped in
// the Redis cache when one is configured. Returns nil when no API key is
// set; semantic search then degrades and reports missing_openai_key.
func buildEmbedder(cfg config.Config, log *zap.Logger) (domain.Embedder, *redis.Store) {
	if cfg.Embedding.APIKey == "" {
		log.Warn("no embedding api key configured, semantic search disabled")
		return nil, nil
	}

	var embedder domain.Embedder = openaitransport.NewEmbedder(&openaitransport.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Logger:     log,
	})

	if len(cfg.Cache.Addrs) == 0 {
		return embedder, nil
	}

	store, err := redis.NewStore(redis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		log.Warn("embedding cache unavailable, continuing without it", zap.Error(err))
		return embedder, nil
	}

	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	cached := embcache.New(embedder, store, ttl, metrics.EmbeddingCacheTotal, log)
	return cached, store
}
