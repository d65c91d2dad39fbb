// evindexer maintains the vehicle_embeddings vector index, either as a
// one-shot run (-once) or on a cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
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
	openaitransport "github.com/evvalley/search-api/internal/transport/openai"
	"github.com/evvalley/search-api/internal/usecase/indexer"
	"github.com/evvalley/search-api/internal/version"
)

func main() {
	once := flag.Bool("once", false, "run a single reindex pass and exit")
	flag.Parse()

	if err := run(*once); err != nil {
		fmt.Fprintf(os.Stderr, "evindexer: %v\n", err)
		os.Exit(1)
	}
}

func run(once bool) error {
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

	if cfg.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required for indexing")
	}

	log.Info("starting evindexer",
		zap.String("env", env),
		zap.String("version", version.Version),
		zap.Bool("once", once),
		zap.String("schedule", cfg.Indexer.Schedule),
	)

	metrics.Register()

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	embedder, store := buildEmbedder(cfg, log)
	if store != nil {
		defer store.Close()
	}

	ix := indexer.New(
		listingrepo.New(db),
		searchindex.New(db),
		embedder,
		cfg.Indexer.BatchSize,
		log,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if once {
		_, err := ix.Reindex(ctx)
		return err
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.Indexer.Schedule, func() {
		if _, err := ix.Reindex(ctx); err != nil {
			log.Error("scheduled reindex failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Indexer.Schedule, err)
	}

	c.Start()
	<-ctx.Done()

	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(30 * time.Second):
		log.Warn("timed out waiting for running job")
	}
	return nil
}

// buildEmbedder mirrors the evsearch chain; indexing reuses the same Redis
// cache so a freshly indexed document does not re-bill on first search.
func buildEmbedder(cfg config.Config, log *zap.Logger) (domain.Embedder, *redis.Store) {
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
	return embcache.New(embedder, store, ttl, metrics.EmbeddingCacheTotal, log), store
}
