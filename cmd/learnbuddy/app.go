package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/learnbuddy/learnbuddy/cache"
	cachedisk "github.com/learnbuddy/learnbuddy/cache/disk"
	cachememory "github.com/learnbuddy/learnbuddy/cache/memory"
	cachenats "github.com/learnbuddy/learnbuddy/cache/natskv"
	"github.com/learnbuddy/learnbuddy/chunker"
	"github.com/learnbuddy/learnbuddy/config"
	"github.com/learnbuddy/learnbuddy/events"
	"github.com/learnbuddy/learnbuddy/library"
	"github.com/learnbuddy/learnbuddy/llm"
	"github.com/learnbuddy/learnbuddy/model"
	"github.com/learnbuddy/learnbuddy/question"
	"github.com/learnbuddy/learnbuddy/review"
)

// app holds the wired-up engines for one CLI invocation.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *library.FileStore
	generator *question.Generator
	reviewer  *review.Reviewer
	writer    *question.Writer
	publisher *events.Publisher

	nc *nats.Conn
}

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	logLevel   string
	dataDir    string
	outputDir  string
	cacheMode  string
}

// newApp loads configuration, applies flag overrides, and wires the
// generation and review engines.
func newApp(flags *rootFlags) (*app, error) {
	logger := newLogger(flags.logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(flags.configPath, logger)
	if err != nil {
		return nil, err
	}
	if flags.dataDir != "" {
		cfg.Library.DataDir = flags.dataDir
	}
	if flags.outputDir != "" {
		cfg.Output.Dir = flags.outputDir
	}
	if flags.cacheMode != "" {
		cfg.Cache.Backend = flags.cacheMode
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	if cfg.Events.URL != "" || cfg.Cache.Backend == config.CacheBackendNATS {
		a.nc, err = nats.Connect(cfg.Events.URL,
			nats.Name("learnbuddy"),
			nats.MaxReconnects(3))
		if err != nil {
			return nil, fmt.Errorf("connect to NATS: %w", err)
		}
	}

	store, err := a.buildCache()
	if err != nil {
		a.Close()
		return nil, err
	}

	registry := model.NewSingleEndpointRegistry("default", &model.EndpointConfig{
		Provider:  cfg.Model.Provider,
		URL:       cfg.Model.Endpoint,
		Model:     cfg.Model.Default,
		MaxTokens: cfg.Model.MaxTokens,
	})
	client := llm.NewClient(registry,
		llm.WithLogger(logger),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.Model.Timeout}))

	a.store = library.NewFileStore(cfg.Library.DataDir, cfg.Generator.TokensPerWord)

	planner, err := chunker.New(chunker.Config{
		MaxChunkTokens: cfg.Generator.MaxChunkTokens,
		MaxChunks:      cfg.Generator.MaxChunks,
		TokensPerWord:  cfg.Generator.TokensPerWord,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("configure chunk planner: %w", err)
	}

	a.generator = question.NewGenerator(a.store, client,
		question.WithCache(store),
		question.WithPlanner(planner),
		question.WithMaxWorkers(cfg.Generator.MaxWorkers),
		question.WithSingleBatchThreshold(cfg.Generator.SingleBatchThreshold),
		question.WithLogger(logger))

	a.reviewer = review.NewReviewer(client,
		review.WithCache(store),
		review.WithWeights(cfg.Review.Weights),
		review.WithMaxReviewChars(cfg.Review.MaxReviewChars),
		review.WithMaxWorkers(cfg.Review.MaxWorkers),
		review.WithLogger(logger))

	a.writer = question.NewWriter(cfg.Output.Dir)

	if cfg.Events.URL != "" {
		a.publisher = events.NewPublisher(a.nc, cfg.Events.SubjectPrefix, logger)
	}

	return a, nil
}

// buildCache assembles the configured cache backend, optionally fronted
// by the in-process LRU layer.
func (a *app) buildCache() (cache.Store, error) {
	var store cache.Store
	switch a.cfg.Cache.Backend {
	case config.CacheBackendNone:
		return cache.Nop{}, nil

	case config.CacheBackendDisk:
		disk, err := cachedisk.New(a.cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("open disk cache: %w", err)
		}
		store = disk

	case config.CacheBackendNATS:
		js, err := jetstream.New(a.nc)
		if err != nil {
			return nil, fmt.Errorf("open JetStream: %w", err)
		}
		kv, err := cachenats.New(context.Background(), js, a.cfg.Cache.Bucket)
		if err != nil {
			return nil, err
		}
		store = kv
	}

	if a.cfg.Cache.MemoryEntries > 0 {
		wrapped, err := cachememory.New(store, a.cfg.Cache.MemoryEntries)
		if err != nil {
			return nil, fmt.Errorf("wrap cache in memory layer: %w", err)
		}
		store = wrapped
	}
	return store, nil
}

// Close releases the app's connections.
func (a *app) Close() {
	if a.nc != nil {
		a.nc.Close()
	}
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// loadConfig prefers an explicit config path, falling back to the layered
// loader (user config, then project config, then defaults).
func loadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	if path != "" {
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
	return config.NewLoader(logger).Load()
}
