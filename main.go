package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"grounder/config"
	"grounder/database"
	"grounder/llmclient"
	"grounder/rag"
	"grounder/sources"
	"grounder/web"
	"grounder/web/handlers"
	"grounder/web/services"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info", "console")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level setting)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level and format
	logger, err := config.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	embedder := llmclient.New(cfg.EmbeddingHost, cfg.EmbeddingTimeout, logger)

	var (
		provider     rag.RetrievalProvider
		providerPing handlers.Pinger
		store        *database.PostgresStore
	)

	switch cfg.RetrievalProvider {
	case "", "postgres":
		store, err = database.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer store.Close()

		if err := store.EnsureSchema(ctx, cfg.EmbeddingDimensions); err != nil {
			logger.Fatal("Failed to ensure database schema", zap.Error(err))
		}
		if count, err := store.CountFragments(ctx); err == nil {
			logger.Info("Fragment store ready", zap.Int("fragments", count))
		}
		provider, providerPing = store, store

	case "qdrant":
		source, err := sources.NewQdrantSource(sources.QdrantConfig{
			Host:       cfg.QdrantHost,
			Port:       cfg.QdrantPort,
			APIKey:     cfg.QdrantAPIKey,
			Collection: cfg.QdrantCollection,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize qdrant source", zap.Error(err))
		}
		provider, providerPing = source, source

	case "webindex":
		source, err := sources.NewWebIndexSource(sources.WebIndexConfig{
			BaseURL: cfg.WebIndexURL,
			APIKey:  cfg.WebIndexAPIKey,
			Timeout: cfg.WebIndexTimeout,
		}, logger)
		if err != nil {
			logger.Fatal("Failed to initialize web index source", zap.Error(err))
		}
		provider, providerPing = source, source

	default:
		logger.Fatal("Unknown retrieval provider", zap.String("provider", cfg.RetrievalProvider))
	}

	pipeline, err := rag.NewPipeline(rag.Config{
		KNearestNeighbors:   cfg.KNearestNeighborsCount,
		TopPerVariant:       cfg.TopPerVariant,
		MaxPerParent:        cfg.MaxPerParent,
		MaxTotalAfterFusion: cfg.MaxTotalAfterFusion,
		MinTopScore:         cfg.MinTopScore,
		MinScoreGap:         cfg.MinScoreGap,
		MaxContextTokens:    cfg.MaxContextTokens,
		SentenceLimit:       cfg.SentenceLimit,
		SortByScore:         cfg.SortByScore,
		Splitter:            cfg.SentenceSplitter,
	}, embedder, provider, logger)
	if err != nil {
		logger.Fatal("Failed to initialize retrieval pipeline", zap.Error(err))
	}

	contextService := services.NewContextService(pipeline, logger)

	webServer, err := web.NewServer(contextService, store, embedder, providerPing, logger, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize web server", zap.Error(err))
	}

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start web server
	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting grounder web server", zap.String("port", port))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}
