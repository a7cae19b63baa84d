package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"knowitall/internal/agent"
	"knowitall/internal/config"
	"knowitall/internal/http"
	"knowitall/internal/llm"
	"knowitall/internal/manifest"
	"knowitall/internal/poller"
	"knowitall/internal/reconcile"
	"knowitall/internal/storage"
	"knowitall/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database for entry texts
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	entryRepo := storage.NewEntryRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding client vector size (fail-fast)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d", cfg.QdrantVectorSize)
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create reconciler over the watch directory
	manifestStore := manifest.NewStore(cfg.ManifestPath)
	reconciler := reconcile.New(
		manifestStore,
		vectorStore,
		entryRepo,
		embedder,
		cfg.QdrantCollection,
		cfg.WatchDir,
	)

	// Create chat client and query agent
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)
	queryAgent := agent.New(embedder, vectorStore, entryRepo, llmClient, cfg.QdrantCollection, cfg.TopK)
	slog.Info("Query agent initialized", "top_k", cfg.TopK)

	// Run reconciliation on a ticker, with an immediate-resync trigger
	syncPoller := poller.New(cfg.SyncInterval, func(ctx context.Context) {
		report, err := reconciler.Reconcile(ctx)
		if err != nil {
			slog.Error("Reconciliation pass failed", "error", err)
			return
		}
		slog.Info("Reconciliation pass finished",
			"files_seen", report.FilesSeen,
			"files_indexed", report.FilesIndexed,
			"files_removed", report.FilesRemoved,
			"entries_embedded", report.EntriesEmbedded,
			"entries_skipped", report.EntriesSkipped,
			"errors", report.Errors,
		)
	})

	deps := &http.Deps{
		Agent:          queryAgent,
		Syncer:         syncPoller,
		VectorStore:    vectorStore,
		ManifestStore:  manifestStore,
		CollectionName: cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	go func() {
		slog.Info("Starting sync loop", "watch_dir", cfg.WatchDir, "interval", cfg.SyncInterval.String())
		syncPoller.Run(context.Background())
	}()

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
