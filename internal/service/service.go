// Package service wires the configured providers, store and pipelines into
// the operations exposed by the HTTP layer.
package service

import (
	"context"
	"fmt"
	"time"

	"docuchat/internal/config"
	"docuchat/internal/database/milvus"
	"docuchat/internal/embedding"
	"docuchat/internal/llm"
	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/loaders"
	"docuchat/internal/rag/pipeline"
	"docuchat/internal/rag/schema"
	"docuchat/internal/rag/splitters"
	"docuchat/internal/rag/storages/vectorstore"
	"docuchat/pkg/logger"
)

// RAGService owns the pipelines for the document write path and the
// question/answer read path. All collaborators are constructed once here and
// passed by reference; there is no process-wide shared state beyond the
// vector store itself.
type RAGService struct {
	cfg *config.AppConfig
	log *logger.Logger

	store        interfaces.VectorStore
	milvusClient *milvus.Client // nil when the memory store is configured

	ingestion    *pipeline.IngestionPipeline
	orchestrator *pipeline.GenerationOrchestrator
}

// New builds a RAGService from the configuration. The chunking policy is
// validated here, before any I/O.
func New(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (*RAGService, error) {
	splitter, err := splitters.NewCharacterSplitter(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.New(cfg.Embedding.Provider, embedding.Options{
		Model:       cfg.Embedding.Model,
		APIKey:      cfg.Embedding.APIKey,
		BaseURL:     cfg.Embedding.BaseURL,
		HTTPTimeout: parseTimeout(cfg.Embedding.HTTPTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	chat, err := llm.New(cfg.LLM.Provider, llm.Options{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		HTTPTimeout: parseTimeout(cfg.LLM.HTTPTimeout),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	svc := &RAGService{cfg: cfg, log: log}

	switch cfg.VectorStore.Provider {
	case "memory":
		svc.store = vectorstore.NewMemoryStore()
		log.Warn("Using the in-memory vector store; records will not survive a restart")
	case "milvus", "":
		milvusClient, err := milvus.NewClient(ctx, &cfg.VectorStore.Milvus, cfg.Embedding.Dimension, log)
		if err != nil {
			return nil, err
		}
		if err := milvusClient.EnsureCollection(ctx); err != nil {
			return nil, err
		}
		store, err := vectorstore.NewMilvusStore(milvusClient, log)
		if err != nil {
			return nil, err
		}
		svc.milvusClient = milvusClient
		svc.store = store
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", cfg.VectorStore.Provider)
	}

	retrieval := pipeline.NewRetrievalPipeline(embedder, svc.store, log)
	svc.ingestion = pipeline.NewIngestionPipeline(splitter, embedder, svc.store, log)
	svc.orchestrator = pipeline.NewGenerationOrchestrator(retrieval, chat, log)

	return svc, nil
}

// Ingest stores the staged file at path as embedded records, reporting
// progress on events. The extractor is chosen by the file's detected type.
// The events channel is closed when Ingest returns.
func (s *RAGService) Ingest(ctx context.Context, path, filename, contentType string, events chan<- *schema.Event) error {
	extractor, err := loaders.ForFile(path)
	if err != nil {
		s.log.WithError(err).Error("No extractor for uploaded file")
		events <- schema.NewError(err)
		close(events)
		return err
	}
	return s.ingestion.Run(ctx, extractor, path, filename, contentType, events)
}

// Answer streams the answer to query over the stored records. maxTokens
// overrides the configured cap when positive. The events channel is closed
// when Answer returns.
func (s *RAGService) Answer(ctx context.Context, query string, maxTokens int, events chan<- *schema.Event) error {
	opts := pipeline.GenerationOptions{
		Threshold:   s.cfg.Retrieval.Threshold,
		TopK:        s.cfg.Retrieval.TopK,
		MaxTokens:   s.cfg.LLM.MaxTokens,
		Temperature: s.cfg.LLM.Temperature,
	}
	if maxTokens > 0 {
		opts.MaxTokens = maxTokens
	}
	return s.orchestrator.Run(ctx, query, opts, events)
}

// HealthCheck verifies the vector store is reachable.
func (s *RAGService) HealthCheck(ctx context.Context) error {
	if s.milvusClient != nil {
		return s.milvusClient.HealthCheck(ctx)
	}
	return nil
}

// Close releases the store connection.
func (s *RAGService) Close() {
	if s.milvusClient != nil {
		s.milvusClient.Close()
	}
}

// parseTimeout converts a config duration string into a time.Duration,
// treating empty or invalid values as "use the client default".
func parseTimeout(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
