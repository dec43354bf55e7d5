package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ollama "github.com/ollama/ollama/api"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// OllamaModel is an embedding client for a local or remote Ollama server.
type OllamaModel struct {
	client *ollama.Client
	model  string
}

// NewOllamaModel creates a new OllamaModel client. An empty base URL defaults
// to the local Ollama daemon.
func NewOllamaModel(opts Options) (*OllamaModel, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base URL: %w", err)
	}

	timeout := opts.HTTPTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	client := ollama.NewClient(parsedURL, &http.Client{Timeout: timeout})

	return &OllamaModel{client: client, model: opts.Model}, nil
}

// Embed generates the embedding vector for a single text.
func (m *OllamaModel) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := m.client.Embed(ctx, &ollama.EmbedRequest{
		Model: m.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ollama embed: %v", schema.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: ollama returned no embeddings", schema.ErrEmbeddingUnavailable)
	}
	return resp.Embeddings[0], nil
}

// EmbedBatch generates embedding vectors for a batch of texts using Ollama's
// batch embedding endpoint, which preserves input order.
func (m *OllamaModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := m.client.Embed(ctx, &ollama.EmbedRequest{
		Model: m.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: ollama embed batch: %v", schema.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("%w: ollama returned %d embeddings for %d inputs", schema.ErrEmbeddingUnavailable, len(resp.Embeddings), len(texts))
	}
	return resp.Embeddings, nil
}

// compile-time check to ensure OllamaModel implements the Embedder interface
var _ interfaces.Embedder = (*OllamaModel)(nil)
