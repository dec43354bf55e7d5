package embedding

import (
	"context"
	"fmt"
	"net/http"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// OpenAIModel is an embedding client for the OpenAI API.
type OpenAIModel struct {
	client *openai.Client
	model  string
}

// NewOpenAIModel creates a new OpenAIModel client.
func NewOpenAIModel(opts Options) (*OpenAIModel, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai embedding: API key is required")
	}
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	if opts.HTTPTimeout > 0 {
		config.HTTPClient = &http.Client{Timeout: opts.HTTPTimeout}
	}
	return &OpenAIModel{
		client: openai.NewClientWithConfig(config),
		model:  opts.Model,
	}, nil
}

// Embed generates the embedding vector for a single text.
func (m *OpenAIModel) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embedding vectors for a batch of texts, one vector per
// input in the same order.
func (m *OpenAIModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(m.model),
	}

	resp, err := m.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: openai create embeddings: %v", schema.ErrEmbeddingUnavailable, err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: openai returned %d embeddings for %d inputs", schema.ErrEmbeddingUnavailable, len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}
	return embeddings, nil
}

// compile-time check to ensure OpenAIModel implements the Embedder interface
var _ interfaces.Embedder = (*OpenAIModel)(nil)
