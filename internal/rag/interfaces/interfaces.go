package interfaces

import (
	"context"

	"docuchat/internal/rag/schema"
)

// Extractor is the interface for turning a staged file into raw text. It is
// polymorphic over the input format (plain text, PDF, HTML, ...).
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Splitter is the interface for splitting raw text into an ordered sequence
// of overlapping chunks.
type Splitter interface {
	Split(text string) []schema.Chunk
}

// Embedder is the interface for a text embedding model. EmbedBatch preserves
// input order one-to-one and must not silently drop or reorder inputs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorStore is the interface for storing and querying embedded records.
type VectorStore interface {
	// Upsert commits one record and returns its id. The write is not
	// partially applied on failure.
	Upsert(ctx context.Context, rec *schema.Document) (string, error)

	// Query returns at most topK records whose similarity to embedding is at
	// least threshold, sorted descending by similarity. An empty result is
	// not an error.
	Query(ctx context.Context, embedding []float32, threshold float64, topK int) ([]*schema.Retrieved, error)
}

// ChatModel is the interface for a chat model that streams its answer. The
// returned channel is closed when the stream ends; a mid-stream failure is
// delivered as a final Delta with Err set.
type ChatModel interface {
	GenerateStream(ctx context.Context, req *schema.GenerateRequest) (<-chan schema.Delta, error)
}
