package pipeline

import (
	"context"
	"fmt"
	"strings"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
	"docuchat/internal/rag/storages/vectorstore"
	"docuchat/pkg/logger"
)

// RetrievalPipeline embeds a query, searches the vector store and assembles
// the context string fed to the chat model.
type RetrievalPipeline struct {
	embedder interfaces.Embedder
	store    interfaces.VectorStore
	log      *logger.Logger
}

// NewRetrievalPipeline creates a new RetrievalPipeline.
func NewRetrievalPipeline(embedder interfaces.Embedder, store interfaces.VectorStore, log *logger.Logger) *RetrievalPipeline {
	return &RetrievalPipeline{
		embedder: embedder,
		store:    store,
		log:      log,
	}
}

// EmbedQuery converts the query text into its embedding vector.
func (p *RetrievalPipeline) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	embeddings, err := p.embedder.EmbedBatch(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: embedder returned no vector for the query", schema.ErrEmbeddingUnavailable)
	}
	return embeddings[0], nil
}

// Search runs the similarity query. A non-positive threshold or topK falls
// back to the store defaults (0.78, 10).
func (p *RetrievalPipeline) Search(ctx context.Context, embedding []float32, threshold float64, topK int) ([]*schema.Retrieved, error) {
	if threshold <= 0 {
		threshold = vectorstore.DefaultThreshold
	}
	if topK <= 0 {
		topK = vectorstore.DefaultTopK
	}
	records, err := p.store.Query(ctx, embedding, threshold, topK)
	if err != nil {
		return nil, err
	}
	p.log.Debug(fmt.Sprintf("Retrieved %d records above threshold %.2f", len(records), threshold))
	return records, nil
}

// Run executes the full retrieval: embed the query, search the store, build
// the context. An empty hit set yields an empty context and no error.
func (p *RetrievalPipeline) Run(ctx context.Context, query string, threshold float64, topK int) (string, []*schema.Retrieved, error) {
	embedding, err := p.EmbedQuery(ctx, query)
	if err != nil {
		return "", nil, err
	}
	records, err := p.Search(ctx, embedding, threshold, topK)
	if err != nil {
		return "", nil, err
	}
	return BuildContext(records), records, nil
}

// BuildContext concatenates record contents in ranked order, separated by a
// blank line. The order is significant: generation treats earlier context as
// higher-relevance.
func BuildContext(records []*schema.Retrieved) string {
	var sb strings.Builder
	for i, rec := range records {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(rec.Content)
	}
	return sb.String()
}
