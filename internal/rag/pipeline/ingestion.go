// Package pipeline contains the ingestion, retrieval and generation
// pipelines that compose the chunker, sanitizer, embedder, vector store and
// chat model into the two halves of the system: the document write path and
// the question/answer read path.
package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/sanitize"
	"docuchat/internal/rag/schema"
	"docuchat/pkg/logger"
)

// IngestionPipeline turns one document into a stored, embedded and
// metadata-tagged set of records, emitting progress events as it goes.
//
// Ingestion is deliberately non-transactional: chunks are embedded and
// upserted strictly in index order, and a failure on chunk i aborts the rest
// while chunks 0..i-1 stay stored. Callers observe the failure as a single
// terminal error event.
type IngestionPipeline struct {
	splitter interfaces.Splitter
	embedder interfaces.Embedder
	store    interfaces.VectorStore
	log      *logger.Logger
}

// NewIngestionPipeline creates a new IngestionPipeline.
func NewIngestionPipeline(
	splitter interfaces.Splitter,
	embedder interfaces.Embedder,
	store interfaces.VectorStore,
	log *logger.Logger,
) *IngestionPipeline {
	return &IngestionPipeline{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		log:      log,
	}
}

// Run extracts the file at path, splits it into chunks and stores one
// embedded record per chunk. One progress event is emitted after each
// successful upsert; a failure emits one terminal error event instead.
// The events channel is closed when Run returns.
func (p *IngestionPipeline) Run(
	ctx context.Context,
	extractor interfaces.Extractor,
	path, filename, contentType string,
	events chan<- *schema.Event,
) error {
	defer close(events)

	p.log.Info(fmt.Sprintf("Starting ingestion for %s", filename))

	text, err := extractor.Extract(ctx, path)
	if err != nil {
		return p.fail(events, err)
	}

	chunks := p.splitter.Split(text)
	total := len(chunks)
	if total == 0 {
		p.log.Warn(fmt.Sprintf("Document %s produced no chunks", filename))
		events <- schema.NewProgress(100)
		return nil
	}
	p.log.Info(fmt.Sprintf("Split %s into %d chunks", filename, total))

	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return p.fail(events, err)
		}

		cleaned := sanitize.Clean(chunk.Text)

		vector, err := p.embedder.Embed(ctx, cleaned)
		if err != nil {
			return p.fail(events, fmt.Errorf("chunk %d/%d: %w", chunk.Index+1, total, err))
		}

		rec := &schema.Document{
			ID:        uuid.New().String(),
			Content:   cleaned,
			Embedding: vector,
			Metadata: map[string]interface{}{
				schema.MetadataKeyFileName:    filename,
				schema.MetadataKeyContentType: contentType,
				schema.MetadataKeyChunk:       chunk.Index + 1,
				schema.MetadataKeyTotalChunks: total,
			},
		}

		if _, err := p.store.Upsert(ctx, rec); err != nil {
			return p.fail(events, fmt.Errorf("chunk %d/%d: %w", chunk.Index+1, total, err))
		}

		events <- schema.NewProgress(math.Round(100 * float64(chunk.Index+1) / float64(total)))
	}

	p.log.Info(fmt.Sprintf("Finished ingestion for %s (%d chunks)", filename, total))
	return nil
}

// fail emits the terminal error event and passes the error back up.
func (p *IngestionPipeline) fail(events chan<- *schema.Event, err error) error {
	p.log.WithError(err).Error("Ingestion failed")
	events <- schema.NewError(err)
	return err
}
