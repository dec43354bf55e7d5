package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/rag/schema"
	"docuchat/internal/rag/storages/vectorstore"
)

func chunksOf(texts ...string) []schema.Chunk {
	chunks := make([]schema.Chunk, len(texts))
	pos := 0
	for i, text := range texts {
		chunks[i] = schema.Chunk{Text: text, Index: i, Start: pos, End: pos + len([]rune(text))}
		pos = chunks[i].End
	}
	return chunks
}

func TestIngestion_StoresOneRecordPerChunk(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	p := NewIngestionPipeline(
		&fixedSplitter{chunks: chunksOf("first chunk", "second chunk", "third chunk")},
		&fakeEmbedder{vector: []float32{1, 0}},
		store,
		testLogger(),
	)

	events := make(chan *schema.Event, 16)
	err := p.Run(context.Background(), &fakeExtractor{text: "doc"}, "/tmp/report.txt", "report.txt", "text/plain", events)
	require.NoError(t, err)

	require.Equal(t, 3, store.Len())
	for i, rec := range store.Records() {
		assert.NotEmpty(t, rec.ID)
		assert.NotEmpty(t, rec.Content)
		assert.Equal(t, "report.txt", rec.Metadata[schema.MetadataKeyFileName])
		assert.Equal(t, "text/plain", rec.Metadata[schema.MetadataKeyContentType])
		assert.Equal(t, i+1, rec.Metadata[schema.MetadataKeyChunk], "chunk ordinals are 1-based and in order")
		assert.Equal(t, 3, rec.Metadata[schema.MetadataKeyTotalChunks])
	}

	got := collect(events)
	require.Len(t, got, 3)
	last := -1.0
	for _, ev := range got {
		assert.Equal(t, schema.EventProgress, ev.Kind)
		assert.Greater(t, ev.Progress, last, "progress must strictly increase")
		last = ev.Progress
	}
	assert.Equal(t, 100.0, got[len(got)-1].Progress)
}

func TestIngestion_SanitizesChunkText(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	p := NewIngestionPipeline(
		&fixedSplitter{chunks: chunksOf("dirty\x00text\x1fhere")},
		&fakeEmbedder{vector: []float32{1, 0}},
		store,
		testLogger(),
	)

	events := make(chan *schema.Event, 16)
	err := p.Run(context.Background(), &fakeExtractor{text: "doc"}, "/tmp/a.txt", "a.txt", "text/plain", events)
	require.NoError(t, err)

	require.Equal(t, 1, store.Len())
	assert.Equal(t, "dirtytexthere", store.Records()[0].Content)
}

func TestIngestion_EmptyDocument(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	p := NewIngestionPipeline(
		&fixedSplitter{},
		&fakeEmbedder{vector: []float32{1, 0}},
		store,
		testLogger(),
	)

	events := make(chan *schema.Event, 16)
	err := p.Run(context.Background(), &fakeExtractor{text: ""}, "/tmp/empty.txt", "empty.txt", "text/plain", events)
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	got := collect(events)
	require.Len(t, got, 1)
	assert.Equal(t, schema.EventProgress, got[0].Kind)
	assert.Equal(t, 100.0, got[0].Progress)
}

func TestIngestion_ExtractionFailure(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	p := NewIngestionPipeline(
		&fixedSplitter{},
		&fakeEmbedder{vector: []float32{1, 0}},
		store,
		testLogger(),
	)

	boom := fmt.Errorf("%w: unreadable file", schema.ErrExtraction)
	events := make(chan *schema.Event, 16)
	err := p.Run(context.Background(), &fakeExtractor{err: boom}, "/tmp/bad.pdf", "bad.pdf", "application/pdf", events)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrExtraction)
	assert.Equal(t, 0, store.Len())

	got := collect(events)
	require.Len(t, got, 1)
	assert.Equal(t, schema.EventError, got[0].Kind)
	assert.NotEmpty(t, got[0].Error)
}

func TestIngestion_MidDocumentFailureKeepsEarlierChunks(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	// The 3rd embedding call fails; chunks 1 and 2 stay stored.
	p := NewIngestionPipeline(
		&fixedSplitter{chunks: chunksOf("one", "two", "three", "four", "five")},
		&fakeEmbedder{vector: []float32{1, 0}, failOn: 3},
		store,
		testLogger(),
	)

	events := make(chan *schema.Event, 16)
	err := p.Run(context.Background(), &fakeExtractor{text: "doc"}, "/tmp/doc.txt", "doc.txt", "text/plain", events)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrEmbeddingUnavailable)

	require.Equal(t, 2, store.Len())
	assert.Equal(t, 1, store.Records()[0].Metadata[schema.MetadataKeyChunk])
	assert.Equal(t, 2, store.Records()[1].Metadata[schema.MetadataKeyChunk])

	got := collect(events)
	require.Len(t, got, 3)
	assert.Equal(t, schema.EventProgress, got[0].Kind)
	assert.Equal(t, schema.EventProgress, got[1].Kind)
	assert.Equal(t, schema.EventError, got[2].Kind, "the error event must be terminal")
}

func TestIngestion_CancelledContext(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	p := NewIngestionPipeline(
		&fixedSplitter{chunks: chunksOf("one", "two")},
		&fakeEmbedder{vector: []float32{1, 0}},
		store,
		testLogger(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := make(chan *schema.Event, 16)
	err := p.Run(ctx, &fakeExtractor{text: "doc"}, "/tmp/doc.txt", "doc.txt", "text/plain", events)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, store.Len())
}
