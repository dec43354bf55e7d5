package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/rag/schema"
	"docuchat/internal/rag/storages/vectorstore"
)

// newOrchestrator wires an orchestrator over a memory store holding the
// given records, a constant embedder and the given chat model.
func newOrchestrator(t *testing.T, chat *fakeChatModel, contents ...string) *GenerationOrchestrator {
	t.Helper()
	store := vectorstore.NewMemoryStore()
	for i, content := range contents {
		_, err := store.Upsert(context.Background(), &schema.Document{
			ID:        fmt.Sprintf("rec-%d", i),
			Content:   content,
			Embedding: []float32{1, 0},
		})
		require.NoError(t, err)
	}
	retrieval := NewRetrievalPipeline(&fakeEmbedder{vector: []float32{1, 0}}, store, testLogger())
	return NewGenerationOrchestrator(retrieval, chat, testLogger())
}

func TestGeneration_StreamsStagesAndAnswer(t *testing.T) {
	chat := &fakeChatModel{deltas: []schema.Delta{
		{Content: "Paris "},
		{Content: "is the "},
		{Content: "capital."},
	}}
	o := newOrchestrator(t, chat, "The capital of France is Paris.")

	events := make(chan *schema.Event, 64)
	err := o.Run(context.Background(), "What is the capital of France?", GenerationOptions{}, events)
	require.NoError(t, err)

	got := collect(events)
	// Four staged progress events, one content event per delta, one final
	// content event at 100.
	require.Len(t, got, 8)

	for i, want := range []float64{0, 10, 20, 30} {
		assert.Equal(t, schema.EventProgress, got[i].Kind)
		assert.Equal(t, want, got[i].Progress)
	}

	wantContents := []string{"Paris ", "Paris is the ", "Paris is the capital."}
	for i, ev := range got[4:7] {
		assert.Equal(t, schema.EventContent, ev.Kind)
		assert.Equal(t, wantContents[i], ev.Content, "content must accumulate in delta order")
		require.Len(t, ev.References, 1, "every content event repeats the full reference list")
		assert.Equal(t, "The capital of France is Paris.", ev.References[0].Content)
	}

	final := got[7]
	assert.Equal(t, schema.EventContent, final.Kind)
	assert.Equal(t, 100.0, final.Progress)
	assert.Equal(t, "Paris is the capital.", final.Content)
	require.Len(t, final.References, 1)

	last := -1.0
	for _, ev := range got {
		assert.GreaterOrEqual(t, ev.Progress, last, "progress must never decrease")
		last = ev.Progress
	}
}

func TestGeneration_EmptyStoreStillAnswers(t *testing.T) {
	chat := &fakeChatModel{deltas: []schema.Delta{{Content: "I don't know."}}}
	o := newOrchestrator(t, chat)

	events := make(chan *schema.Event, 64)
	err := o.Run(context.Background(), "Anything?", GenerationOptions{}, events)
	require.NoError(t, err)

	got := collect(events)
	final := got[len(got)-1]
	assert.Equal(t, schema.EventContent, final.Kind)
	assert.Equal(t, 100.0, final.Progress)
	assert.Equal(t, "I don't know.", final.Content)
	assert.Empty(t, final.References)
}

func TestGeneration_MidStreamFailure(t *testing.T) {
	chat := &fakeChatModel{deltas: []schema.Delta{
		{Content: "Par"},
		{Err: fmt.Errorf("%w: stream reset", schema.ErrGeneration)},
	}}
	o := newOrchestrator(t, chat, "context")

	events := make(chan *schema.Event, 64)
	err := o.Run(context.Background(), "question", GenerationOptions{}, events)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrGeneration)

	got := collect(events)
	require.NotEmpty(t, got)
	terminal := got[len(got)-1]
	assert.Equal(t, schema.EventError, terminal.Kind, "the error event must be the last event")
	assert.NotEmpty(t, terminal.Error)

	errorEvents := 0
	for _, ev := range got {
		if ev.Kind == schema.EventError {
			errorEvents++
		}
	}
	assert.Equal(t, 1, errorEvents, "exactly one terminal error event")
}

func TestGeneration_StartFailure(t *testing.T) {
	chat := &fakeChatModel{startErr: fmt.Errorf("%w: model unavailable", schema.ErrGeneration)}
	o := newOrchestrator(t, chat, "context")

	events := make(chan *schema.Event, 64)
	err := o.Run(context.Background(), "question", GenerationOptions{}, events)
	require.Error(t, err)

	got := collect(events)
	require.Len(t, got, 5)
	assert.Equal(t, schema.EventError, got[4].Kind)
}

func TestGeneration_ProgressCapAtMaxTokens(t *testing.T) {
	// With a 2-token cap, the second and third deltas both land on the
	// 100% ceiling; progress must not exceed it.
	chat := &fakeChatModel{deltas: []schema.Delta{
		{Content: "a"}, {Content: "b"}, {Content: "c"},
	}}
	o := newOrchestrator(t, chat, "context")

	events := make(chan *schema.Event, 64)
	err := o.Run(context.Background(), "question", GenerationOptions{MaxTokens: 2}, events)
	require.NoError(t, err)

	for _, ev := range collect(events) {
		assert.LessOrEqual(t, ev.Progress, 100.0)
	}
}

func TestGeneration_EmbedFailureIsTerminal(t *testing.T) {
	store := vectorstore.NewMemoryStore()
	retrieval := NewRetrievalPipeline(&fakeEmbedder{vector: []float32{1, 0}, failOn: 1}, store, testLogger())
	o := NewGenerationOrchestrator(retrieval, &fakeChatModel{}, testLogger())

	events := make(chan *schema.Event, 64)
	err := o.Run(context.Background(), "question", GenerationOptions{}, events)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrEmbeddingUnavailable)

	got := collect(events)
	// Progress 0 first, then the terminal error.
	require.Len(t, got, 2)
	assert.Equal(t, schema.EventProgress, got[0].Kind)
	assert.Equal(t, schema.EventError, got[1].Kind)
}
