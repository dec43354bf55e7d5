package pipeline

import (
	"context"
	"fmt"

	"docuchat/internal/rag/schema"
	"docuchat/pkg/logger"
)

// testLogger returns a logger for pipeline tests.
func testLogger() *logger.Logger {
	return logger.New("test")
}

// fakeExtractor returns fixed text or a fixed error.
type fakeExtractor struct {
	text string
	err  error
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) (string, error) {
	return f.text, f.err
}

// fixedSplitter returns a preset chunk sequence regardless of input.
type fixedSplitter struct {
	chunks []schema.Chunk
}

func (f *fixedSplitter) Split(text string) []schema.Chunk {
	return f.chunks
}

// fakeEmbedder returns a constant vector per call and can be primed to fail
// on the n-th call (1-based).
type fakeEmbedder struct {
	vector []float32
	failOn int
	calls  int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.failOn > 0 && f.calls == f.failOn {
		return nil, fmt.Errorf("%w: embedding backend rejected the request", schema.ErrEmbeddingUnavailable)
	}
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vector, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out = append(out, vector)
	}
	return out, nil
}

// fakeChatModel streams a preset delta sequence.
type fakeChatModel struct {
	deltas   []schema.Delta
	startErr error
}

func (f *fakeChatModel) GenerateStream(ctx context.Context, req *schema.GenerateRequest) (<-chan schema.Delta, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	ch := make(chan schema.Delta, len(f.deltas))
	for _, d := range f.deltas {
		ch <- d
	}
	close(ch)
	return ch, nil
}

// collect drains a closed event channel into a slice.
func collect(events <-chan *schema.Event) []*schema.Event {
	var out []*schema.Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}
