package pipeline

import (
	"context"
	"fmt"
	"math"
	"strings"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
	"docuchat/pkg/logger"
)

// DefaultSystemPrompt is the fixed instruction sent with every generation.
const DefaultSystemPrompt = "You are a helpful assistant. Use the provided context to answer questions."

// defaultMaxTokens bounds generation when the caller does not set a cap.
// It also scales the 30–100% band of the progress computation.
const defaultMaxTokens = 2000

// GenerationOptions tunes one generation request.
type GenerationOptions struct {
	Threshold   float64 // similarity threshold for retrieval; 0 means default
	TopK        int     // retrieval record cap; 0 means default
	MaxTokens   int     // generation token cap; 0 means defaultMaxTokens
	Temperature float32
}

// GenerationOrchestrator drives retrieval and then streams a completion from
// the chat model, interleaving retrieval progress, generation progress and
// the accumulating answer plus its sources as one ordered event stream.
//
// Events are emitted in causal order and the stream is append-only. Any stage
// failure emits exactly one terminal error event and closes the stream; no
// retries are performed.
type GenerationOrchestrator struct {
	retrieval *RetrievalPipeline
	chat      interfaces.ChatModel
	log       *logger.Logger
}

// NewGenerationOrchestrator creates a new GenerationOrchestrator.
func NewGenerationOrchestrator(retrieval *RetrievalPipeline, chat interfaces.ChatModel, log *logger.Logger) *GenerationOrchestrator {
	return &GenerationOrchestrator{
		retrieval: retrieval,
		chat:      chat,
		log:       log,
	}
}

// Run answers query over the stored records, writing the event stream to
// events. The channel is closed when Run returns. The final event of a
// successful stream carries progress 100, the complete answer and the full
// reference list.
func (o *GenerationOrchestrator) Run(ctx context.Context, query string, opts GenerationOptions, events chan<- *schema.Event) error {
	defer close(events)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	events <- schema.NewProgress(0)

	embedding, err := o.retrieval.EmbedQuery(ctx, query)
	if err != nil {
		return o.fail(events, err)
	}
	events <- schema.NewProgress(10)

	records, err := o.retrieval.Search(ctx, embedding, opts.Threshold, opts.TopK)
	if err != nil {
		return o.fail(events, err)
	}
	events <- schema.NewProgress(20)

	contextText := BuildContext(records)
	events <- schema.NewProgress(30)

	req := &schema.GenerateRequest{
		System:      DefaultSystemPrompt,
		Prompt:      fmt.Sprintf("Context: %s\n\nQuestion: %s", contextText, query),
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
	}
	deltas, err := o.chat.GenerateStream(ctx, req)
	if err != nil {
		return o.fail(events, err)
	}

	var answer strings.Builder
	tokens := 0
	for delta := range deltas {
		if delta.Err != nil {
			return o.fail(events, delta.Err)
		}
		answer.WriteString(delta.Content)
		tokens++
		progress := math.Min(30+70*float64(tokens)/float64(maxTokens), 100)
		events <- schema.NewContent(answer.String(), progress, records)
	}

	if err := ctx.Err(); err != nil {
		return o.fail(events, err)
	}

	events <- schema.NewContent(answer.String(), 100, records)
	o.log.Info(fmt.Sprintf("Generation finished after %d segments with %d references", tokens, len(records)))
	return nil
}

// fail emits the terminal error event and passes the error back up.
func (o *GenerationOrchestrator) fail(events chan<- *schema.Event, err error) error {
	o.log.WithError(err).Error("Generation failed")
	events <- schema.NewError(err)
	return err
}
