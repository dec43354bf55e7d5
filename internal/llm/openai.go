package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	openai "github.com/meguminnnnnnnnn/go-openai"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// OpenAI is a streaming chat client for the OpenAI API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a new OpenAI chat client.
func NewOpenAI(opts Options) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai llm: API key is required")
	}
	config := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		config.BaseURL = opts.BaseURL
	}
	if opts.HTTPTimeout > 0 {
		config.HTTPClient = &http.Client{Timeout: opts.HTTPTimeout}
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  opts.Model,
	}, nil
}

// GenerateStream opens a streaming chat completion and forwards each received
// delta on the returned channel. The channel is closed when the provider
// finishes; a mid-stream failure is delivered as a final Delta with Err set.
func (o *OpenAI) GenerateStream(ctx context.Context, req *schema.GenerateRequest) (<-chan schema.Delta, error) {
	openaiReq := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}

	stream, err := o.client.CreateChatCompletionStream(ctx, openaiReq)
	if err != nil {
		return nil, fmt.Errorf("%w: openai create stream: %v", schema.ErrGeneration, err)
	}

	deltas := make(chan schema.Delta)
	go func() {
		defer close(deltas)
		defer stream.Close()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				emit(ctx, deltas, schema.Delta{Err: fmt.Errorf("%w: openai stream: %v", schema.ErrGeneration, err)})
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if token := resp.Choices[0].Delta.Content; token != "" {
				if !emit(ctx, deltas, schema.Delta{Content: token}) {
					return
				}
			}
		}
	}()

	return deltas, nil
}

// emit sends a delta unless the caller has gone away.
func emit(ctx context.Context, ch chan<- schema.Delta, d schema.Delta) bool {
	select {
	case ch <- d:
		return true
	case <-ctx.Done():
		return false
	}
}

// compile-time check to ensure OpenAI implements the ChatModel interface
var _ interfaces.ChatModel = (*OpenAI)(nil)
