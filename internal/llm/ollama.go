package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ollama "github.com/ollama/ollama/api"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// Ollama is a streaming chat client for a local or remote Ollama server.
type Ollama struct {
	client *ollama.Client
	model  string
}

// NewOllama creates a new Ollama chat client. An empty base URL defaults to
// the local Ollama daemon.
func NewOllama(opts Options) (*Ollama, error) {
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

	return &Ollama{client: client, model: opts.Model}, nil
}

// GenerateStream opens a streaming chat request and forwards each received
// segment on the returned channel. The channel is closed when the stream
// ends; a mid-stream failure is delivered as a final Delta with Err set.
func (o *Ollama) GenerateStream(ctx context.Context, req *schema.GenerateRequest) (<-chan schema.Delta, error) {
	stream := true
	chatReq := &ollama.ChatRequest{
		Model: o.model,
		Messages: []ollama.Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		Stream: &stream,
		Options: map[string]interface{}{
			"temperature": req.Temperature,
			"num_predict": req.MaxTokens,
		},
	}

	deltas := make(chan schema.Delta)
	go func() {
		defer close(deltas)

		err := o.client.Chat(ctx, chatReq, func(resp ollama.ChatResponse) error {
			if resp.Message.Content == "" {
				return nil
			}
			if !emit(ctx, deltas, schema.Delta{Content: resp.Message.Content}) {
				return ctx.Err()
			}
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			emit(ctx, deltas, schema.Delta{Err: fmt.Errorf("%w: ollama chat: %v", schema.ErrGeneration, err)})
		}
	}()

	return deltas, nil
}

// compile-time check to ensure Ollama implements the ChatModel interface
var _ interfaces.ChatModel = (*Ollama)(nil)
