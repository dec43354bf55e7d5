// Package llm provides streaming clients for external chat model providers.
// All clients implement the pipeline's ChatModel interface.
package llm

import (
	"fmt"
	"time"

	"docuchat/internal/rag/interfaces"
)

// Options carries the provider-independent settings for a chat model client.
type Options struct {
	Model       string
	APIKey      string
	BaseURL     string
	HTTPTimeout time.Duration
}

// New creates a chat model client for the given provider.
func New(provider string, opts Options) (interfaces.ChatModel, error) {
	switch provider {
	case "openai":
		return NewOpenAI(opts)
	case "ollama":
		return NewOllama(opts)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
