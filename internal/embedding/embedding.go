// Package embedding provides clients for external embedding providers. All
// clients implement the pipeline's Embedder interface.
package embedding

import (
	"fmt"
	"time"

	"docuchat/internal/rag/interfaces"
)

// Options carries the provider-independent settings for an embedding client.
type Options struct {
	Model       string
	APIKey      string
	BaseURL     string
	HTTPTimeout time.Duration
}

// New creates an embedding client for the given provider.
func New(provider string, opts Options) (interfaces.Embedder, error) {
	switch provider {
	case "openai":
		return NewOpenAIModel(opts)
	case "ollama":
		return NewOllamaModel(opts)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
