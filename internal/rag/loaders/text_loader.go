// Package loaders provides the content extractors consumed by the ingestion
// pipeline: each one turns a staged file into raw text.
package loaders

import (
	"context"
	"fmt"
	"os"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// TextExtractor implements the Extractor interface for plain text and
// markdown files.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract reads the file at path and returns its content as-is.
func (e *TextExtractor) Extract(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", schema.ErrExtraction, path, err)
	}
	return string(content), nil
}

// compile-time check to ensure TextExtractor implements the Extractor interface
var _ interfaces.Extractor = (*TextExtractor)(nil)
