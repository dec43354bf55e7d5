package loaders

import (
	"context"
	"fmt"
	"os"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// HTMLExtractor implements the Extractor interface for HTML files. The markup
// is converted to markdown so headings and lists survive as plain text cues.
type HTMLExtractor struct{}

// NewHTMLExtractor creates a new HTMLExtractor.
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extract reads the HTML file at path and returns its markdown rendition.
func (e *HTMLExtractor) Extract(ctx context.Context, path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", schema.ErrExtraction, path, err)
	}

	markdown, err := htmltomarkdown.ConvertString(string(content))
	if err != nil {
		return "", fmt.Errorf("%w: converting %s: %v", schema.ErrExtraction, path, err)
	}
	return markdown, nil
}

// compile-time check to ensure HTMLExtractor implements the Extractor interface
var _ interfaces.Extractor = (*HTMLExtractor)(nil)
