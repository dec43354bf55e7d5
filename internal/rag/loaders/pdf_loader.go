package loaders

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ledongthuc/pdf"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// PDFExtractor implements the Extractor interface for PDF files.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDFExtractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract opens the PDF at path and returns the plain text of all pages.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: opening pdf %s: %v", schema.ErrExtraction, path, err)
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: extracting text from %s: %v", schema.ErrExtraction, path, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", fmt.Errorf("%w: reading text from %s: %v", schema.ErrExtraction, path, err)
	}
	return buf.String(), nil
}

// compile-time check to ensure PDFExtractor implements the Extractor interface
var _ interfaces.Extractor = (*PDFExtractor)(nil)
