package loaders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docuchat/internal/rag/schema"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestForFile_PlainText(t *testing.T) {
	path := writeTempFile(t, "notes.txt", []byte("plain text content"))
	extractor, err := ForFile(path)
	require.NoError(t, err)
	assert.IsType(t, &TextExtractor{}, extractor)

	text, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "plain text content", text)
}

func TestForFile_Markdown(t *testing.T) {
	path := writeTempFile(t, "readme.md", []byte("# Heading\n\nSome body text."))
	extractor, err := ForFile(path)
	require.NoError(t, err)
	assert.IsType(t, &TextExtractor{}, extractor)
}

func TestForFile_HTML(t *testing.T) {
	path := writeTempFile(t, "page.html", []byte("<!DOCTYPE html><html><body><h1>Title</h1><p>Body</p></body></html>"))
	extractor, err := ForFile(path)
	require.NoError(t, err)
	assert.IsType(t, &HTMLExtractor{}, extractor)

	text, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Contains(t, text, "Title")
	assert.Contains(t, text, "Body")
}

func TestForFile_PDFHeader(t *testing.T) {
	// A PDF magic header is enough for type detection; extraction itself
	// would fail on this stub.
	path := writeTempFile(t, "doc.pdf", []byte("%PDF-1.4\n"))
	extractor, err := ForFile(path)
	require.NoError(t, err)
	assert.IsType(t, &PDFExtractor{}, extractor)
}

func TestForFile_UnsupportedBinary(t *testing.T) {
	path := writeTempFile(t, "image.bin", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00})
	_, err := ForFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrExtraction)
}

func TestForFile_MissingFile(t *testing.T) {
	_, err := ForFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrExtraction)
}
