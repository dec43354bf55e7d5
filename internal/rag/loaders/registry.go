package loaders

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// ForFile selects the extractor for the file at path. Detection is based on
// the file's content MIME type, with the extension as a fallback for formats
// that detect as generic text or archives.
func ForFile(path string) (interfaces.Extractor, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: detecting MIME type of %s: %v", schema.ErrExtraction, path, err)
	}

	switch {
	case mtype.Is("application/pdf"):
		return NewPDFExtractor(), nil
	case mtype.Is("text/html"):
		return NewHTMLExtractor(), nil
	case mtype.Is("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"):
		return NewXlsxExtractor(), nil
	case isText(mtype):
		return NewTextExtractor(), nil
	}

	// Office archives and short files can detect as application/zip or
	// application/octet-stream; fall back to the extension.
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return NewXlsxExtractor(), nil
	case ".txt", ".md", ".markdown":
		return NewTextExtractor(), nil
	case ".html", ".htm":
		return NewHTMLExtractor(), nil
	}

	return nil, fmt.Errorf("%w: no extractor for MIME type %s (%s)", schema.ErrExtraction, mtype.String(), path)
}

// isText reports whether the detected type is text/plain or derives from it
// (markdown, csv and most source files do).
func isText(mtype *mimetype.MIME) bool {
	for t := mtype; t != nil; t = t.Parent() {
		if t.Is("text/plain") {
			return true
		}
	}
	return false
}
