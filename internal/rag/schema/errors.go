package schema

import "errors"

// Error taxonomy for the pipeline. Each stage wraps its failures with one of
// these sentinels so callers can classify errors with errors.Is without
// depending on provider-specific error types.
var (
	// ErrInvalidParameter reports a bad chunking configuration, rejected
	// before any I/O happens.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrExtraction reports a content extractor failure.
	ErrExtraction = errors.New("extraction failed")

	// ErrEmbeddingUnavailable reports an embedding provider failure.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrStorage reports a vector store read or write failure.
	ErrStorage = errors.New("storage error")

	// ErrGeneration reports a chat model stream failure.
	ErrGeneration = errors.New("generation error")
)
