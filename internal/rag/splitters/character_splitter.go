package splitters

import (
	"fmt"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// CharacterSplitter implements the Splitter interface by advancing a fixed
// window over the text with a configurable overlap between adjacent chunks.
// Cuts prefer natural boundaries (paragraph, sentence, word) found within a
// look-back window near the target end, falling back to a hard cut at exactly
// ChunkSize runes. Output is deterministic for identical input and parameters.
type CharacterSplitter struct {
	ChunkSize    int
	ChunkOverlap int
}

// NewCharacterSplitter creates a new CharacterSplitter. It rejects a
// non-positive chunk size, a negative overlap and an overlap that is not
// strictly smaller than the chunk size, before any I/O happens.
func NewCharacterSplitter(chunkSize, chunkOverlap int) (*CharacterSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", schema.ErrInvalidParameter, chunkSize)
	}
	if chunkOverlap < 0 {
		return nil, fmt.Errorf("%w: chunk overlap must not be negative, got %d", schema.ErrInvalidParameter, chunkOverlap)
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap (%d) must be smaller than chunk size (%d)", schema.ErrInvalidParameter, chunkOverlap, chunkSize)
	}
	return &CharacterSplitter{ChunkSize: chunkSize, ChunkOverlap: chunkOverlap}, nil
}

// Split splits text into an ordered sequence of overlapping chunks. Indices
// are contiguous from 0 and offsets are rune positions in the original text.
// Empty text yields no chunks; text no longer than the chunk size yields
// exactly one chunk. The final chunk may be shorter than ChunkSize.
func (s *CharacterSplitter) Split(text string) []schema.Chunk {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}

	// Boundary search window near the target cut. A tenth of the chunk size
	// keeps the chunk count bounded while still catching nearby boundaries.
	lookback := s.ChunkSize / 10
	if lookback < 1 {
		lookback = 1
	}

	var chunks []schema.Chunk
	start := 0
	for {
		end := start + s.ChunkSize
		if end >= n {
			chunks = append(chunks, schema.Chunk{
				Text:  string(runes[start:n]),
				Index: len(chunks),
				Start: start,
				End:   n,
			})
			return chunks
		}

		// A boundary is only usable if cutting there still advances the
		// window past the overlap; otherwise the hard cut keeps us moving.
		lo := end - lookback
		if min := start + s.ChunkOverlap + 1; lo < min {
			lo = min
		}
		cut := end
		if b := lastBoundary(runes, lo, end); b >= lo {
			cut = b
		}

		chunks = append(chunks, schema.Chunk{
			Text:  string(runes[start:cut]),
			Index: len(chunks),
			Start: start,
			End:   cut,
		})
		start = cut - s.ChunkOverlap
	}
}

// lastBoundary returns the best cut position in [lo, hi], preferring a
// paragraph break over a sentence end over a word break. It returns -1 when
// the window contains no boundary.
func lastBoundary(runes []rune, lo, hi int) int {
	if lo > hi {
		return -1
	}

	// Paragraph: cut just after a blank line.
	for i := hi; i >= lo; i-- {
		if i >= 2 && runes[i-1] == '\n' && runes[i-2] == '\n' {
			return i
		}
	}

	// Sentence: cut just after ".", "!", "?" or a line break.
	for i := hi; i >= lo; i-- {
		c := runes[i-1]
		if c == '\n' {
			return i
		}
		if (c == '.' || c == '!' || c == '?') && (i == len(runes) || runes[i] == ' ' || runes[i] == '\n') {
			return i
		}
	}

	// Word: cut just after a space.
	for i := hi; i >= lo; i-- {
		if runes[i-1] == ' ' {
			return i
		}
	}

	return -1
}

// compile-time check to ensure CharacterSplitter implements the Splitter interface
var _ interfaces.Splitter = (*CharacterSplitter)(nil)
