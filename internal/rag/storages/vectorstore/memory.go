package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
)

// MemoryStore is a thread-safe, in-memory VectorStore using brute-force
// cosine similarity. It backs local runs and tests where no Milvus instance
// is available.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []*schema.Document
	dim  int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Upsert commits one record, replacing any record with the same id. The
// dimension of the first stored embedding fixes the store's dimension.
func (s *MemoryStore) Upsert(ctx context.Context, rec *schema.Document) (string, error) {
	if len(rec.Embedding) == 0 {
		return "", fmt.Errorf("%w: record %s has no embedding", schema.ErrStorage, rec.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(rec.Embedding)
	} else if len(rec.Embedding) != s.dim {
		return "", fmt.Errorf("%w: embedding dimension %d does not match store dimension %d", schema.ErrStorage, len(rec.Embedding), s.dim)
	}

	for i, existing := range s.recs {
		if existing.ID == rec.ID {
			s.recs[i] = rec
			return rec.ID, nil
		}
	}
	s.recs = append(s.recs, rec)
	return rec.ID, nil
}

// Query scores every stored record against embedding by cosine similarity
// and returns at most topK records clearing threshold, sorted descending.
// Ties keep insertion order for determinism.
func (s *MemoryStore) Query(ctx context.Context, embedding []float32, threshold float64, topK int) ([]*schema.Retrieved, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dim != 0 && len(embedding) != s.dim {
		return nil, fmt.Errorf("%w: query dimension %d does not match store dimension %d", schema.ErrStorage, len(embedding), s.dim)
	}

	var results []*schema.Retrieved
	for _, rec := range s.recs {
		similarity := cosine(rec.Embedding, embedding)
		if similarity < threshold {
			continue
		}
		results = append(results, &schema.Retrieved{Document: *rec, Similarity: similarity})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// Len reports the number of stored records.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recs)
}

// Records returns a snapshot of the stored records in insertion order.
func (s *MemoryStore) Records() []*schema.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*schema.Document, len(s.recs))
	copy(out, s.recs)
	return out
}

// cosine returns the cosine similarity of a and b, clamped to [0,1].
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

// compile-time check to ensure MemoryStore implements the VectorStore interface
var _ interfaces.VectorStore = (*MemoryStore)(nil)
