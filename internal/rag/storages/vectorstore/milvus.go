// Package vectorstore provides the similarity-store adapters used by the
// pipelines: a Milvus-backed store for production and an in-memory store for
// local runs and tests.
package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"docuchat/internal/database/milvus"
	"docuchat/internal/rag/interfaces"
	"docuchat/internal/rag/schema"
	"docuchat/pkg/logger"
)

// Defaults used by retrieval when the caller does not override them.
const (
	DefaultThreshold = 0.78
	DefaultTopK      = 10
)

// MilvusStore adapts the Milvus client to the VectorStore interface. Each
// record is one row: id, content, JSON-encoded metadata and the embedding.
type MilvusStore struct {
	log    *logger.Logger
	client *milvus.Client
}

// NewMilvusStore creates a new MilvusStore adapter.
func NewMilvusStore(client *milvus.Client, log *logger.Logger) (*MilvusStore, error) {
	if client == nil || client.Client == nil {
		return nil, fmt.Errorf("milvus client is not initialized")
	}
	return &MilvusStore{log: log, client: client}, nil
}

// Upsert commits one record and returns its id. A failed insert leaves no
// partial row behind.
func (s *MilvusStore) Upsert(ctx context.Context, rec *schema.Document) (string, error) {
	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return "", fmt.Errorf("%w: encoding metadata for %s: %v", schema.ErrStorage, rec.ID, err)
	}

	idCol := entity.NewColumnVarChar(milvus.FieldID, []string{rec.ID})
	contentCol := entity.NewColumnVarChar(milvus.FieldContent, []string{rec.Content})
	metadataCol := entity.NewColumnVarChar(milvus.FieldMetadata, []string{string(metadataJSON)})
	embeddingCol := entity.NewColumnFloatVector(milvus.FieldEmbedding, len(rec.Embedding), [][]float32{rec.Embedding})

	_, err = s.client.Client.Upsert(ctx, s.client.Collection, "", idCol, contentCol, metadataCol, embeddingCol)
	if err != nil {
		return "", fmt.Errorf("%w: milvus upsert: %v", schema.ErrStorage, err)
	}
	return rec.ID, nil
}

// Query performs a vector similarity search and returns at most topK records
// whose similarity clears threshold, sorted descending by similarity.
func (s *MilvusStore) Query(ctx context.Context, embedding []float32, threshold float64, topK int) ([]*schema.Retrieved, error) {
	sp, err := entity.NewIndexHNSWSearchParam(64)
	if err != nil {
		return nil, fmt.Errorf("%w: milvus search params: %v", schema.ErrStorage, err)
	}
	outputFields := []string{milvus.FieldID, milvus.FieldContent, milvus.FieldMetadata}

	searchResults, err := s.client.Client.Search(
		ctx, s.client.Collection, nil, "", outputFields,
		[]entity.Vector{entity.FloatVector(embedding)},
		milvus.FieldEmbedding, entity.COSINE, topK, sp,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: milvus search: %v", schema.ErrStorage, err)
	}

	var results []*schema.Retrieved
	for _, res := range searchResults {
		idCol, ok := findColumn(res.Fields, milvus.FieldID).(*entity.ColumnVarChar)
		if !ok {
			s.log.Warn("Search result is missing the id column, skipping")
			continue
		}
		contentCol, _ := findColumn(res.Fields, milvus.FieldContent).(*entity.ColumnVarChar)
		metadataCol, _ := findColumn(res.Fields, milvus.FieldMetadata).(*entity.ColumnVarChar)

		for i := 0; i < res.ResultCount; i++ {
			// COSINE scores for normalized embeddings land in [0,1]; clamp
			// stray negatives before the threshold filter.
			similarity := float64(res.Scores[i])
			if similarity < 0 {
				similarity = 0
			}
			if similarity < threshold {
				continue
			}

			rec := &schema.Retrieved{Similarity: similarity}
			rec.ID = idCol.Data()[i]
			if contentCol != nil {
				rec.Content = contentCol.Data()[i]
			}
			if metadataCol != nil {
				var metadata map[string]interface{}
				if err := json.Unmarshal([]byte(metadataCol.Data()[i]), &metadata); err == nil {
					rec.Metadata = metadata
				}
			}
			results = append(results, rec)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > topK {
		results = results[:topK]
	}
	return results, nil
}

// findColumn locates a named column in a search result's field list.
func findColumn(fields []entity.Column, name string) entity.Column {
	for _, field := range fields {
		if field.Name() == name {
			return field
		}
	}
	return nil
}

// compile-time check to ensure MilvusStore implements the VectorStore interface
var _ interfaces.VectorStore = (*MilvusStore)(nil)
