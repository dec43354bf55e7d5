// Package milvus manages the connection to Milvus and the collection that
// holds the embedded document records.
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"

	"docuchat/internal/config"
	"docuchat/pkg/logger"
)

// Collection schema fields. The adapter in storages/vectorstore reads and
// writes exactly these columns.
const (
	FieldID        = "id"
	FieldContent   = "content"
	FieldMetadata  = "metadata"
	FieldEmbedding = "embedding"

	maxIDLength       = 64
	maxContentLength  = 8192
	maxMetadataLength = 4096
)

// Client wraps the Milvus SDK client together with the collection settings.
// It is constructed once at process start and passed by reference; there is
// no package-level instance.
type Client struct {
	Client     client.Client
	Collection string

	dim int
	log *logger.Logger
}

// NewClient connects to Milvus and returns a Client bound to the configured
// collection. dim is the embedding dimension the collection stores.
func NewClient(ctx context.Context, cfg *config.MilvusConfig, dim int, log *logger.Logger) (*Client, error) {
	c, err := client.NewClient(ctx, client.Config{Address: cfg.Address})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus at %s: %w", cfg.Address, err)
	}
	log.Info(fmt.Sprintf("Connected to Milvus at %s", cfg.Address))

	return &Client{
		Client:     c,
		Collection: cfg.Collection,
		dim:        dim,
		log:        log,
	}, nil
}

// Close shuts down the connection to Milvus.
func (c *Client) Close() {
	if c.Client != nil {
		c.Client.Close()
		c.log.Info("Closed Milvus connection")
	}
}

// HealthCheck verifies the Milvus connection is usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	if c.Client == nil {
		return fmt.Errorf("milvus client is nil")
	}
	if _, err := c.Client.ListCollections(ctx); err != nil {
		return fmt.Errorf("milvus health check failed: %w", err)
	}
	return nil
}

// EnsureCollection creates the record collection and its vector index if they
// do not exist yet, then loads the collection for searching. The index uses
// the COSINE metric so search scores are similarities in [0,1] for
// normalized embeddings.
func (c *Client) EnsureCollection(ctx context.Context) error {
	exists, err := c.Client.HasCollection(ctx, c.Collection)
	if err != nil {
		return fmt.Errorf("failed to check collection '%s': %w", c.Collection, err)
	}

	if !exists {
		schema := entity.NewSchema().
			WithName(c.Collection).
			WithDescription("Embedded document chunks for retrieval").
			WithField(entity.NewField().WithName(FieldID).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxIDLength).WithIsPrimaryKey(true)).
			WithField(entity.NewField().WithName(FieldContent).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxContentLength)).
			WithField(entity.NewField().WithName(FieldMetadata).
				WithDataType(entity.FieldTypeVarChar).WithMaxLength(maxMetadataLength)).
			WithField(entity.NewField().WithName(FieldEmbedding).
				WithDataType(entity.FieldTypeFloatVector).WithDim(int64(c.dim)))

		if err := c.Client.CreateCollection(ctx, schema, entity.DefaultShardNumber); err != nil {
			return fmt.Errorf("failed to create collection '%s': %w", c.Collection, err)
		}

		idx, err := entity.NewIndexHNSW(entity.COSINE, 8, 96)
		if err != nil {
			return fmt.Errorf("failed to build index: %w", err)
		}
		if err := c.Client.CreateIndex(ctx, c.Collection, FieldEmbedding, idx, false); err != nil {
			return fmt.Errorf("failed to create index on '%s': %w", FieldEmbedding, err)
		}
		c.log.Info(fmt.Sprintf("Created Milvus collection '%s' (dim=%d)", c.Collection, c.dim))
	}

	if err := c.Client.LoadCollection(ctx, c.Collection, false); err != nil {
		return fmt.Errorf("failed to load collection '%s': %w", c.Collection, err)
	}
	return nil
}
