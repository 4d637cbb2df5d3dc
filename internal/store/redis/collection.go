package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
)

// Collection keeps the store document under a single Redis key.
// SET replaces the value atomically, so readers never see a partial write.
type Collection struct {
	client *redis.Client
}

// NewCollection creates a Redis-backed durable collection
func NewCollection(client *redis.Client) *Collection {
	return &Collection{client: client}
}

// Load reads the document; a missing key yields an empty document
func (c *Collection) Load(ctx context.Context) (*domain.Document, error) {
	data, err := c.client.Get(ctx, KeyDocument).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewDocument(), nil
		}
		return nil, fmt.Errorf("%w: failed to get document: %w", domain.ErrStoreIO, err)
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreCorrupt, err)
	}
	doc.Normalize()
	return &doc, nil
}

// Replace stores the document without expiry
func (c *Collection) Replace(ctx context.Context, doc *domain.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	if err := c.client.Set(ctx, KeyDocument, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to save document: %w", domain.ErrStoreIO, err)
	}
	return nil
}

// Close is a no-op; the client is owned by the caller
func (c *Collection) Close() error { return nil }
