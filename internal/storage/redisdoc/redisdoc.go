package redisdoc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"photopick/internal/domain/models"
)

// Store keeps the whole document under a single redis key, mirroring the
// file driver's whole-document read/write contract.
type Store struct {
	client redis.Cmdable
	key    string
}

func New(client redis.Cmdable, key string) *Store {
	return &Store{client: client, key: key}
}

func (s *Store) Load(ctx context.Context) (*models.Document, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.NewDocument(), nil
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	doc.Normalize()

	return &doc, nil
}

func (s *Store) Save(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}
