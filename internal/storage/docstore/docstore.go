package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"photopick/internal/domain/models"
)

// Store persists the whole application document. Load returns the empty
// default document when nothing has been saved yet; Save overwrites the
// stored representation wholesale. Implementations do not protect a
// load-mutate-save cycle spanning two callers; use DB for that.
type Store interface {
	Load(ctx context.Context) (*models.Document, error)
	Save(ctx context.Context, doc *models.Document) error
}

// FileStore keeps the document as one JSON file, rewritten on every save.
type FileStore struct {
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStore{path: path}, nil
}

func (s *FileStore) Load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
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

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never observe a half-written document.
func (s *FileStore) Save(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".photopick-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace document: %w", err)
	}

	return nil
}

// MemStore keeps the document in memory. Used in tests and wherever
// persistence across restarts does not matter.
type MemStore struct {
	mu  sync.RWMutex
	doc *models.Document
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Load(ctx context.Context) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc == nil {
		return models.NewDocument(), nil
	}

	return clone(s.doc)
}

func (s *MemStore) Save(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	copied, err := clone(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.doc = copied
	s.mu.Unlock()

	return nil
}

// clone round-trips through JSON so callers never share maps with the store.
func clone(doc *models.Document) (*models.Document, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}

	var copied models.Document
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	copied.Normalize()

	return &copied, nil
}
