package docstore

import (
	"context"
	"sync"

	"photopick/internal/domain/models"
)

// DB wraps a Store with a single writer lock so that concurrent
// load-mutate-save cycles do not silently drop each other's changes.
// Reads stay unlocked: a view racing a writer sees either the old or the
// new document, both of which are consistent.
type DB struct {
	mu    sync.Mutex
	store Store
}

func NewDB(store Store) *DB {
	return &DB{store: store}
}

// View returns the current document for read-side operations.
func (db *DB) View(ctx context.Context) (*models.Document, error) {
	return db.store.Load(ctx)
}

// Update runs mutate against the freshly loaded document and persists the
// result, holding the writer lock for the whole cycle. If mutate returns an
// error nothing is saved.
func (db *DB) Update(ctx context.Context, mutate func(doc *models.Document) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	doc, err := db.store.Load(ctx)
	if err != nil {
		return err
	}

	if err := mutate(doc); err != nil {
		return err
	}

	return db.store.Save(ctx, doc)
}
