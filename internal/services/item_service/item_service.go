package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"photopick/internal/domain/models"
	"photopick/internal/lib/logger/sl"
	"photopick/internal/storage"
	"photopick/internal/storage/docstore"
	filestorage "photopick/internal/storage/filestorage"
	"photopick/internal/transport/http/dto"
)

// Thumbnailer is the derived-thumbnail collaborator. Ensure failures are
// soft: the offending file is skipped, not the whole batch.
type Thumbnailer interface {
	Ensure(sourcePath string) (string, error)
	Remove(id string) error
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type ItemService struct {
	log         *slog.Logger
	db          *docstore.DB
	fileStorage filestorage.FileStorage
	thumbs      Thumbnailer
	strict      bool
}

func NewItemService(log *slog.Logger, db *docstore.DB, fileStorage filestorage.FileStorage, thumbs Thumbnailer, strict bool) *ItemService {
	return &ItemService{
		log:         log,
		db:          db,
		fileStorage: fileStorage,
		thumbs:      thumbs,
		strict:      strict,
	}
}

// BulkUpload stores each uploaded photo, generates its thumbnail and
// registers the item. Files are processed independently: a disallowed
// extension or a failed thumbnail skips that file and the batch goes on.
// Returns the number of items actually saved.
func (s *ItemService) BulkUpload(ctx context.Context, input dto.BulkUploadInput) (int, error) {
	const op = "item_service.BulkUpload"

	log := s.log.With(
		slog.String("op", op),
		slog.Int("files", len(input.Files)),
	)

	log.Info("bulk upload started")

	var added []models.Item

	for _, file := range input.Files {
		if file == nil {
			continue
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedExtensions[ext] {
			log.Warn("skipping file with disallowed extension", slog.String("filename", file.Filename))
			continue
		}

		item := models.NewItem(input.Caption, input.Collection, file.Filename)

		relPath, _, err := s.fileStorage.Save(ctx, file, item.ID)
		if err != nil {
			log.Error("failed to save file", sl.Err(err))
			continue
		}

		thumb, err := s.thumbs.Ensure(s.fileStorage.GetFullPath(relPath))
		if err != nil {
			log.Warn("skipping file without thumbnail", slog.String("id", item.ID), sl.Err(err))
			_ = s.fileStorage.Delete(ctx, relPath)
			continue
		}
		item.Thumb = thumb

		if err := item.Validate(); err != nil {
			log.Error("item validation failed", sl.Err(err))
			_ = s.fileStorage.Delete(ctx, relPath)
			_ = s.thumbs.Remove(item.ID)
			continue
		}

		added = append(added, item)
	}

	if len(added) == 0 {
		log.Info("bulk upload finished", slog.Int("saved", 0))
		return 0, nil
	}

	err := s.db.Update(ctx, func(doc *models.Document) error {
		for _, item := range added {
			doc.Items[item.ID] = item
		}
		return nil
	})
	if err != nil {
		log.Error("failed to persist items", sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("bulk upload finished", slog.Int("saved", len(added)))

	return len(added), nil
}

// UpdateCaption overwrites an item's caption. An unknown id is a no-op
// success under the lenient policy and storage.ErrItemNotFound under the
// strict one.
func (s *ItemService) UpdateCaption(ctx context.Context, id, caption string) error {
	const op = "item_service.UpdateCaption"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	err := s.db.Update(ctx, func(doc *models.Document) error {
		item, ok := doc.Items[id]
		if !ok {
			if s.strict {
				return storage.ErrItemNotFound
			}
			log.Warn("caption update for unknown item ignored")
			return nil
		}

		item.Caption = caption
		doc.Items[id] = item
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// DeleteItem removes the item, its raw and thumbnail artifacts (best
// effort, a missing file is tolerated) and every vote referencing it.
func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	const op = "item_service.DeleteItem"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id),
	)

	err := s.db.Update(ctx, func(doc *models.Document) error {
		if _, ok := doc.Items[id]; !ok {
			return storage.ErrItemNotFound
		}

		if err := s.fileStorage.Delete(ctx, id); err != nil && !os.IsNotExist(err) {
			log.Warn("failed to delete photo file", sl.Err(err))
		}
		if err := s.thumbs.Remove(id); err != nil {
			log.Warn("failed to delete thumbnail", sl.Err(err))
		}

		delete(doc.Items, id)
		for _, votes := range doc.Lists {
			delete(votes, id)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("item deleted")

	return nil
}

// ListItems returns all items, newest first.
func (s *ItemService) ListItems(ctx context.Context) ([]models.Item, error) {
	const op = "item_service.ListItems"

	doc, err := s.db.View(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.Item, 0, len(doc.Items))
	for _, item := range doc.Items {
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}
