package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"photopick/internal/domain/models"
	"photopick/internal/lib/logger/sl"
	"photopick/internal/storage"
	"photopick/internal/storage/docstore"
)

type ListService struct {
	log    *slog.Logger
	db     *docstore.DB
	strict bool
}

func NewListService(log *slog.Logger, db *docstore.DB, strict bool) *ListService {
	return &ListService{
		log:    log,
		db:     db,
		strict: strict,
	}
}

// CreateList registers an empty voting list. Creating an existing list is
// a no-op success; a whitespace-only name is rejected.
func (s *ListService) CreateList(ctx context.Context, name string) error {
	const op = "list_service.CreateList"

	name = models.TrimName(name)
	if name == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrEmptyName)
	}

	log := s.log.With(
		slog.String("op", op),
		slog.String("list", name),
	)

	err := s.db.Update(ctx, func(doc *models.Document) error {
		if _, ok := doc.Lists[name]; !ok {
			doc.Lists[name] = models.ListVotes{}
			log.Info("list created")
		}
		return nil
	})
	if err != nil {
		log.Error("failed to create list", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListNames returns all list names, sorted.
func (s *ListService) ListNames(ctx context.Context) ([]string, error) {
	const op = "list_service.ListNames"

	doc, err := s.db.View(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, 0, len(doc.Lists))
	for name := range doc.Lists {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Lists returns every list with its raw vote map.
func (s *ListService) Lists(ctx context.Context) (map[string]models.ListVotes, error) {
	const op = "list_service.Lists"

	doc, err := s.db.View(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.Lists, nil
}

// RecordVote stores one voter's choice for an item within a list,
// overwriting any earlier vote for the same pair. Item existence is not
// checked here; dangling references are filtered on the read side. A vote
// for an unknown list is dropped under the lenient policy and surfaces
// storage.ErrListNotFound under the strict one.
func (s *ListService) RecordVote(ctx context.Context, listName, itemID, choice, comment string) error {
	const op = "list_service.RecordVote"

	log := s.log.With(
		slog.String("op", op),
		slog.String("list", listName),
		slog.String("item", itemID),
	)

	err := s.db.Update(ctx, func(doc *models.Document) error {
		votes, ok := doc.Lists[listName]
		if !ok {
			if s.strict {
				return storage.ErrListNotFound
			}
			log.Warn("vote for unknown list dropped")
			return nil
		}

		votes[itemID] = models.NewVote(models.VoteChoice(choice), comment)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CreateCollection registers a collection name. Idempotent; a
// whitespace-only name is rejected.
func (s *ListService) CreateCollection(ctx context.Context, name string) error {
	const op = "list_service.CreateCollection"

	name = models.TrimName(name)
	if name == "" {
		return fmt.Errorf("%s: %w", op, storage.ErrEmptyName)
	}

	err := s.db.Update(ctx, func(doc *models.Document) error {
		doc.Collections[name] = struct{}{}
		return nil
	})
	if err != nil {
		s.log.Error("failed to create collection", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Collections returns the sorted union of registered collection names and
// the collections referenced by items, so the listing never hides a bucket
// the aggregated view can produce.
func (s *ListService) Collections(ctx context.Context) ([]string, error) {
	const op = "list_service.Collections"

	doc, err := s.db.View(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	seen := make(map[string]struct{}, len(doc.Collections))
	for name := range doc.Collections {
		seen[name] = struct{}{}
	}
	for _, item := range doc.Items {
		if name := models.TrimName(item.Collection); name != "" {
			seen[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}
