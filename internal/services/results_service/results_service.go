package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"photopick/internal/domain/models"
	"photopick/internal/storage/docstore"
)

type ResultsService struct {
	log *slog.Logger
	db  *docstore.DB
}

func NewResultsService(log *slog.Logger, db *docstore.DB) *ResultsService {
	return &ResultsService{
		log: log,
		db:  db,
	}
}

// GetListView joins a list's votes with their items and groups the result
// by collection. Votes whose item no longer exists are skipped. Records
// with choice "want" are annotated with every other list that also wants
// the same item, sorted by list name. An unknown list yields an empty
// view, not an error.
//
// The also-wanted annotation scans every other list per wanted vote,
// O(votes x lists); fine for a handful of household lists.
func (s *ResultsService) GetListView(ctx context.Context, listName string) (models.ListView, error) {
	const op = "results_service.GetListView"

	doc, err := s.db.View(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	picks := doc.Lists[listName]
	view := models.ListView{}

	orphans := 0
	for itemID, vote := range picks {
		item, ok := doc.Items[itemID]
		if !ok {
			orphans++
			continue
		}

		record := models.PickedItem{
			ID:           item.ID,
			Caption:      item.Caption,
			Collection:   item.CollectionOrDefault(),
			Thumb:        item.Thumb,
			Choice:       vote.Choice,
			Comment:      vote.Comment,
			VotedAt:      vote.VotedAt,
			AlsoWantedIn: []string{},
		}

		if vote.Choice == models.ChoiceWant {
			for otherName, otherVotes := range doc.Lists {
				if otherName == listName {
					continue
				}
				if other, ok := otherVotes[itemID]; ok && other.Choice == models.ChoiceWant {
					record.AlsoWantedIn = append(record.AlsoWantedIn, otherName)
				}
			}
			sort.Strings(record.AlsoWantedIn)
		}

		view[record.Collection] = append(view[record.Collection], record)
	}

	// Vote order within a bucket, oldest first.
	for _, records := range view {
		sort.Slice(records, func(i, j int) bool {
			if !records[i].VotedAt.Equal(records[j].VotedAt) {
				return records[i].VotedAt.Before(records[j].VotedAt)
			}
			return records[i].ID < records[j].ID
		})
	}

	if orphans > 0 {
		s.log.Debug("orphaned votes skipped",
			slog.String("op", op),
			slog.String("list", listName),
			slog.Int("count", orphans),
		)
	}

	return view, nil
}
