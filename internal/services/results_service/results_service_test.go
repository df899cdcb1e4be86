package services_test

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"photopick/internal/domain/models"
	services "photopick/internal/services/results_service"
	"photopick/internal/storage/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func setupResultsService(t *testing.T) (*services.ResultsService, *docstore.DB) {
	t.Helper()

	db := docstore.NewDB(docstore.NewMemStore())

	return services.NewResultsService(testLogger(), db), db
}

func seed(t *testing.T, db *docstore.DB, mutate func(doc *models.Document)) {
	t.Helper()

	require.NoError(t, db.Update(context.Background(), func(doc *models.Document) error {
		mutate(doc)
		return nil
	}))
}

func voteAt(choice models.VoteChoice, comment string, at time.Time) models.Vote {
	return models.Vote{Choice: choice, Comment: comment, VotedAt: at}
}

func TestResultsService_GetListView(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("groups picks by collection", func(t *testing.T) {
		service, db := setupResultsService(t)

		seed(t, db, func(doc *models.Document) {
			doc.Items["a.jpg"] = models.Item{ID: "a.jpg", Caption: "shore", Collection: "Summer", Thumb: "/thumbs/a.jpg"}
			doc.Items["b.jpg"] = models.Item{ID: "b.jpg", Caption: "dunes", Collection: "Summer"}
			doc.Items["c.jpg"] = models.Item{ID: "c.jpg", Caption: "no folder"}
			doc.Lists["trip"] = models.ListVotes{
				"a.jpg": voteAt(models.ChoiceWant, "print this", base),
				"b.jpg": voteAt(models.ChoicePass, "", base.Add(time.Minute)),
				"c.jpg": voteAt(models.ChoiceWant, "", base.Add(2*time.Minute)),
			}
		})

		view, err := service.GetListView(ctx, "trip")
		require.NoError(t, err)
		require.Len(t, view, 2)

		summer := view["Summer"]
		require.Len(t, summer, 2)
		assert.Equal(t, "a.jpg", summer[0].ID)
		assert.Equal(t, "shore", summer[0].Caption)
		assert.Equal(t, "/thumbs/a.jpg", summer[0].Thumb)
		assert.Equal(t, "print this", summer[0].Comment)
		assert.Equal(t, "b.jpg", summer[1].ID)
		assert.Equal(t, models.ChoicePass, summer[1].Choice)

		loose := view[models.CollectionUncategorized]
		require.Len(t, loose, 1)
		assert.Equal(t, "c.jpg", loose[0].ID)
	})

	t.Run("annotates items wanted by other lists", func(t *testing.T) {
		service, db := setupResultsService(t)

		seed(t, db, func(doc *models.Document) {
			doc.Items["a.jpg"] = models.Item{ID: "a.jpg"}
			doc.Items["b.jpg"] = models.Item{ID: "b.jpg"}
			doc.Lists["trip"] = models.ListVotes{
				"a.jpg": voteAt(models.ChoiceWant, "", base),
				"b.jpg": voteAt(models.ChoicePass, "", base),
			}
			doc.Lists["beach"] = models.ListVotes{
				"a.jpg": voteAt(models.ChoiceWant, "", base),
				"b.jpg": voteAt(models.ChoiceWant, "", base),
			}
			doc.Lists["zoo"] = models.ListVotes{
				"a.jpg": voteAt(models.ChoicePass, "", base),
			}
		})

		view, err := service.GetListView(ctx, "trip")
		require.NoError(t, err)

		records := view[models.CollectionUncategorized]
		require.Len(t, records, 2)

		byID := map[string]models.PickedItem{}
		for _, r := range records {
			byID[r.ID] = r
		}

		// A pass in "zoo" does not count; only other "want" votes do.
		assert.Equal(t, []string{"beach"}, byID["a.jpg"].AlsoWantedIn)
		// Passed items carry no annotation even when wanted elsewhere.
		assert.Empty(t, byID["b.jpg"].AlsoWantedIn)
	})

	t.Run("annotation is symmetric between lists", func(t *testing.T) {
		service, db := setupResultsService(t)

		seed(t, db, func(doc *models.Document) {
			doc.Items["a.jpg"] = models.Item{ID: "a.jpg"}
			doc.Lists["trip"] = models.ListVotes{"a.jpg": voteAt(models.ChoiceWant, "", base)}
			doc.Lists["beach"] = models.ListVotes{"a.jpg": voteAt(models.ChoiceWant, "", base)}
		})

		tripView, err := service.GetListView(ctx, "trip")
		require.NoError(t, err)
		beachView, err := service.GetListView(ctx, "beach")
		require.NoError(t, err)

		assert.Equal(t, []string{"beach"}, tripView[models.CollectionUncategorized][0].AlsoWantedIn)
		assert.Equal(t, []string{"trip"}, beachView[models.CollectionUncategorized][0].AlsoWantedIn)
	})

	t.Run("annotation is sorted by list name", func(t *testing.T) {
		service, db := setupResultsService(t)

		seed(t, db, func(doc *models.Document) {
			doc.Items["a.jpg"] = models.Item{ID: "a.jpg"}
			doc.Lists["trip"] = models.ListVotes{"a.jpg": voteAt(models.ChoiceWant, "", base)}
			doc.Lists["zeta"] = models.ListVotes{"a.jpg": voteAt(models.ChoiceWant, "", base)}
			doc.Lists["alpha"] = models.ListVotes{"a.jpg": voteAt(models.ChoiceWant, "", base)}
		})

		view, err := service.GetListView(ctx, "trip")
		require.NoError(t, err)

		records := view[models.CollectionUncategorized]
		require.Len(t, records, 1)
		assert.Equal(t, []string{"alpha", "zeta"}, records[0].AlsoWantedIn)
	})

	t.Run("skips votes whose item was deleted", func(t *testing.T) {
		service, db := setupResultsService(t)

		seed(t, db, func(doc *models.Document) {
			doc.Items["kept.jpg"] = models.Item{ID: "kept.jpg"}
			doc.Lists["trip"] = models.ListVotes{
				"kept.jpg": voteAt(models.ChoiceWant, "", base),
				"gone.jpg": voteAt(models.ChoiceWant, "", base),
			}
		})

		view, err := service.GetListView(ctx, "trip")
		require.NoError(t, err)

		records := view[models.CollectionUncategorized]
		require.Len(t, records, 1)
		assert.Equal(t, "kept.jpg", records[0].ID)
	})

	t.Run("orders each bucket by vote time, oldest first", func(t *testing.T) {
		service, db := setupResultsService(t)

		seed(t, db, func(doc *models.Document) {
			doc.Items["late.jpg"] = models.Item{ID: "late.jpg"}
			doc.Items["early.jpg"] = models.Item{ID: "early.jpg"}
			doc.Items["tie-b.jpg"] = models.Item{ID: "tie-b.jpg"}
			doc.Items["tie-a.jpg"] = models.Item{ID: "tie-a.jpg"}
			doc.Lists["trip"] = models.ListVotes{
				"late.jpg":  voteAt(models.ChoiceWant, "", base.Add(time.Hour)),
				"early.jpg": voteAt(models.ChoiceWant, "", base),
				"tie-a.jpg": voteAt(models.ChoiceWant, "", base.Add(time.Minute)),
				"tie-b.jpg": voteAt(models.ChoiceWant, "", base.Add(time.Minute)),
			}
		})

		view, err := service.GetListView(ctx, "trip")
		require.NoError(t, err)

		records := view[models.CollectionUncategorized]
		require.Len(t, records, 4)
		assert.Equal(t, "early.jpg", records[0].ID)
		assert.Equal(t, "tie-a.jpg", records[1].ID)
		assert.Equal(t, "tie-b.jpg", records[2].ID)
		assert.Equal(t, "late.jpg", records[3].ID)
	})

	t.Run("unknown list yields an empty view", func(t *testing.T) {
		service, _ := setupResultsService(t)

		view, err := service.GetListView(ctx, "ghost")
		require.NoError(t, err)
		assert.Empty(t, view)
	})
}
