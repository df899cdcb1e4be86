package services_test

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"photopick/internal/domain/models"
	services "photopick/internal/services/item_service"
	"photopick/internal/storage"
	"photopick/internal/storage/docstore"
	filestorage "photopick/internal/storage/filestorage"
	"photopick/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockThumbnailer struct {
	mock.Mock
}

func (m *MockThumbnailer) Ensure(sourcePath string) (string, error) {
	args := m.Called(sourcePath)
	return args.String(0), args.Error(1)
}

func (m *MockThumbnailer) Remove(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func createTestFile(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("photos", filename)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)

	err = writer.Close()
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("photos")
	require.NoError(t, err)
	file.Close()

	return header
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func setupItemService(t *testing.T, strict bool) (*services.ItemService, *docstore.DB, *MockThumbnailer, filestorage.FileStorage) {
	t.Helper()

	db := docstore.NewDB(docstore.NewMemStore())

	files, err := filestorage.NewLocalFileStorage(t.TempDir(), "/photos")
	require.NoError(t, err)

	thumbs := new(MockThumbnailer)

	return services.NewItemService(testLogger(), db, files, thumbs, strict), db, thumbs, files
}

func TestItemService_BulkUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("saves every allowed file", func(t *testing.T) {
		service, db, thumbs, _ := setupItemService(t, false)

		thumbs.On("Ensure", mock.AnythingOfType("string")).Return("/thumbs/x.jpg", nil).Twice()

		saved, err := service.BulkUpload(ctx, dto.BulkUploadInput{
			Caption:    "beach",
			Collection: "Summer",
			Files: []*multipart.FileHeader{
				createTestFile(t, "one.jpg", "first"),
				createTestFile(t, "two.png", "second"),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, saved)

		doc, err := db.View(ctx)
		require.NoError(t, err)
		require.Len(t, doc.Items, 2)
		for _, item := range doc.Items {
			assert.Equal(t, "beach", item.Caption)
			assert.Equal(t, "Summer", item.Collection)
			assert.Equal(t, "/thumbs/x.jpg", item.Thumb)
			assert.False(t, item.CreatedAt.IsZero())
		}
		thumbs.AssertExpectations(t)
	})

	t.Run("skips disallowed extensions", func(t *testing.T) {
		service, db, thumbs, _ := setupItemService(t, false)

		thumbs.On("Ensure", mock.AnythingOfType("string")).Return("/thumbs/x.jpg", nil).Once()

		saved, err := service.BulkUpload(ctx, dto.BulkUploadInput{
			Files: []*multipart.FileHeader{
				createTestFile(t, "notes.txt", "text"),
				createTestFile(t, "ok.jpg", "image"),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, saved)

		doc, err := db.View(ctx)
		require.NoError(t, err)
		assert.Len(t, doc.Items, 1)
		thumbs.AssertExpectations(t)
	})

	t.Run("thumbnail failure skips the file but not the batch", func(t *testing.T) {
		service, db, thumbs, files := setupItemService(t, false)

		thumbs.On("Ensure", mock.AnythingOfType("string")).Return("", storage.ErrThumbnailFailed).Once()
		thumbs.On("Ensure", mock.AnythingOfType("string")).Return("/thumbs/x.jpg", nil).Once()

		saved, err := service.BulkUpload(ctx, dto.BulkUploadInput{
			Files: []*multipart.FileHeader{
				createTestFile(t, "broken.jpg", "bad image"),
				createTestFile(t, "fine.jpg", "good image"),
			},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, saved)

		doc, err := db.View(ctx)
		require.NoError(t, err)
		require.Len(t, doc.Items, 1)

		// The skipped file's raw artifact was cleaned up.
		for id := range doc.Items {
			_, err := os.Stat(files.GetFullPath(id))
			assert.NoError(t, err)
		}
		entries, err := os.ReadDir(files.GetBaseDir())
		require.NoError(t, err)
		assert.Len(t, entries, 1)
		thumbs.AssertExpectations(t)
	})

	t.Run("empty batch saves nothing", func(t *testing.T) {
		service, db, _, _ := setupItemService(t, false)

		saved, err := service.BulkUpload(ctx, dto.BulkUploadInput{})
		require.NoError(t, err)
		assert.Equal(t, 0, saved)

		doc, err := db.View(ctx)
		require.NoError(t, err)
		assert.Empty(t, doc.Items)
	})
}

func seedItem(t *testing.T, db *docstore.DB, id, caption, collection string, created time.Time) {
	t.Helper()

	require.NoError(t, db.Update(context.Background(), func(doc *models.Document) error {
		doc.Items[id] = models.Item{
			ID:         id,
			Caption:    caption,
			Collection: collection,
			CreatedAt:  created,
		}
		return nil
	}))
}

func TestItemService_UpdateCaption(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites caption of existing item", func(t *testing.T) {
		service, db, _, _ := setupItemService(t, false)
		seedItem(t, db, "p1.jpg", "old", "", time.Now().UTC())

		require.NoError(t, service.UpdateCaption(ctx, "p1.jpg", "new"))

		doc, err := db.View(ctx)
		require.NoError(t, err)
		assert.Equal(t, "new", doc.Items["p1.jpg"].Caption)
	})

	t.Run("unknown id is a no-op success under lenient policy", func(t *testing.T) {
		service, db, _, _ := setupItemService(t, false)

		require.NoError(t, service.UpdateCaption(ctx, "ghost.jpg", "new"))

		doc, err := db.View(ctx)
		require.NoError(t, err)
		assert.Empty(t, doc.Items)
	})

	t.Run("unknown id fails under strict policy", func(t *testing.T) {
		service, _, _, _ := setupItemService(t, true)

		err := service.UpdateCaption(ctx, "ghost.jpg", "new")
		assert.ErrorIs(t, err, storage.ErrItemNotFound)
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown id", func(t *testing.T) {
		service, _, _, _ := setupItemService(t, false)

		err := service.DeleteItem(ctx, "ghost.jpg")
		assert.ErrorIs(t, err, storage.ErrItemNotFound)
	})

	t.Run("removes item, artifacts and every vote", func(t *testing.T) {
		service, db, thumbs, files := setupItemService(t, false)
		seedItem(t, db, "p1.jpg", "beach", "Summer", time.Now().UTC())
		seedItem(t, db, "p2.jpg", "city", "", time.Now().UTC())

		require.NoError(t, db.Update(ctx, func(doc *models.Document) error {
			doc.Lists["trip"] = models.ListVotes{
				"p1.jpg": models.NewVote(models.ChoiceWant, ""),
				"p2.jpg": models.NewVote(models.ChoicePass, ""),
			}
			doc.Lists["backup"] = models.ListVotes{
				"p1.jpg": models.NewVote(models.ChoiceWant, ""),
			}
			return nil
		}))

		// A raw artifact on disk gets removed with the item.
		require.NoError(t, os.WriteFile(files.GetFullPath("p1.jpg"), []byte("raw"), 0644))
		thumbs.On("Remove", "p1.jpg").Return(nil).Once()

		require.NoError(t, service.DeleteItem(ctx, "p1.jpg"))

		doc, err := db.View(ctx)
		require.NoError(t, err)
		assert.NotContains(t, doc.Items, "p1.jpg")
		assert.Contains(t, doc.Items, "p2.jpg")
		assert.NotContains(t, doc.Lists["trip"], "p1.jpg")
		assert.Contains(t, doc.Lists["trip"], "p2.jpg")
		assert.NotContains(t, doc.Lists["backup"], "p1.jpg")

		_, statErr := os.Stat(files.GetFullPath("p1.jpg"))
		assert.True(t, os.IsNotExist(statErr))
		thumbs.AssertExpectations(t)
	})

	t.Run("missing artifacts are tolerated", func(t *testing.T) {
		service, db, thumbs, _ := setupItemService(t, false)
		seedItem(t, db, "p1.jpg", "beach", "", time.Now().UTC())
		thumbs.On("Remove", "p1.jpg").Return(nil).Once()

		// No raw file on disk.
		require.NoError(t, service.DeleteItem(ctx, "p1.jpg"))
		thumbs.AssertExpectations(t)
	})
}

func TestItemService_ListItems(t *testing.T) {
	ctx := context.Background()
	service, db, _, _ := setupItemService(t, false)

	base := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	seedItem(t, db, "old.jpg", "", "", base)
	seedItem(t, db, "mid.jpg", "", "", base.Add(time.Hour))
	seedItem(t, db, "new.jpg", "", "", base.Add(2*time.Hour))

	items, err := service.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "new.jpg", items[0].ID)
	assert.Equal(t, "mid.jpg", items[1].ID)
	assert.Equal(t, "old.jpg", items[2].ID)
}
