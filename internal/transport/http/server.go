package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"photopick/internal/domain/models"
	"photopick/internal/lib/logger/sl"
	"photopick/internal/storage"
	"photopick/internal/transport/http/dto"
	"photopick/internal/transport/http/dto/response"

	"github.com/labstack/echo/v4"
)

type ItemService interface {
	BulkUpload(ctx context.Context, input dto.BulkUploadInput) (int, error)
	UpdateCaption(ctx context.Context, id, caption string) error
	DeleteItem(ctx context.Context, id string) error
	ListItems(ctx context.Context) ([]models.Item, error)
}

type ListService interface {
	CreateList(ctx context.Context, name string) error
	ListNames(ctx context.Context) ([]string, error)
	Lists(ctx context.Context) (map[string]models.ListVotes, error)
	RecordVote(ctx context.Context, listName, itemID, choice, comment string) error
	CreateCollection(ctx context.Context, name string) error
	Collections(ctx context.Context) ([]string, error)
}

type ResultsService interface {
	GetListView(ctx context.Context, listName string) (models.ListView, error)
}

type Routers struct {
	log            *slog.Logger
	ItemService    ItemService
	ListService    ListService
	ResultsService ResultsService
}

func NewRouter(log *slog.Logger, itemService ItemService, listService ListService, resultsService ResultsService) *Routers {
	return &Routers{
		log:            log,
		ItemService:    itemService,
		ListService:    listService,
		ResultsService: resultsService,
	}
}

// BulkUpload принимает multipart-пакет фотографий и сохраняет их
func (r *Routers) BulkUpload(c echo.Context) error {
	const op = "http.routers.BulkUpload"

	log := r.log.With(
		slog.String("op", op),
	)

	form, err := c.MultipartForm()
	if err != nil {
		log.Warn("failed to parse multipart form", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	input := dto.BulkUploadInput{
		Caption:    c.FormValue("caption"),
		Collection: c.FormValue("collection"),
		Files:      form.File["photos"],
	}

	if err := c.Validate(input); err != nil {
		log.Warn("invalid upload input", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	saved, err := r.ItemService.BulkUpload(c.Request().Context(), input)
	if err != nil {
		log.Error("bulk upload failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(dto.BulkUploadResponse{Saved: saved}))
}

// ListItems возвращает все фотографии, новые первыми
func (r *Routers) ListItems(c echo.Context) error {
	const op = "http.routers.ListItems"

	items, err := r.ItemService.ListItems(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list items", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(items))
}

func (r *Routers) UpdateCaption(c echo.Context) error {
	const op = "http.routers.UpdateCaption"

	log := r.log.With(
		slog.String("op", op),
		slog.String("id", c.Param("id")),
	)

	var req dto.UpdateCaptionRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	err := r.ItemService.UpdateCaption(c.Request().Context(), c.Param("id"), req.Caption)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
		}
		log.Error("caption update failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) DeleteItem(c echo.Context) error {
	const op = "http.routers.DeleteItem"

	log := r.log.With(
		slog.String("op", op),
		slog.String("id", c.Param("id")),
	)

	err := r.ItemService.DeleteItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			log.Warn("delete of unknown item")
			return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
		}
		log.Error("delete failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

func (r *Routers) CreateList(c echo.Context) error {
	const op = "http.routers.CreateList"

	log := r.log.With(
		slog.String("op", op),
		slog.String("list", c.Param("name")),
	)

	err := r.ListService.CreateList(c.Request().Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, storage.ErrEmptyName) {
			log.Warn("rejected empty list name")
			return c.JSON(http.StatusBadRequest, response.ErrEmptyName)
		}
		log.Error("list creation failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(nil))
}

func (r *Routers) Lists(c echo.Context) error {
	const op = "http.routers.Lists"

	lists, err := r.ListService.Lists(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list lists", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(lists))
}

func (r *Routers) ListNames(c echo.Context) error {
	const op = "http.routers.ListNames"

	names, err := r.ListService.ListNames(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list names", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(names))
}

// Vote записывает голос участника по фотографии в списке
func (r *Routers) Vote(c echo.Context) error {
	const op = "http.routers.Vote"

	log := r.log.With(
		slog.String("op", op),
		slog.String("list", c.Param("name")),
	)

	var req dto.VoteRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid vote request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	err := r.ListService.RecordVote(c.Request().Context(), c.Param("name"), req.Item, req.Choice, req.Comment)
	if err != nil {
		if errors.Is(err, storage.ErrListNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrListNotFound)
		}
		log.Error("vote failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(nil))
}

// GetListView возвращает сгруппированный по коллекциям результат списка
func (r *Routers) GetListView(c echo.Context) error {
	const op = "http.routers.GetListView"

	view, err := r.ResultsService.GetListView(c.Request().Context(), c.Param("name"))
	if err != nil {
		r.log.Error("failed to build list view", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(view))
}

func (r *Routers) Collections(c echo.Context) error {
	const op = "http.routers.Collections"

	names, err := r.ListService.Collections(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list collections", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(names))
}

func (r *Routers) CreateCollection(c echo.Context) error {
	const op = "http.routers.CreateCollection"

	log := r.log.With(
		slog.String("op", op),
	)

	var req dto.CreateCollectionRequest

	if err := c.Bind(&req); err != nil {
		log.Warn("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	err := r.ListService.CreateCollection(c.Request().Context(), req.Name)
	if err != nil {
		if errors.Is(err, storage.ErrEmptyName) {
			return c.JSON(http.StatusBadRequest, response.ErrEmptyName)
		}
		log.Error("collection creation failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrorResponseWithDetails("internal_error", "Internal server error"))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(nil))
}
