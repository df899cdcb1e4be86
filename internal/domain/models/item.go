package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CollectionUncategorized is the bucket items fall into when no collection
// was assigned at upload time.
const CollectionUncategorized = "Uncategorized"

// Item представляет загруженную фотографию
type Item struct {
	ID         string    `json:"id"`
	Caption    string    `json:"caption"`
	Collection string    `json:"collection,omitempty"`
	Thumb      string    `json:"thumb,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewItem mints an item with a fresh collision-free id. The original upload
// extension is kept in the id so raw and thumbnail artifact names stay
// derivable from the id alone.
func NewItem(caption, collection, originalFilename string) Item {
	ext := strings.ToLower(filepath.Ext(originalFilename))

	return Item{
		ID:         uuid.New().String() + ext,
		Caption:    caption,
		Collection: strings.TrimSpace(collection),
		CreatedAt:  time.Now().UTC(),
	}
}

// CollectionOrDefault returns the grouping bucket for the read side.
func (i Item) CollectionOrDefault() string {
	if strings.TrimSpace(i.Collection) == "" {
		return CollectionUncategorized
	}
	return i.Collection
}

// Validate проверяет корректность данных фотографии
func (i *Item) Validate() error {
	var validationErrors []string

	if i.ID == "" {
		validationErrors = append(validationErrors, "id is required")
	}
	if len(i.Caption) > 1024 {
		validationErrors = append(validationErrors, "caption must be 1024 characters or less")
	}
	if len(i.Collection) > 255 {
		validationErrors = append(validationErrors, "collection must be 255 characters or less")
	}
	if i.CreatedAt.IsZero() {
		validationErrors = append(validationErrors, "created_at is required")
	}

	if len(validationErrors) > 0 {
		return &ItemValidationError{Errors: validationErrors}
	}

	return nil
}

// ItemValidationError кастомный тип ошибки для валидации
type ItemValidationError struct {
	Errors []string
}

func (e *ItemValidationError) Error() string {
	return fmt.Sprintf("item validation failed: %s", strings.Join(e.Errors, "; "))
}

// IsItemValidationError проверяет, является ли ошибка ошибкой валидации
func IsItemValidationError(err error) bool {
	_, ok := err.(*ItemValidationError)
	return ok
}
