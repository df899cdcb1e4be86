package storage

import "errors"

var (
	ErrItemNotFound = errors.New("item not found")
	ErrListNotFound = errors.New("list not found")
	ErrEmptyName    = errors.New("name is empty")
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds limit")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileNotFound    = errors.New("file not found")
	ErrThumbnailFailed = errors.New("thumbnail generation failed")
	ErrUnknownDriver   = errors.New("unknown storage driver")
)
