package dto

import "mime/multipart"

// BulkUploadInput несёт пакет загружаемых фотографий
type BulkUploadInput struct {
	Caption    string                  `json:"caption" form:"caption" validate:"max=1024"`
	Collection string                  `json:"collection" form:"collection" validate:"max=255"`
	Files      []*multipart.FileHeader `json:"-"`
}

type UpdateCaptionRequest struct {
	Caption string `json:"caption" validate:"max=1024"`
}

type BulkUploadResponse struct {
	Saved int `json:"saved"`
}
