package dto

// VoteRequest одно решение участника по фотографии в списке
type VoteRequest struct {
	Item    string `json:"item" validate:"required"`
	Choice  string `json:"choice" validate:"required,max=64"`
	Comment string `json:"comment" validate:"max=1024"`
}

type CreateCollectionRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}
