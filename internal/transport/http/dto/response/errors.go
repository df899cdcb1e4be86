package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrEmptyName = ErrorResponse{
		Status:  "error",
		Error:   "empty_name",
		Details: "Name must not be empty",
	}

	ErrItemNotFound = ErrorResponse{
		Status:  "error",
		Error:   "item_not_found",
		Details: "No item with this id",
	}

	ErrListNotFound = ErrorResponse{
		Status:  "error",
		Error:   "list_not_found",
		Details: "No list with this name",
	}
)
