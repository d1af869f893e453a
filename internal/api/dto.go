package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/scrivener/internal/element"
	"github.com/starford/scrivener/internal/session"
)

// AddElementRequest is the request body for appending an element.
type AddElementRequest struct {
	Kind  string `json:"kind" example:"text" validate:"required"`
	Value string `json:"value" example:"Hello, world!"`
}

// Validate checks the element kind.
func (r AddElementRequest) Validate() error {
	kinds := make([]interface{}, len(element.Kinds))
	for i, k := range element.Kinds {
		kinds[i] = string(k)
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Kind, validation.Required, validation.In(kinds...)),
	)
}

// DocumentInfo is the response type describing a session (aliased from the domain layer).
type DocumentInfo = session.Info

// SaveResult is returned after a successful save (aliased from the domain layer).
type SaveResult = session.SaveResult

// DocumentListResponse wraps session listings.
type DocumentListResponse struct {
	Documents []DocumentInfo `json:"documents" validate:"required"`
	Total     int            `json:"total" example:"3" validate:"required"`
}

// ImageUploadResponse is returned after an image is uploaded and appended.
type ImageUploadResponse struct {
	Document DocumentInfo `json:"document" validate:"required"`
	Path     string       `json:"path" example:"assets/image.png" validate:"required"`
	Size     int64        `json:"size" example:"12345" validate:"required"`
	URL      string       `json:"url" example:"/assets/image.png" validate:"required"`
}
