// Package models defines the domain types shared by storage backends and APIs.
package models

import (
	"time"

	"github.com/starford/scrivener/internal/checksum"
)

// Rendering is one persisted document rendering.
type Rendering struct {
	Name     string    `json:"name"`
	Body     string    `json:"body,omitempty"`
	Checksum string    `json:"checksum"`
	Size     int       `json:"size"`
	SavedAt  time.Time `json:"saved_at"`
}

// NewRendering builds a Rendering for data saved under name at the given time.
func NewRendering(name, data string, at time.Time) Rendering {
	return Rendering{
		Name:     name,
		Body:     data,
		Checksum: checksum.String(data),
		Size:     len(data),
		SavedAt:  at,
	}
}
