// Package apperr holds sentinel errors shared across layers.
package apperr

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidElement = errors.New("invalid element")
)
