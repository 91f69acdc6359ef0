package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a configuration value failed validation.
	// Configuration errors are detected when settings are loaded, never
	// while text is being cleaned or segmented.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoPages indicates the page source produced no page images.
	ErrNoPages = errors.New("no pages")

	// Collaborator Errors.

	// ErrOCRNotEnabled is returned when recognition is requested but OCR
	// support was not compiled in. Rebuild with -tags ocr to enable it.
	ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

	// ErrRasteriserUnavailable indicates the PDF rasteriser tool is not installed.
	ErrRasteriserUnavailable = errors.New("rasteriser unavailable")
)

// ConfigError reports a single invalid configuration field.
// It always matches ErrInvalidConfig with errors.Is.
type ConfigError struct {
	// Field is the configuration key, e.g. "cleaning.unicode_form".
	Field string

	// Reason describes why the value was rejected.
	Reason string
}

// NewConfigError creates a ConfigError for the given field.
func NewConfigError(field, reason string) *ConfigError {
	return &ConfigError{Field: field, Reason: reason}
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidConfig.Error(), e.Field, e.Reason)
}

// Unwrap returns ErrInvalidConfig so callers can match the category.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
