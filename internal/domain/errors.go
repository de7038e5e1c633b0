package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError describes a rejected upload or series. It is always
// user-facing and never retried.
type ValidationError struct {
	Reason   string
	Missing  []string // populated for "missing columns"
	Required int      // populated for "insufficient points"
	Got      int
}

func (e *ValidationError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("%s: %s", e.Reason, strings.Join(e.Missing, ", "))
	case e.Required > 0:
		return fmt.Sprintf("%s: required %d, got %d", e.Reason, e.Required, e.Got)
	default:
		return e.Reason
	}
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// ArtifactNotFoundError reports a missing model, scaler, or metadata file.
// It is a startup-class failure: the forecast feature must not be
// advertised as available while it persists.
type ArtifactNotFoundError struct {
	Path string
}

func (e *ArtifactNotFoundError) Error() string {
	return fmt.Sprintf("artifact not found: %s", e.Path)
}

// ShapeError reports a model input/output shape mismatch, which indicates
// an inconsistency between the artifacts and the metadata rather than bad
// user input.
type ShapeError struct {
	What     string
	Expected int
	Got      int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch in %s: expected %d, got %d", e.What, e.Expected, e.Got)
}
