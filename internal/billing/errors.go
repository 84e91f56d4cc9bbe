package billing

import (
	"errors"
	"fmt"
)

// Common bill editing and generation errors
var (
	// ErrLastItem is returned when removing the only remaining line item.
	ErrLastItem = errors.New("a bill must keep at least one line item")

	// ErrItemIndex is returned when a line item index is out of range.
	ErrItemIndex = errors.New("line item index out of range")

	// ErrUnknownField is returned for edits to a field that cannot be edited.
	ErrUnknownField = errors.New("unknown or read-only line item field")

	// ErrInvalidConfiguration is returned when a bill configuration fails validation.
	ErrInvalidConfiguration = errors.New("invalid bill configuration")

	// ErrGenerationFailed is the single failure condition reported for a batch.
	ErrGenerationFailed = errors.New("bill generation failed")
)

// GenerationError wraps a batch failure with the number of documents already emitted.
type GenerationError struct {
	// Op is the step that failed (e.g., "Validate", "Render", "Emit").
	Op string

	// Err is the underlying error.
	Err error

	// FileName is the document being produced when the failure happened, if any.
	FileName string

	// Generated is how many documents were emitted before the failure. They are left in place.
	Generated int
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.FileName != "" {
		return fmt.Sprintf("billing: %s failed for %s after %d bills: %v", e.Op, e.FileName, e.Generated, e.Err)
	}
	return fmt.Sprintf("billing: %s failed after %d bills: %v", e.Op, e.Generated, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is reports ErrGenerationFailed for every GenerationError. Causes are matched through Unwrap.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// ValidationError represents a rejected configuration value.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// Is matches ErrInvalidConfiguration.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}
