package models

import "errors"

var (
	ErrNoCurrentDesign  = errors.New("no current design")
	ErrElementNotFound  = errors.New("element not found")
	ErrDesignNotFound   = errors.New("design not found")
	ErrTemplateNotFound = errors.New("template not found")
	ErrElementLocked    = errors.New("element is locked")
)

// ValidationError reports malformed construction or update input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// IsValidation reports whether err wraps a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
