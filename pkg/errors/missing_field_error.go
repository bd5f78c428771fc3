package custom_error

import "fmt"

// MissingFieldError reports a required field without which a document cannot
// be rendered (inventory, premises, place). Optional fields never produce it;
// they degrade to defaults instead.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field is missing: %s", e.Field)
}

func NewMissingFieldError(field string) *MissingFieldError {
	return &MissingFieldError{Field: field}
}
