package couchfetch

import (
	"encoding/json"
	"errors"
)

// ErrUnsupportedOperation is returned for operations outside the
// supported verb surface, such as COPY, before any transport contact.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// FieldError represents one invalid configuration field.
type FieldError struct {
	Field string `json:"field"`
	Err   string `json:"error"`
}

// FieldErrors represents a collection of field errors.
type FieldErrors []FieldError

// Error implements the error interface.
func (fe FieldErrors) Error() string {
	d, err := json.Marshal(fe)
	if err != nil {
		return err.Error()
	}
	return string(d)
}
