// Package services defines the business logic of the inventory: the auth
// gate, read views over parts and activities, part mutations, and supplier
// order sheets. This file centralizes service-level error values so that they
// can be consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"strings"
)

// Auth errors.
var (
	// ErrMissingCredentials is returned when username or password is blank.
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrInvalidCredentials is returned for any credential mismatch. It never
	// says which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAuthMisconfigured is returned when the admin credential is not
	// configured on the server.
	ErrAuthMisconfigured = errors.New("admin credentials are not configured")
)

// Part errors.
var (
	// ErrInvalidID is returned when a part id is not a well-formed UUID.
	ErrInvalidID = errors.New("invalid part id")

	// ErrPartNotFound indicates that the requested part does not exist.
	ErrPartNotFound = errors.New("part not found")

	// ErrMissingPartNumber is returned by the duplicate check when no part
	// number was supplied.
	ErrMissingPartNumber = errors.New("partNumber is required")

	// ErrEmptySelection is returned when an order sheet is requested for no
	// known parts.
	ErrEmptySelection = errors.New("no parts selected")

	// ErrUnsupportedFormat is returned for an unknown order sheet format.
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// FieldError describes one failed input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failed field of an input so forms can
// highlight them all at once.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
