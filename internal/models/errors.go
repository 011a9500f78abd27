package models

import (
	"fmt"
	"net/http"
)

// APIError represents a structured error response returned by the console API.
// It implements the error interface and carries the HTTP status code the
// handler layer should respond with.
type APIError struct {
	// Code is the machine-readable error code (e.g., "validation_error").
	Code string `json:"error"`
	// Description provides additional human-readable error information
	// intended for direct display in the dashboard.
	Description string `json:"error_description,omitempty"`
	// StatusCode is the HTTP status code to return (excluded from JSON).
	StatusCode int `json:"-"`
}

// NewValidationError creates a new APIError with the "validation_error" code
// and the provided description. This error indicates that a request field is
// missing, blank, or otherwise malformed. Returns HTTP 422 Unprocessable Entity.
func NewValidationError(description string) *APIError {
	return &APIError{
		Code:        "validation_error",
		Description: description,
		StatusCode:  http.StatusUnprocessableEntity,
	}
}

// NewAuthenticationError creates a new APIError with the
// "authentication_error" code and the provided description. This error
// indicates that no valid session exists for the request.
// Returns HTTP 401 Unauthorized.
func NewAuthenticationError(description string) *APIError {
	return &APIError{
		Code:        "authentication_error",
		Description: description,
		StatusCode:  http.StatusUnauthorized,
	}
}

// NewNotFoundError creates a new APIError with the "not_found" code and the
// provided description. This error indicates that the requested resource
// (typically an API key id) does not exist. Returns HTTP 404 Not Found.
func NewNotFoundError(description string) *APIError {
	return &APIError{
		Code:        "not_found",
		Description: description,
		StatusCode:  http.StatusNotFound,
	}
}

// NewServerError creates a new APIError with the "server_error" code and the
// provided description. This error indicates an unexpected internal failure.
// Returns HTTP 500 Internal Server Error.
func NewServerError(description string) *APIError {
	return &APIError{
		Code:        "server_error",
		Description: description,
		StatusCode:  http.StatusInternalServerError,
	}
}

// Error returns a string representation of the API error.
// It implements the error interface.
func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	}
	return e.Code
}

// WithDescription sets the error_description field on the APIError and
// returns the same instance for chaining.
func (e *APIError) WithDescription(description string) *APIError {
	e.Description = description
	return e
}

// ValidationError represents a single field validation error.
// It contains the field name that failed validation and a human-readable
// message describing the validation failure.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error returns a string representation of the validation error in the format
// "field: message". It implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a slice of ValidationError that represents multiple
// field validation errors. It implements the error interface.
type ValidationErrors []ValidationError

// Error returns a string representation of the validation errors.
// If there are no errors, it returns "validation failed".
// If there is one error, it returns that error's message.
// If there are multiple errors, it returns a summary with the count.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("validation failed with %d errors", len(e))
}

// HasErrors returns true if there are one or more validation errors in the
// collection.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}
