// Package apperr defines the client-visible error taxonomy for the API.
// Store-layer code translates driver errors into these kinds; procedures
// attach field-level details for validation failures. Nothing outside this
// package should reach the client.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the client.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindReferential Kind = "referential"
	KindUnavailable Kind = "unavailable"
	KindInternal    Kind = "internal"
)

// Error is the structured error returned across the RPC boundary.
type Error struct {
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps the kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindReferential:
		return http.StatusUnprocessableEntity
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Validation reports an input that failed its declared constraints.
// fields maps each offending field to a short reason.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// NotFound reports a primary lookup that matched no row.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

// Conflict reports a uniqueness violation on the named field.
func Conflict(field, value string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: fmt.Sprintf("%s %q already exists", field, value),
		Fields:  map[string]string{field: "already_exists"},
	}
}

// Referential reports a foreign reference to a row that does not exist.
func Referential(field string) *Error {
	return &Error{
		Kind:    KindReferential,
		Message: fmt.Sprintf("referenced %s does not exist", field),
		Fields:  map[string]string{field: "unknown_reference"},
	}
}

// Unavailable reports a retryable infrastructure failure. The underlying
// driver error is kept for logs but never serialized to the client.
func Unavailable(cause error) *Error {
	return &Error{Kind: KindUnavailable, Message: "service temporarily unavailable", cause: cause}
}

// Internal wraps an unexpected error without leaking its details.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", cause: cause}
}

// From extracts an *Error from err, wrapping unknown errors as internal.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}
