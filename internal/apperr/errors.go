package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for status mapping. Handlers translate kinds to
// HTTP statuses; everything below the handler layer works with kinds only.
type Kind string

const (
	KindValidation  Kind = "validation_error"
	KindForbidden   Kind = "forbidden"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindUnavailable Kind = "dependency_unavailable"
	KindMapping     Kind = "mapping_error"
)

// FieldViolation is a single validation failure, one per offending field rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries a kind, a safe human-readable message and (for validation
// failures) the full violation list. The wrapped cause is kept for logs but
// never serialized to clients.
type Error struct {
	Kind       Kind
	Message    string
	Violations []FieldViolation
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a new Error. The cause stays server-side.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// Validation builds a validation Error carrying every violation found.
func Validation(violations []FieldViolation) *Error {
	return &Error{Kind: KindValidation, Message: "request validation failed", Violations: violations}
}

// KindOf extracts the Kind from err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Status maps an error to its HTTP status. Unclassified errors map to 500.
func Status(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindMapping:
		return http.StatusInternalServerError
	}
	return http.StatusInternalServerError
}
