package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a node, pool entry or record was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid user input
	ValidationError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string   { return e.Message }
func (e *ValidationError) Error() string { return e.Message }

func (e *NotFoundError) StatusCode() int   { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

func (e *NotFoundError) Is(target error) bool   { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")

	// Tree operation failures
	ErrNotAFolder     = errors.New("node is not a folder")
	ErrNotAFile       = errors.New("node is not a file")
	ErrAlreadyLinked  = errors.New("document already linked under target folder")
	ErrCyclicMove     = errors.New("cannot move a node into itself or its descendants")
	ErrParentNotFound = errors.New("parent folder not found")
	ErrNoTarget       = errors.New("no target folder selected")

	// Precondition failures for batch and export operations
	ErrEmptySelection = errors.New("no documents selected")
	ErrEmptyName      = errors.New("name cannot be empty")
	ErrEmptyStructure = errors.New("report structure is empty")
	ErrNoDocuments    = errors.New("report contains no documents")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (document, report_node, report)
	ResourceID   string // ID of the existing/conflicting resource
	Kind         error  // Optional more specific sentinel (e.g. ErrAlreadyLinked)
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict and the specific kind
func (e *ConflictError) Is(target error) bool {
	if target == ErrConflict {
		return true
	}
	return e.Kind != nil && target == e.Kind
}

// StatusFor maps any error produced by the document-report core to an HTTP status.
func StatusFor(err error) int {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode()
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrParentNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyLinked), errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrCyclicMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrNotAFolder),
		errors.Is(err, ErrNotAFile),
		errors.Is(err, ErrNoTarget),
		errors.Is(err, ErrEmptySelection),
		errors.Is(err, ErrEmptyName),
		errors.Is(err, ErrEmptyStructure),
		errors.Is(err, ErrNoDocuments):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
