package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/study-buddy/internal/store"
)

// Common service errors - sentinel errors callers may check with errors.Is().
var (
	// ErrSessionNotFound indicates the session does not exist or has expired.
	// API layer should map this to HTTP 404 Not Found.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotesEmpty indicates an artifact was requested before any notes were loaded.
	// API layer should map this to HTTP 409 Conflict.
	ErrNotesEmpty = errors.New("no notes loaded for this session")
)

// StudyServiceError wraps errors from the study service with context.
type StudyServiceError struct {
	// Operation is the operation that failed (e.g., "load_document", "set_progress")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for StudyServiceError.
func (e *StudyServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("study service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("study service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StudyServiceError) Unwrap() error {
	return e.Err
}

// NewStudyServiceError creates a new StudyServiceError.
// It returns known sentinel errors directly without wrapping.
func NewStudyServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrSessionNotFound) || store.IsNotFoundError(err) {
		return ErrSessionNotFound
	}
	if errors.Is(err, ErrNotesEmpty) {
		return ErrNotesEmpty
	}

	return &StudyServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
