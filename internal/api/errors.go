package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/study-buddy/internal/api/shared"
	"github.com/phrazzld/study-buddy/internal/domain"
	"github.com/phrazzld/study-buddy/internal/service"
	"github.com/phrazzld/study-buddy/internal/store"
	"github.com/phrazzld/study-buddy/internal/textsource"
)

// errUploadTooLarge is returned when a multipart upload exceeds the configured limit.
var errUploadTooLarge = errors.New("upload exceeds size limit")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	// Not found errors
	case errors.Is(err, service.ErrSessionNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, service.ErrNotesEmpty),
		store.IsDuplicateError(err):
		return http.StatusConflict

	// Upload errors
	case errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, textsource.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, textsource.ErrDecode),
		errors.Is(err, textsource.ErrExtraction):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidArtifactKind),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, shared.ErrEmptyBody),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		store.IsNotFoundError(err):
		return "Session not found"

	case errors.Is(err, service.ErrNotesEmpty):
		return "Add your notes to start studying"

	case errors.Is(err, errUploadTooLarge):
		return "Uploaded file is too large"

	case errors.Is(err, textsource.ErrUnsupportedMediaType):
		return "Only PDF and plain-text files are supported"

	case errors.Is(err, textsource.ErrDecode):
		return "Text file is not valid UTF-8"

	case errors.Is(err, textsource.ErrExtraction):
		return "Could not read text from the PDF"

	case errors.Is(err, domain.ErrInvalidArtifactKind):
		return "Unknown artifact kind"

	case errors.Is(err, domain.ErrInvalidFlashcardCount):
		return fmt.Sprintf("Flashcard count must be between %d and %d",
			domain.MinFlashcardCount, domain.MaxFlashcardCount)

	case errors.Is(err, domain.ErrInvalidProgress):
		return fmt.Sprintf("Progress must be between %d and %d", domain.MinProgress, domain.MaxProgress)

	case errors.Is(err, domain.ErrInvalidTimerMinutes):
		return fmt.Sprintf("Timer minutes must be between %d and %d",
			domain.MinTimerMinutes, domain.MaxTimerMinutes)

	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(err)

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		return fmt.Sprintf("Invalid %s: %s", strings.ToLower(fe.Field()), getValidationTagMessage(fe.Tag()))
	}

	// Fall back to a generic validation error message
	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status code and safe message and writes the
// error response. A non-empty message overrides the mapped one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}

	var opts []shared.ResponseOption
	switch status {
	case http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		// Rejected uploads are logged at WARN.
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
