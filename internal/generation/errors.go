package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed matches every *GenerationError via errors.Is
	ErrGenerationFailed = errors.New("failed to generate text")

	// ErrEmptyResponse is returned when the model returns no usable text
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

// GenerationError is the single error type surfaced by generation backends.
// Message is the human readable reason shown to the user; Err, when set, is the
// underlying cause. Callers that need to tell transient failures from fatal ones
// can only inspect Message.
type GenerationError struct {
	Message string
	Err     error
}

// NewGenerationError creates a GenerationError with only a message.
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{Message: message}
}

// WrapError converts any error into a *GenerationError. Existing
// GenerationErrors are returned unchanged.
func WrapError(err error) *GenerationError {
	if err == nil {
		return nil
	}

	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	return &GenerationError{Message: err.Error(), Err: err}
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrGenerationFailed.Error()
}

// Unwrap returns the underlying cause.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Is makes every GenerationError match ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}
