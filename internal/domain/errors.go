package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidArtifactKind is returned when an artifact kind is not one of
	// summary, flashcards, quiz or concepts.
	ErrInvalidArtifactKind = errors.New("invalid artifact kind")

	// ErrInvalidFlashcardCount is returned when a flashcard count is outside
	// the allowed range.
	ErrInvalidFlashcardCount = errors.New("invalid flashcard count")

	// ErrInvalidProgress is returned when a progress value is not a percentage.
	ErrInvalidProgress = errors.New("invalid progress value")

	// ErrInvalidTimerMinutes is returned when a timer duration is out of range.
	ErrInvalidTimerMinutes = errors.New("invalid timer minutes")

	// ErrEmptySessionID is returned when a session has no identifier.
	ErrEmptySessionID = errors.New("session ID cannot be empty")
)
