package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/study-buddy/internal/domain"
)

// SessionStore defines the interface for session persistence.
// Implementations store copies: mutating a returned session has no effect
// until it is passed to Update.
type SessionStore interface {
	// Create saves a new session.
	// Returns ErrSessionExists if a session with the same ID is stored.
	// Returns ErrInvalidEntity if the session fails validation.
	Create(ctx context.Context, session *domain.Session) error

	// GetByID retrieves a session by its ID.
	// Returns ErrSessionNotFound if the session does not exist or has expired.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error)

	// Update replaces a stored session and refreshes its lifetime.
	// Returns ErrSessionNotFound if the session does not exist or has expired.
	Update(ctx context.Context, session *domain.Session) error

	// Delete removes a session.
	// Returns ErrSessionNotFound if the session does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
