package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notification for presentation.
type Kind string

// Notification kinds
const (
	KindSuccess      Kind = "success"
	KindError        Kind = "error"
	KindCelebration  Kind = "celebration"
	KindTimerExpired Kind = "timer_expired"
)

// Notification is a message addressed to one session.
type Notification struct {
	// ID is a unique identifier for this notification
	ID uuid.UUID `json:"id"`

	// SessionID is the session the notification belongs to
	SessionID uuid.UUID `json:"session_id"`

	// Kind indicates how the notification should be presented
	Kind Kind `json:"kind"`

	// Message is the text shown to the user
	Message string `json:"message"`

	// CreatedAt is the timestamp when the notification was created
	CreatedAt time.Time `json:"created_at"`
}

// NewNotification creates a Notification stamped with a fresh ID and the current time.
func NewNotification(sessionID uuid.UUID, kind Kind, message string) *Notification {
	return &Notification{
		ID:        uuid.New(),
		SessionID: sessionID,
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that consume notifications.
type EventHandler interface {
	// HandleEvent processes the given notification within the provided context.
	// Returns an error if the notification cannot be handled.
	HandleEvent(ctx context.Context, n *Notification) error
}

// EventEmitter defines an interface for components that publish notifications.
// This allows services to report outcomes without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given notification to all registered handlers.
	EmitEvent(ctx context.Context, n *Notification) error
}
