package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Progress bounds
const (
	MinProgress     = 0
	MaxProgress     = 100
	DefaultProgress = 20
)

// Timer bounds, in minutes
const (
	MinTimerMinutes     = 1
	MaxTimerMinutes     = 60
	DefaultTimerMinutes = 25
)

// Session is the explicit context object for one user's study session.
// It owns the only mutable slots of the application: the notes payload,
// the bookmark and the completion percentage.
type Session struct {
	ID          uuid.UUID    `json:"id"`
	Notes       NotesPayload `json:"notes"`
	Bookmark    string       `json:"bookmark"`
	HasBookmark bool         `json:"has_bookmark"`
	Progress    int          `json:"progress"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewSession creates an empty session with a fresh ID and default progress.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		Progress:  DefaultProgress,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks if the Session has valid data.
func (s *Session) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}
	if err := ValidateProgress(s.Progress); err != nil {
		return err
	}
	return nil
}

// ReplaceNotes overwrites the session payload.
func (s *Session) ReplaceNotes(notes NotesPayload) {
	s.Notes = notes
	s.touch()
}

// ClearNotes empties the payload, used when extraction of a new input fails.
func (s *Session) ClearNotes() {
	s.Notes = NotesPayload{}
	s.touch()
}

// SaveBookmark stores text in the bookmark slot, replacing any previous value.
func (s *Session) SaveBookmark(text string) {
	s.Bookmark = text
	s.HasBookmark = true
	s.touch()
}

// SetProgress records the completion percentage.
func (s *Session) SetProgress(percent int) error {
	if err := ValidateProgress(percent); err != nil {
		return err
	}
	s.Progress = percent
	s.touch()
	return nil
}

// Completed reports whether the user has marked the study as finished.
func (s *Session) Completed() bool {
	return s.Progress == MaxProgress
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

// ValidateProgress checks that percent lies in [MinProgress, MaxProgress].
func ValidateProgress(percent int) error {
	if percent < MinProgress || percent > MaxProgress {
		return fmt.Errorf("%w: %w: %d not in [%d,%d]", ErrValidation, ErrInvalidProgress,
			percent, MinProgress, MaxProgress)
	}
	return nil
}

// ValidateTimerMinutes checks that minutes lies in [MinTimerMinutes, MaxTimerMinutes].
func ValidateTimerMinutes(minutes int) error {
	if minutes < MinTimerMinutes || minutes > MaxTimerMinutes {
		return fmt.Errorf("%w: %w: %d not in [%d,%d]", ErrValidation, ErrInvalidTimerMinutes,
			minutes, MinTimerMinutes, MaxTimerMinutes)
	}
	return nil
}
