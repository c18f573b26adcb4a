package api

import (
	"time"

	"github.com/phrazzld/study-buddy/internal/domain"
	"github.com/phrazzld/study-buddy/internal/events"
	"github.com/phrazzld/study-buddy/internal/timer"
)

// Request payloads

// LoadNotesRequest carries pasted notes. Empty text is allowed and clears the notes.
type LoadNotesRequest struct {
	Text string `json:"text"`
}

// GenerateArtifactRequest carries artifact parameters. Count applies to
// flashcards only; zero selects the default.
type GenerateArtifactRequest struct {
	Count int `json:"count" validate:"omitempty,min=5,max=20"`
}

// BookmarkRequest carries the bookmark text.
type BookmarkRequest struct {
	Text string `json:"text"`
}

// ProgressRequest carries the completion percentage.
type ProgressRequest struct {
	Percent *int `json:"percent" validate:"required,min=0,max=100"`
}

// TimerRequest carries the countdown length.
type TimerRequest struct {
	Minutes int `json:"minutes" validate:"required,min=1,max=60"`
}

// Response payloads

// NotesResponse describes the loaded notes.
type NotesResponse struct {
	Text       string     `json:"text"`
	Origin     string     `json:"origin"`
	Length     int        `json:"length"`
	LoadedAt   *time.Time `json:"loaded_at,omitempty"`
	HasContent bool       `json:"has_content"`
}

// SessionResponse represents a study session.
type SessionResponse struct {
	ID        string        `json:"id"`
	Notes     NotesResponse `json:"notes"`
	Bookmark  *string       `json:"bookmark"`
	Progress  int           `json:"progress"`
	Completed bool          `json:"completed"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ArtifactResponse represents the outcome of one generation.
type ArtifactResponse struct {
	Kind         string `json:"kind"`
	Succeeded    bool   `json:"succeeded"`
	Content      string `json:"content,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Filename     string `json:"filename,omitempty"`
}

// BookmarkResponse represents the bookmark slot.
type BookmarkResponse struct {
	Text  string `json:"text"`
	Saved bool   `json:"saved"`
}

// TimerResponse represents the countdown state.
type TimerResponse struct {
	Running          bool   `json:"running"`
	TotalSeconds     int    `json:"total_seconds"`
	RemainingSeconds int    `json:"remaining_seconds"`
	Display          string `json:"display"`
}

// CancelTimerResponse reports whether a countdown was stopped.
type CancelTimerResponse struct {
	Cancelled bool `json:"cancelled"`
}

// NotificationResponse represents one notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationsResponse wraps drained notifications.
type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

// sessionToResponse converts a domain.Session to a SessionResponse
func sessionToResponse(s *domain.Session) SessionResponse {
	resp := SessionResponse{
		ID: s.ID.String(),
		Notes: NotesResponse{
			Text:       s.Notes.Text,
			Origin:     string(s.Notes.Origin),
			Length:     len(s.Notes.Text),
			HasContent: !s.Notes.Empty(),
		},
		Progress:  s.Progress,
		Completed: s.Completed(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if !s.Notes.LoadedAt.IsZero() {
		loadedAt := s.Notes.LoadedAt
		resp.Notes.LoadedAt = &loadedAt
	}
	if s.HasBookmark {
		bookmark := s.Bookmark
		resp.Bookmark = &bookmark
	}
	return resp
}

func artifactToResponse(r domain.ArtifactResult) ArtifactResponse {
	resp := ArtifactResponse{
		Kind:         r.Kind.String(),
		Succeeded:    r.Succeeded,
		ErrorMessage: r.ErrorMessage,
	}
	if r.Succeeded {
		resp.Content = r.RawText
		resp.Filename = r.Filename()
	}
	return resp
}

func timerToResponse(s timer.Status) TimerResponse {
	return TimerResponse{
		Running:          s.Running,
		TotalSeconds:     int(s.Total / time.Second),
		RemainingSeconds: int(s.Remaining / time.Second),
		Display:          s.Display(),
	}
}

func notificationsToResponse(ns []events.Notification) NotificationsResponse {
	out := make([]NotificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, NotificationResponse{
			ID:        n.ID.String(),
			Kind:      string(n.Kind),
			Message:   n.Message,
			CreatedAt: n.CreatedAt,
		})
	}
	return NotificationsResponse{Notifications: out}
}
