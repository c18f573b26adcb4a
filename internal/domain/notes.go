package domain

import "time"

// NotesOrigin records how a NotesPayload entered the session.
type NotesOrigin string

// Possible notes origins
const (
	NotesOriginNone      NotesOrigin = ""
	NotesOriginPaste     NotesOrigin = "paste"
	NotesOriginPDF       NotesOrigin = "pdf"
	NotesOriginPlainText NotesOrigin = "plain-text"
)

// NotesPayload is the full text supplied for the current session.
// A new input event replaces it wholesale; payloads are never merged.
type NotesPayload struct {
	Text     string      `json:"text"`
	Origin   NotesOrigin `json:"origin"`
	LoadedAt time.Time   `json:"loaded_at"`
}

// NewNotesPayload creates a payload stamped with the current time.
func NewNotesPayload(text string, origin NotesOrigin) NotesPayload {
	return NotesPayload{
		Text:     text,
		Origin:   origin,
		LoadedAt: time.Now().UTC(),
	}
}

// Empty reports whether the payload has no text to act on.
func (n NotesPayload) Empty() bool {
	return n.Text == ""
}
