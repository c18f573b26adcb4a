package textsource

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/phrazzld/study-buddy/internal/domain"
)

// MediaType is the declared type of an uploaded document.
type MediaType string

// Supported media types
const (
	MediaTypePDF       MediaType = "pdf"
	MediaTypePlainText MediaType = "plain-text"
)

// ParseMediaType resolves a declared content type, falling back to the
// filename extension when the declared type is empty or generic.
func ParseMediaType(declared, filename string) (MediaType, error) {
	if mt, ok := mediaTypeFromDeclared(declared); ok {
		return mt, nil
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return MediaTypePDF, nil
	case ".txt", ".text", ".md":
		return MediaTypePlainText, nil
	}

	return "", fmt.Errorf("%w: %q (%s)", ErrUnsupportedMediaType, declared, filename)
}

func mediaTypeFromDeclared(declared string) (MediaType, bool) {
	value := strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(value); err == nil {
		value = parsed
	}

	switch value {
	case "application/pdf", "pdf":
		return MediaTypePDF, true
	case "text/plain", "plain-text", "txt", "text":
		return MediaTypePlainText, true
	default:
		return "", false
	}
}

// Origin maps the media type to the notes origin recorded on the session.
func (m MediaType) Origin() domain.NotesOrigin {
	switch m {
	case MediaTypePDF:
		return domain.NotesOriginPDF
	case MediaTypePlainText:
		return domain.NotesOriginPlainText
	default:
		return domain.NotesOriginNone
	}
}

// Source is one input event: either pasted text or an uploaded document.
type Source struct {
	// Text is set for pasted input.
	Text string
	// Data and MediaType are set for uploads.
	Data      []byte
	MediaType MediaType
	pasted    bool
}

// PastedText builds a Source from text typed or pasted by the user.
func PastedText(text string) Source {
	return Source{Text: text, pasted: true}
}

// Document builds a Source from uploaded bytes of the given media type.
func Document(data []byte, mediaType MediaType) Source {
	return Source{Data: data, MediaType: mediaType}
}

// Pasted reports whether the source came from the paste path.
func (s Source) Pasted() bool {
	return s.pasted
}

// Origin returns the notes origin for the source.
func (s Source) Origin() domain.NotesOrigin {
	if s.pasted {
		return domain.NotesOriginPaste
	}
	return s.MediaType.Origin()
}
