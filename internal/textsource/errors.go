package textsource

import "errors"

// Error definitions for the textsource package.
var (
	// ErrDecode is returned when a plain-text upload is not valid UTF-8.
	ErrDecode = errors.New("failed to decode text file")

	// ErrExtraction is returned when a paged document cannot be opened or parsed.
	ErrExtraction = errors.New("failed to extract text from document")

	// ErrUnsupportedMediaType is returned for uploads that are neither PDF nor plain text.
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)
