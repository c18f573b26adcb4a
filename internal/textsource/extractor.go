package textsource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Extractor turns a Source into the session's text payload.
type Extractor struct {
	logger  *slog.Logger
	openPDF DocumentOpener
}

// NewExtractor creates an Extractor that parses PDFs with OpenPDF.
func NewExtractor(logger *slog.Logger) *Extractor {
	return NewExtractorWithOpener(logger, OpenPDF)
}

// NewExtractorWithOpener creates an Extractor with a custom document opener.
func NewExtractorWithOpener(logger *slog.Logger, opener DocumentOpener) *Extractor {
	return &Extractor{
		logger:  logger.With("component", "text_extractor"),
		openPDF: opener,
	}
}

// Extract returns the text of src. On failure it returns an empty string and
// an error wrapping ErrDecode, ErrExtraction or ErrUnsupportedMediaType.
func (e *Extractor) Extract(ctx context.Context, src Source) (string, error) {
	if src.Pasted() {
		return src.Text, nil
	}

	switch src.MediaType {
	case MediaTypePlainText:
		return e.decodePlainText(ctx, src.Data)
	case MediaTypePDF:
		return e.extractPDF(ctx, src.Data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaType, src.MediaType)
	}
}

func (e *Extractor) decodePlainText(ctx context.Context, data []byte) (string, error) {
	if !utf8.Valid(data) {
		e.logger.WarnContext(ctx, "plain-text upload is not valid UTF-8", "size_bytes", len(data))
		return "", fmt.Errorf("%w: content is not valid UTF-8", ErrDecode)
	}
	return string(data), nil
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte) (text string, err error) {
	// The PDF parser panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "pdf parser panicked", "panic", fmt.Sprint(r))
			text, err = "", fmt.Errorf("%w: malformed document: %v", ErrExtraction, r)
		}
	}()

	doc, err := e.openPDF(data)
	if err != nil {
		e.logger.WarnContext(ctx, "failed to open pdf", "error", err, "size_bytes", len(data))
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	pages := doc.NumPage()
	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		pageText, err := doc.PageText(i)
		if err != nil {
			e.logger.WarnContext(ctx, "failed to read pdf page", "page", i, "error", err)
			return "", fmt.Errorf("%w: page %d: %v", ErrExtraction, i, err)
		}
		sb.WriteString(pageText)
	}

	e.logger.DebugContext(ctx, "extracted pdf text", "pages", pages, "text_length", sb.Len())
	return sb.String(), nil
}
