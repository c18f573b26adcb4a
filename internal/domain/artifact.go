package domain

import (
	"fmt"
	"strings"
)

// ArtifactKind identifies one of the study outputs that can be generated from notes.
type ArtifactKind string

// Supported artifact kinds
const (
	ArtifactSummary    ArtifactKind = "summary"
	ArtifactFlashcards ArtifactKind = "flashcards"
	ArtifactQuiz       ArtifactKind = "quiz"
	ArtifactConcepts   ArtifactKind = "concepts"
)

// Flashcard and quiz sizing
const (
	MinFlashcardCount     = 5
	MaxFlashcardCount     = 20
	DefaultFlashcardCount = 10

	// QuizQuestionCount is fixed; quizzes are not parameterized.
	QuizQuestionCount = 5
)

// ArtifactKinds lists every supported kind in display order.
func ArtifactKinds() []ArtifactKind {
	return []ArtifactKind{ArtifactSummary, ArtifactFlashcards, ArtifactQuiz, ArtifactConcepts}
}

// ParseArtifactKind converts a raw string (case-insensitive) into an ArtifactKind.
func ParseArtifactKind(raw string) (ArtifactKind, error) {
	kind := ArtifactKind(strings.ToLower(strings.TrimSpace(raw)))
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidArtifactKind, raw)
	}
	return kind, nil
}

// Valid reports whether k is a supported artifact kind.
func (k ArtifactKind) Valid() bool {
	switch k {
	case ArtifactSummary, ArtifactFlashcards, ArtifactQuiz, ArtifactConcepts:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (k ArtifactKind) String() string {
	return string(k)
}

// Title returns a human readable label, used for download filenames and logs.
func (k ArtifactKind) Title() string {
	switch k {
	case ArtifactSummary:
		return "Summary"
	case ArtifactFlashcards:
		return "Flashcards"
	case ArtifactQuiz:
		return "Quiz"
	case ArtifactConcepts:
		return "Concepts"
	default:
		return "Artifact"
	}
}

// Parameters carries kind-specific options for an artifact request.
type Parameters struct {
	// Count is the number of flashcards to produce. Ignored for other kinds.
	Count int `json:"count,omitempty"`
}

// ArtifactRequest describes a single generation requested by the user.
// It is constructed fresh for every action and never persisted.
type ArtifactRequest struct {
	Kind       ArtifactKind
	SourceText string
	Parameters Parameters
}

// NewArtifactRequest builds and validates an ArtifactRequest.
// A zero flashcard count is replaced by DefaultFlashcardCount; any other value
// outside [MinFlashcardCount, MaxFlashcardCount] is rejected.
func NewArtifactRequest(kind ArtifactKind, sourceText string, params Parameters) (ArtifactRequest, error) {
	if kind == ArtifactFlashcards && params.Count == 0 {
		params.Count = DefaultFlashcardCount
	}

	req := ArtifactRequest{
		Kind:       kind,
		SourceText: sourceText,
		Parameters: params,
	}
	if err := req.Validate(); err != nil {
		return ArtifactRequest{}, err
	}
	return req, nil
}

// Validate checks the request against the artifact kind's contract.
func (r ArtifactRequest) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidArtifactKind, r.Kind)
	}

	if r.Kind == ArtifactFlashcards &&
		(r.Parameters.Count < MinFlashcardCount || r.Parameters.Count > MaxFlashcardCount) {
		return fmt.Errorf("%w: %w: %d not in [%d,%d]", ErrValidation, ErrInvalidFlashcardCount,
			r.Parameters.Count, MinFlashcardCount, MaxFlashcardCount)
	}

	return nil
}

// ArtifactResult is the outcome of one generation. Failures are values, not errors:
// a failed generation carries Succeeded=false and the underlying message.
type ArtifactResult struct {
	Kind         ArtifactKind `json:"kind"`
	RawText      string       `json:"raw_text"`
	Succeeded    bool         `json:"succeeded"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// SucceededResult wraps generated text as a successful result.
func SucceededResult(kind ArtifactKind, rawText string) ArtifactResult {
	return ArtifactResult{
		Kind:      kind,
		RawText:   rawText,
		Succeeded: true,
	}
}

// FailedResult wraps a failure message as an unsuccessful result.
func FailedResult(kind ArtifactKind, message string) ArtifactResult {
	return ArtifactResult{
		Kind:         kind,
		Succeeded:    false,
		ErrorMessage: message,
	}
}

// Filename returns the suggested download filename for the result.
func (r ArtifactResult) Filename() string {
	return strings.ToLower(r.Kind.Title()) + ".md"
}
