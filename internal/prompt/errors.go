package prompt

import "errors"

var (
	// ErrTemplateLoad is returned when a template cannot be read or parsed.
	ErrTemplateLoad = errors.New("failed to load prompt template")

	// ErrTemplateExecute is returned when a parsed template fails to render.
	ErrTemplateExecute = errors.New("failed to execute prompt template")
)
