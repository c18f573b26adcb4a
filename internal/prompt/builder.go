package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"text/template"

	"github.com/phrazzld/study-buddy/internal/domain"
)

//go:embed templates/*.tmpl
var defaultTemplates embed.FS

// promptData is the value every template is executed against.
type promptData struct {
	SourceText    string
	Count         int
	QuestionCount int
}

// Builder renders prompts from one template per artifact kind.
// It is immutable after construction and safe for concurrent use.
type Builder struct {
	templates map[domain.ArtifactKind]*template.Template
}

// NewBuilder loads the built-in templates and applies any overrides found in
// overrideDir. An empty overrideDir uses the built-in templates only.
func NewBuilder(overrideDir string) (*Builder, error) {
	b := &Builder{templates: make(map[domain.ArtifactKind]*template.Template)}

	for _, kind := range domain.ArtifactKinds() {
		tmpl, err := loadTemplate(kind, overrideDir)
		if err != nil {
			return nil, err
		}
		b.templates[kind] = tmpl
	}

	return b, nil
}

func loadTemplate(kind domain.ArtifactKind, overrideDir string) (*template.Template, error) {
	name := kind.String() + ".tmpl"

	if overrideDir != "" {
		content, err := os.ReadFile(filepath.Join(overrideDir, name))
		switch {
		case err == nil:
			return parse(name, content)
		case !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %s: %v", ErrTemplateLoad, name, err)
		}
	}

	content, err := defaultTemplates.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateLoad, name, err)
	}
	return parse(name, content)
}

func parse(name string, content []byte) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateLoad, name, err)
	}
	return tmpl, nil
}

// Build renders the prompt for kind. The flashcard count is used as given;
// range checks belong to request construction.
func (b *Builder) Build(kind domain.ArtifactKind, sourceText string, params domain.Parameters) (string, error) {
	tmpl, ok := b.templates[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidArtifactKind, kind)
	}

	data := promptData{
		SourceText:    sourceText,
		Count:         params.Count,
		QuestionCount: domain.QuizQuestionCount,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrTemplateExecute, kind, err)
	}

	return buf.String(), nil
}
