package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/phrazzld/study-buddy/internal/domain"
	"github.com/phrazzld/study-buddy/internal/generation"
	"github.com/phrazzld/study-buddy/internal/redact"
)

// PromptBuilder renders the prompt for one artifact kind.
type PromptBuilder interface {
	Build(kind domain.ArtifactKind, sourceText string, params domain.Parameters) (string, error)
}

// Pipeline sequences prompt building and generation.
type Pipeline struct {
	builder   PromptBuilder
	generator generation.Generator
	logger    *slog.Logger
	memo      *cache.Cache
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithMemoization caches successful results for ttl, keyed by kind, flashcard
// count and a digest of the source text. A non-positive ttl leaves caching off.
func WithMemoization(ttl time.Duration) Option {
	return func(p *Pipeline) {
		if ttl > 0 {
			p.memo = cache.New(ttl, 2*ttl)
		}
	}
}

// NewPipeline creates a Pipeline. Memoization is off unless WithMemoization is given.
func NewPipeline(
	builder PromptBuilder,
	generator generation.Generator,
	logger *slog.Logger,
	opts ...Option,
) (*Pipeline, error) {
	if builder == nil {
		return nil, errors.New("prompt builder cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline{
		builder:   builder,
		generator: generator,
		logger:    logger.With("component", "artifact_pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Memoized reports whether successful results are cached.
func (p *Pipeline) Memoized() bool {
	return p.memo != nil
}

// Produce runs one artifact request to completion.
func (p *Pipeline) Produce(ctx context.Context, req domain.ArtifactRequest) (result domain.ArtifactResult) {
	log := p.logger.With("artifact_kind", req.Kind, "text_length", len(req.SourceText))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.ErrorContext(ctx, "artifact generation panicked", "panic", redact.String(fmt.Sprint(r)))
			result = domain.FailedResult(req.Kind, redact.String(fmt.Sprintf("internal error: %v", r)))
		}
	}()

	if err := req.Validate(); err != nil {
		log.WarnContext(ctx, "rejected invalid artifact request", "error", redact.Error(err))
		return domain.FailedResult(req.Kind, redact.Error(err))
	}

	key := memoKey(req)
	if p.memo != nil {
		if cached, ok := p.memo.Get(key); ok {
			log.DebugContext(ctx, "artifact served from cache")
			return cached.(domain.ArtifactResult)
		}
	}

	prompt, err := p.builder.Build(req.Kind, req.SourceText, req.Parameters)
	if err != nil {
		log.ErrorContext(ctx, "failed to build prompt", "error", redact.Error(err))
		return domain.FailedResult(req.Kind, redact.Error(err))
	}

	text, err := p.generator.Generate(ctx, prompt)
	if err != nil {
		log.ErrorContext(ctx, "artifact generation failed",
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())
		return domain.FailedResult(req.Kind, failureMessage(err))
	}

	result = domain.SucceededResult(req.Kind, text)
	if p.memo != nil {
		p.memo.Set(key, result, cache.DefaultExpiration)
	}

	log.InfoContext(ctx, "artifact generated",
		"result_length", len(text),
		"duration_ms", time.Since(start).Milliseconds())
	return result
}

// failureMessage returns the bare message of a GenerationError, or the
// error text for anything else.
func failureMessage(err error) string {
	var genErr *generation.GenerationError
	if errors.As(err, &genErr) {
		return redact.String(genErr.Error())
	}
	return redact.Error(err)
}

func memoKey(req domain.ArtifactRequest) string {
	sum := sha256.Sum256([]byte(req.SourceText))
	return fmt.Sprintf("%s|%d|%s", req.Kind, req.Parameters.Count, hex.EncodeToString(sum[:]))
}
