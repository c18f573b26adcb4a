package gemini

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/phrazzld/study-buddy/internal/config"
	"github.com/phrazzld/study-buddy/internal/generation"
	"github.com/phrazzld/study-buddy/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

// fakeModels records GenerateContent calls and returns canned responses.
type fakeModels struct {
	mu       sync.Mutex
	calls    int
	models   []string
	prompts  []string
	response *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.models = append(f.models, model)
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompts = append(f.prompts, p.Text)
		}
	}
	return f.response, f.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      content,
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func newTestGenerator(t *testing.T, models *fakeModels) *GeminiGenerator {
	t.Helper()
	_, l := logger.NewTestLogger(t)
	g, err := newGeminiGenerator(l, models, "gemini-2.5-flash")
	require.NoError(t, err)
	return g
}

func TestGeminiGenerator_Generate(t *testing.T) {
	t.Run("returns concatenated text", func(t *testing.T) {
		models := &fakeModels{response: textResponse("## Summary\n", "- point one")}
		g := newTestGenerator(t, models)

		text, err := g.Generate(context.Background(), "Summarize: photosynthesis")

		require.NoError(t, err)
		assert.Equal(t, "## Summary\n- point one", text)
		assert.Equal(t, 1, models.calls)
		assert.Equal(t, []string{"gemini-2.5-flash"}, models.models)
		assert.Equal(t, []string{"Summarize: photosynthesis"}, models.prompts)
	})

	t.Run("api error becomes generation error without retry", func(t *testing.T) {
		models := &fakeModels{err: errors.New("Error 429, Message: Resource has been exhausted")}
		g := newTestGenerator(t, models)

		_, err := g.Generate(context.Background(), "prompt")

		require.Error(t, err)
		var genErr *generation.GenerationError
		require.True(t, errors.As(err, &genErr))
		assert.Contains(t, genErr.Message, "Resource has been exhausted")
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
		assert.Equal(t, 1, models.calls, "generator must not retry")
	})

	t.Run("safety block", func(t *testing.T) {
		resp := textResponse("partial")
		resp.Candidates[0].FinishReason = genai.FinishReasonSafety
		g := newTestGenerator(t, &fakeModels{response: resp})

		_, err := g.Generate(context.Background(), "prompt")

		assert.ErrorIs(t, err, generation.ErrContentBlocked)
		assert.ErrorIs(t, err, generation.ErrGenerationFailed)
	})

	t.Run("empty responses", func(t *testing.T) {
		cases := map[string]*genai.GenerateContentResponse{
			"nil response":  nil,
			"no candidates": {},
			"nil content":   {Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonStop}}},
			"blank text":    textResponse("  ", "\n"),
		}

		for name, resp := range cases {
			t.Run(name, func(t *testing.T) {
				g := newTestGenerator(t, &fakeModels{response: resp})

				text, err := g.Generate(context.Background(), "prompt")

				assert.Empty(t, text)
				assert.ErrorIs(t, err, generation.ErrEmptyResponse)
				assert.ErrorIs(t, err, generation.ErrGenerationFailed)
			})
		}
	})

	t.Run("empty prompt is still sent", func(t *testing.T) {
		models := &fakeModels{response: textResponse("Please provide some notes.")}
		g := newTestGenerator(t, models)

		text, err := g.Generate(context.Background(), "")

		require.NoError(t, err)
		assert.Equal(t, "Please provide some notes.", text)
		assert.Equal(t, 1, models.calls)
	})
}

func TestNewGeminiGenerator_Validation(t *testing.T) {
	_, l := logger.NewTestLogger(t)

	tests := []struct {
		name string
		cfg  config.LLMConfig
	}{
		{name: "missing api key", cfg: config.LLMConfig{ModelName: "gemini-2.5-flash"}},
		{name: "missing model", cfg: config.LLMConfig{GeminiAPIKey: "key"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := NewGeminiGenerator(context.Background(), l, tc.cfg)

			assert.Nil(t, g)
			assert.ErrorIs(t, err, generation.ErrInvalidConfig)
		})
	}

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewGeminiGenerator(context.Background(), nil, config.LLMConfig{})
		assert.Error(t, err)
	})
}

func TestNewGeminiGenerator_BindsModel(t *testing.T) {
	_, l := logger.NewTestLogger(t)

	g, err := NewGeminiGenerator(context.Background(), l, config.LLMConfig{
		GeminiAPIKey: "test-api-key",
		ModelName:    "gemini-2.5-flash",
	})

	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", g.Model())
}

func TestNewGeminiGeneratorInternal_Validation(t *testing.T) {
	_, l := logger.NewTestLogger(t)

	_, err := newGeminiGenerator(l, nil, "model")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = newGeminiGenerator(l, &fakeModels{}, " ")
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}
