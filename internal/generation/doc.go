// Package generation defines the boundary between the study pipeline and the
// external AI/LLM service used for content generation. The Generator interface
// accepts a fully built instruction string and returns generated text; the
// concrete Gemini implementation lives in internal/platform/gemini.
//
// Every backend failure (network, authentication, quota, safety filtering,
// empty or malformed responses) is reported as a *GenerationError so callers
// handle a single error type.
package generation
