// Package gemini provides an implementation of the generation.Generator interface
// that uses Google's Gemini API (google.golang.org/genai) to turn study prompts
// into generated text.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the application's artifact pipeline to Google's external Gemini AI
// service without exposing the details of the external service to the core.
//
// The generator is bound to a single model at construction time and is stateless:
// each Generate call is one GenerateContent request carrying the whole prompt.
// There is no retry, no streaming and no timeout beyond the caller's context.
// Every failure is translated into a *generation.GenerationError.
package gemini
