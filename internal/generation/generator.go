package generation

import "context"

// Generator defines the interface for generating text from an instruction.
// This interface serves as a boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
//
// Implementations are stateless: every call must carry its full context in
// the prompt, and no conversation memory is kept between calls.
type Generator interface {
	// Generate sends prompt to the backing model and returns the generated text.
	// The call blocks until the remote service responds or fails; it does not retry.
	Generate(ctx context.Context, prompt string) (string, error)
}
