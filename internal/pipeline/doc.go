// Package pipeline turns an ArtifactRequest into an ArtifactResult by building
// a prompt and sending it to a generation backend.
//
// Produce never returns an error and never panics: every failure, whether from
// request validation, prompt building or generation, becomes a result with
// Succeeded set to false. A Pipeline holds no per-call state and can be shared
// between goroutines.
package pipeline
