// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to application settings needed by different components while keeping
// configuration details separate from business logic.
//
// Environment variables use the STUDY_ prefix with nested keys joined by
// underscores, e.g. STUDY_LLM_GEMINI_API_KEY or STUDY_SESSION_BACKEND.
package config
