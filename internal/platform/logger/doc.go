// Package logger provides structured logging functionality for the application
// using Go's standard library log/slog package. Logs are emitted as JSON on
// stdout at the level configured in the server settings.
package logger
