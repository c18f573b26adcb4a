// Package domain defines the core study entities (sessions, notes payloads,
// artifact requests and results) and the validation errors shared across the
// application. It has no dependencies on transport, storage or the remote
// generation service.
package domain
