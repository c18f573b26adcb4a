// Package service contains the application use cases of a study session.
// It orchestrates the session store, text extraction, the artifact pipeline,
// per-session timers and notifications to fulfill each user action.
//
// The service layer depends on domain entities and on interfaces (from store,
// events and its own consumer-side interfaces), never on a specific storage
// or generation backend.
//
// Error handling:
//   - Expected conditions are sentinel errors (ErrSessionNotFound, ErrNotesEmpty)
//     or domain validation errors, checkable with errors.Is
//   - Unexpected failures are wrapped in *StudyServiceError
//   - The API layer maps these errors to HTTP status codes
package service
