// Package store defines interfaces for session persistence.
// These interfaces keep the service layer independent of whether sessions
// live in process memory or in Redis.
package store
