// Package memory provides an in-process SessionStore backed by go-cache.
// Sessions expire after a fixed idle lifetime that is refreshed on every update.
package memory
