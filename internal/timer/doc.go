// Package timer implements the study countdown as a cooperative,
// cancellable timer.
//
// A running Timer counts down one second per tick on its own goroutine and
// calls its expiry callback when it reaches zero. Start, Cancel, Tick and
// Status may be called from any goroutine.
package timer
