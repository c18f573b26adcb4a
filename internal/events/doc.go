// Package events provides the notification types and dispatch used to report
// user-facing outcomes such as loaded notes, failures, completed study
// progress and expired timers.
//
// Services emit notifications without knowing who consumes them. The
// primary components are:
//   - Notification: a message for the presentation layer
//   - EventEmitter and EventHandler: the publish and consume contracts
//   - InMemoryEventEmitter: fans notifications out to registered handlers
//   - Inbox: a handler that buffers notifications per session until drained
package events
