package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// DefaultInboxCapacity bounds the pending notifications kept per session.
const DefaultInboxCapacity = 32

// Inbox buffers notifications per session until they are drained.
// When a session's buffer is full the oldest notification is dropped.
// Buffers of sessions that are never drained expire after the configured TTL.
type Inbox struct {
	capacity int
	pending  *cache.Cache
	mu       sync.Mutex
}

var _ EventHandler = (*Inbox)(nil)

// NewInbox creates an Inbox holding at most capacity notifications per
// session, forgetting idle sessions after ttl.
func NewInbox(capacity int, ttl time.Duration) *Inbox {
	if capacity <= 0 {
		capacity = DefaultInboxCapacity
	}
	return &Inbox{
		capacity: capacity,
		pending:  cache.New(ttl, ttl),
	}
}

// HandleEvent implements EventHandler by queueing n for its session.
func (i *Inbox) HandleEvent(_ context.Context, n *Notification) error {
	if n == nil {
		return errors.New("notification cannot be nil")
	}

	key := n.SessionID.String()

	i.mu.Lock()
	defer i.mu.Unlock()

	var queue []Notification
	if v, ok := i.pending.Get(key); ok {
		queue = v.([]Notification)
	}
	queue = append(queue, *n)
	if len(queue) > i.capacity {
		queue = queue[len(queue)-i.capacity:]
	}
	i.pending.Set(key, queue, cache.DefaultExpiration)
	return nil
}

// Drain returns and removes every pending notification for the session,
// oldest first. It returns an empty slice when there are none.
func (i *Inbox) Drain(sessionID uuid.UUID) []Notification {
	key := sessionID.String()

	i.mu.Lock()
	defer i.mu.Unlock()

	v, ok := i.pending.Get(key)
	if !ok {
		return []Notification{}
	}
	i.pending.Delete(key)
	return v.([]Notification)
}

// Pending returns the number of queued notifications for the session.
func (i *Inbox) Pending(sessionID uuid.UUID) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	if v, ok := i.pending.Get(sessionID.String()); ok {
		return len(v.([]Notification))
	}
	return 0
}

// Forget discards the session's pending notifications.
func (i *Inbox) Forget(sessionID uuid.UUID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pending.Delete(sessionID.String())
}
