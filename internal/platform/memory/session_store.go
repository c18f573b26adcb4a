package memory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/phrazzld/study-buddy/internal/domain"
	"github.com/phrazzld/study-buddy/internal/store"
)

// SessionStore implements store.SessionStore in process memory.
type SessionStore struct {
	cache  *cache.Cache
	logger *slog.Logger
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a store whose sessions expire after ttl and whose
// expired entries are purged every cleanupInterval.
func NewSessionStore(ttl, cleanupInterval time.Duration, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		cache:  cache.New(ttl, cleanupInterval),
		logger: logger.With("component", "memory_session_store"),
	}
}

// Create implements store.SessionStore.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if err := s.cache.Add(session.ID.String(), *session, cache.DefaultExpiration); err != nil {
		return store.ErrSessionExists
	}

	s.logger.DebugContext(ctx, "session created", "session_id", session.ID)
	return nil
}

// GetByID implements store.SessionStore.
func (s *SessionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Session, error) {
	v, found := s.cache.Get(id.String())
	if !found {
		return nil, store.ErrSessionNotFound
	}
	session := v.(domain.Session)
	return &session, nil
}

// Update implements store.SessionStore.
func (s *SessionStore) Update(_ context.Context, session *domain.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	if err := s.cache.Replace(session.ID.String(), *session, cache.DefaultExpiration); err != nil {
		return store.ErrSessionNotFound
	}
	return nil
}

// Delete implements store.SessionStore.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	key := id.String()
	if _, found := s.cache.Get(key); !found {
		return store.ErrSessionNotFound
	}
	s.cache.Delete(key)

	s.logger.DebugContext(ctx, "session deleted", "session_id", id)
	return nil
}
