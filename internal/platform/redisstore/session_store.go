package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/study-buddy/internal/config"
	"github.com/phrazzld/study-buddy/internal/domain"
	"github.com/phrazzld/study-buddy/internal/store"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces session keys.
const KeyPrefix = "study:session:"

// SessionStore implements store.SessionStore on Redis.
type SessionStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewClient builds a Redis client from configuration and verifies the connection.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewSessionStore creates a store keeping sessions for ttl after their last write.
func NewSessionStore(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *SessionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "redis_session_store"),
	}
}

func sessionKey(id uuid.UUID) string {
	return KeyPrefix + id.String()
}

// Create implements store.SessionStore.
func (s *SessionStore) Create(ctx context.Context, session *domain.Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, sessionKey(session.ID), data, s.ttl).Result()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create session", "error", err, "session_id", session.ID)
		return store.NewStoreError("session", "create", "redis write failed", err)
	}
	if !ok {
		return store.ErrSessionExists
	}

	s.logger.DebugContext(ctx, "session created", "session_id", session.ID)
	return nil
}

// GetByID implements store.SessionStore.
func (s *SessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read session", "error", err, "session_id", id)
		return nil, store.NewStoreError("session", "get", "redis read failed", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, store.NewStoreError("session", "get", "stored session is corrupt", err)
	}
	return &session, nil
}

// Update implements store.SessionStore.
func (s *SessionStore) Update(ctx context.Context, session *domain.Session) error {
	data, err := encode(session)
	if err != nil {
		return err
	}

	ok, err := s.client.SetXX(ctx, sessionKey(session.ID), data, s.ttl).Result()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update session", "error", err, "session_id", session.ID)
		return store.NewStoreError("session", "update", "redis write failed", err)
	}
	if !ok {
		return store.ErrSessionNotFound
	}
	return nil
}

// Delete implements store.SessionStore.
func (s *SessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete session", "error", err, "session_id", id)
		return store.NewStoreError("session", "delete", "redis delete failed", err)
	}
	if n == 0 {
		return store.ErrSessionNotFound
	}

	s.logger.DebugContext(ctx, "session deleted", "session_id", id)
	return nil
}

func encode(session *domain.Session) ([]byte, error) {
	if err := session.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}
	data, err := json.Marshal(session)
	if err != nil {
		return nil, store.NewStoreError("session", "encode", "failed to marshal session", err)
	}
	return data, nil
}
