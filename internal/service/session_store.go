package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"pdf-study-agent/internal/cache"
	"pdf-study-agent/internal/domain"
	"pdf-study-agent/internal/logger"

	"go.uber.org/zap"
)

// SessionStore persists study sessions between requests.
type SessionStore interface {
	// Load returns SESSION_NOT_FOUND when the session does not exist or expired.
	Load(ctx context.Context, sessionID string) (domain.SessionState, error)
	Save(ctx context.Context, state domain.SessionState) error
	Delete(ctx context.Context, sessionID string) error
}

type cacheSessionStore struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSessionStore stores sessions as JSON documents in the given cache.
// Every save refreshes the expiry.
func NewSessionStore(c domain.Cache, ttl time.Duration) SessionStore {
	return &cacheSessionStore{cache: c, ttl: ttl}
}

func (s *cacheSessionStore) Load(ctx context.Context, sessionID string) (domain.SessionState, error) {
	key := cache.SessionStateKey(sessionID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Session cache miss", zap.String("key", key))
			return domain.SessionState{}, domain.NewSessionNotFoundError(sessionID)
		}
		logger.Get().Error("Failed to load session", zap.Error(err), zap.String("key", key))
		return domain.SessionState{}, domain.NewInternalError(fmt.Sprintf("failed to load session %s", sessionID), err)
	}

	var state domain.SessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		logger.Get().Error("Failed to unmarshal session", zap.Error(err), zap.String("key", key))
		return domain.SessionState{}, domain.NewInternalError(fmt.Sprintf("failed to decode session %s", sessionID), err)
	}
	return state, nil
}

func (s *cacheSessionStore) Save(ctx context.Context, state domain.SessionState) error {
	if state.ID == "" {
		return domain.NewInvalidInputError("cannot save a session without an id")
	}
	key := cache.SessionStateKey(state.ID)
	data, err := json.Marshal(state)
	if err != nil {
		return domain.NewInternalError("failed to encode session", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		logger.Get().Error("Failed to save session", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to save session %s", state.ID), err)
	}
	logger.Get().Debug("Saved session",
		zap.String("key", key),
		zap.String("status", string(state.Status)),
		zap.Int64("version", state.Version),
		zap.Duration("ttl", s.ttl))
	return nil
}

func (s *cacheSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.cache.Delete(ctx, cache.SessionStateKey(sessionID)); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to delete session %s", sessionID), err)
	}
	return nil
}

// memorySessionStore keeps sessions in process memory. Used by the terminal client.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.SessionState
}

// NewMemorySessionStore returns a store that lives as long as the process.
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{sessions: make(map[string]domain.SessionState)}
}

func (m *memorySessionStore) Load(_ context.Context, sessionID string) (domain.SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.sessions[sessionID]
	if !ok {
		return domain.SessionState{}, domain.NewSessionNotFoundError(sessionID)
	}
	return state, nil
}

func (m *memorySessionStore) Save(_ context.Context, state domain.SessionState) error {
	if state.ID == "" {
		return domain.NewInvalidInputError("cannot save a session without an id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[state.ID] = state
	return nil
}

func (m *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}
