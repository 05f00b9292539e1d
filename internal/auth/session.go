package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// ErrSessionNotFound indicates a missing or revoked session record.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps session ids to server-held claims. Stores must treat
// Delete as idempotent: deleting an absent session is not an error.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, claims domain.SessionClaims, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (*domain.SessionClaims, error)
	Delete(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "session:"

// RedisSessionStore persists sessions in Redis with a TTL.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore constructs the store.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (s *RedisSessionStore) Save(ctx context.Context, sessionID string, claims domain.SessionClaims, ttl time.Duration) error {
	payload, err := json.Marshal(claims)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKeyPrefix+sessionID, payload, ttl).Err()
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*domain.SessionClaims, error) {
	payload, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var claims domain.SessionClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}

type memorySession struct {
	claims    domain.SessionClaims
	expiresAt time.Time
}

// MemorySessionStore is a process-local SessionStore used in tests and when
// Redis is not configured.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]memorySession
}

// NewMemorySessionStore constructs the store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]memorySession)}
}

func (s *MemorySessionStore) Save(_ context.Context, sessionID string, claims domain.SessionClaims, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = memorySession{claims: claims, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (*domain.SessionClaims, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, ErrSessionNotFound
	}
	claims := entry.claims
	return &claims, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
