package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

var ErrTokensNotFound = errors.New("no tokens stored for session")

// TokenStore persists the session's token pair wholesale, overwritten on
// every login and removed on logout.
type TokenStore interface {
	Save(ctx context.Context, sessionID string, tokens TokenPair) error
	Load(ctx context.Context, sessionID string) (*TokenPair, error)
	Clear(ctx context.Context, sessionID string) error
}

type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]TokenPair
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]TokenPair)}
}

func (s *MemoryTokenStore) Save(_ context.Context, sessionID string, tokens TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[sessionID] = tokens
	return nil
}

func (s *MemoryTokenStore) Load(_ context.Context, sessionID string) (*TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pair, ok := s.tokens[sessionID]
	if !ok {
		return nil, ErrTokensNotFound
	}
	return &pair, nil
}

func (s *MemoryTokenStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, sessionID)
	return nil
}

type RedisTokenStore struct {
	client *redis.Client
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func (s *RedisTokenStore) Save(ctx context.Context, sessionID string, tokens TokenPair) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("marshal tokens failed: %w", err)
	}
	if err := s.client.Set(ctx, tokenKey(sessionID), string(data), 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *RedisTokenStore) Load(ctx context.Context, sessionID string) (*TokenPair, error) {
	data, err := s.client.Get(ctx, tokenKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrTokensNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var pair TokenPair
	if err2 := json.Unmarshal(data, &pair); err2 != nil {
		return nil, fmt.Errorf("unmarshal tokens failed: %w", err2)
	}
	return &pair, nil
}

func (s *RedisTokenStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, tokenKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func tokenKey(sessionID string) string {
	return fmt.Sprintf("tokens:%s", sessionID)
}
