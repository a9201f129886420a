package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OAuthStateStore guarda los valores state del flujo OAuth para un solo uso.
type OAuthStateStore interface {
	Save(ctx context.Context, state string, ttl time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

type memoryOAuthStateStore struct {
	mu    sync.Mutex
	items map[string]time.Time
	now   func() time.Time
}

func NewMemoryOAuthStateStore() OAuthStateStore {
	return &memoryOAuthStateStore{
		items: make(map[string]time.Time),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryOAuthStateStore) Save(_ context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	state = strings.TrimSpace(state)
	if state == "" {
		return errors.New("empty oauth state")
	}
	now := s.now()
	for k, exp := range s.items {
		if !now.Before(exp) {
			delete(s.items, k)
		}
	}
	s.items[state] = now.Add(ttl)
	return nil
}

func (s *memoryOAuthStateStore) Consume(_ context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.items[state]
	if !ok {
		return false, nil
	}
	delete(s.items, state)
	return s.now().Before(exp), nil
}

type redisStateClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
}

type redisOAuthStateStore struct {
	client redisStateClient
	prefix string
}

func NewRedisOAuthStateStore(client *redis.Client) OAuthStateStore {
	if client == nil {
		return nil
	}
	return &redisOAuthStateStore{
		client: client,
		prefix: "oauth:state:",
	}
}

func (s *redisOAuthStateStore) Save(ctx context.Context, state string, ttl time.Duration) error {
	state = strings.TrimSpace(state)
	if state == "" {
		return errors.New("empty oauth state")
	}
	ok, err := s.client.SetNX(ctx, s.prefix+state, "1", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("oauth state already exists")
	}
	return nil
}

func (s *redisOAuthStateStore) Consume(ctx context.Context, state string) (bool, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return false, nil
	}
	_, err := s.client.GetDel(ctx, s.prefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
