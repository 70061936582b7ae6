// Package flash keeps one-shot notifications between a redirect and the next
// page render, keyed by a per-browser id.
package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"backoffice/internal/data/entity"
	"backoffice/pkg/cache"

	"go.uber.org/zap"
)

const keyPrefix = "flash:"

// DefaultTTL bounds how long an unread message waits for the next request.
const DefaultTTL = time.Minute

type Store interface {
	Add(ctx context.Context, id string, msg entity.FlashMessage) error
	Pop(ctx context.Context, id string) ([]entity.FlashMessage, error)
}

// RedisStore keeps messages in a Redis list per browser.
type RedisStore struct {
	cache *cache.Client
	ttl   time.Duration
	log   *zap.Logger
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(c *cache.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl, log: log.With(zap.String("store", "flash"))}
}

func (s *RedisStore) Add(ctx context.Context, id string, msg entity.FlashMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal flash message: %w", err)
	}
	return s.cache.Push(ctx, keyPrefix+id, s.ttl, payload)
}

func (s *RedisStore) Pop(ctx context.Context, id string) ([]entity.FlashMessage, error) {
	items, err := s.cache.Drain(ctx, keyPrefix+id)
	if err != nil {
		return nil, err
	}

	messages := make([]entity.FlashMessage, 0, len(items))
	for _, item := range items {
		var msg entity.FlashMessage
		if err := json.Unmarshal(item, &msg); err != nil {
			s.log.Warn("Dropping malformed flash message", zap.Error(err), zap.String("flash_id", id))
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

type memoryEntry struct {
	messages []entity.FlashMessage
	expires  time.Time
}

// MemoryStore is the single-process fallback used when Redis is not configured.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]*memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Add(_ context.Context, id string, msg entity.FlashMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)

	entry, ok := s.items[id]
	if !ok {
		entry = &memoryEntry{}
		s.items[id] = entry
	}
	entry.messages = append(entry.messages, msg)
	entry.expires = now.Add(s.ttl)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, id string) ([]entity.FlashMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[id]
	if !ok {
		return nil, nil
	}
	delete(s.items, id)
	if s.now().After(entry.expires) {
		return nil, nil
	}
	return entry.messages, nil
}

// sweep drops expired entries; caller holds mu.
func (s *MemoryStore) sweep(now time.Time) {
	for id, entry := range s.items {
		if now.After(entry.expires) {
			delete(s.items, id)
		}
	}
}
