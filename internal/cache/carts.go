package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartTTL matches the lifetime of the session cookie holding the cart id
const CartTTL = 30 * 24 * time.Hour

// CartDocuments keeps serialized cart documents server side, keyed by the
// browser's cart id
type CartDocuments interface {
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, doc string) error
}

// RedisCartDocuments stores carts in Redis with a sliding TTL
type RedisCartDocuments struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartDocuments(client *redis.Client, ttl time.Duration) *RedisCartDocuments {
	if ttl <= 0 {
		ttl = CartTTL
	}
	return &RedisCartDocuments{client: client, ttl: ttl}
}

func (r *RedisCartDocuments) Load(ctx context.Context, key string) (string, bool, error) {
	doc, err := r.client.Get(ctx, cartKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get cart failed: %w", err)
	}
	return doc, true, nil
}

func (r *RedisCartDocuments) Save(ctx context.Context, key, doc string) error {
	if err := r.client.Set(ctx, cartKey(key), doc, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart failed: %w", err)
	}
	return nil
}

func cartKey(key string) string {
	return fmt.Sprintf("cart:%s", key)
}

type memoryCart struct {
	doc     string
	expires time.Time
}

// MemoryCartDocuments is the single-process fallback used without Redis.
// Carts do not survive a restart.
type MemoryCartDocuments struct {
	mu        sync.Mutex
	docs      map[string]memoryCart
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryCartDocuments(ttl time.Duration) *MemoryCartDocuments {
	if ttl <= 0 {
		ttl = CartTTL
	}
	return &MemoryCartDocuments{
		docs: make(map[string]memoryCart),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (m *MemoryCartDocuments) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.docs[key]
	if !ok {
		return "", false, nil
	}
	if m.now().After(entry.expires) {
		delete(m.docs, key)
		return "", false, nil
	}
	return entry.doc, true, nil
}

func (m *MemoryCartDocuments) Save(_ context.Context, key, doc string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.docs[key] = memoryCart{doc: doc, expires: now.Add(m.ttl)}

	if now.Sub(m.lastSweep) > time.Minute {
		for k, entry := range m.docs {
			if now.After(entry.expires) {
				delete(m.docs, k)
			}
		}
		m.lastSweep = now
	}
	return nil
}

// Len returns the number of stored carts, expired ones included until swept
func (m *MemoryCartDocuments) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs)
}
