package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Deduper records webhook message ids that were already handled so a
// re-delivered event is dropped instead of double-counting misunderstood
// turns or re-sending replies.
type Deduper interface {
	// MarkProcessed records the id, returning true when this is the first
	// time it was seen.
	MarkProcessed(ctx context.Context, messageID string) (bool, error)
}

// RedisDeduper stores processed ids in Redis with a TTL, sharing dedup
// state across instances.
type RedisDeduper struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisDeduper creates a Redis-backed deduper (24h TTL when ttl <= 0).
func NewRedisDeduper(client *redis.Client, ttl time.Duration) *RedisDeduper {
	if client == nil {
		panic("events: redis client required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisDeduper{client: client, ttl: ttl}
}

// MarkProcessed uses SETNX so the first delivery wins atomically.
func (d *RedisDeduper) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	first, err := d.client.SetNX(ctx, processedKey(messageID), 1, d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("events: mark processed: %w", err)
	}
	return first, nil
}

func processedKey(messageID string) string {
	return fmt.Sprintf("processed:%s", messageID)
}

// MemoryDeduper is a process-local deduper for single-instance deployments.
type MemoryDeduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	seen map[string]time.Time
}

// NewMemoryDeduper creates an in-memory deduper (24h TTL when ttl <= 0).
func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &MemoryDeduper{ttl: ttl, seen: make(map[string]time.Time)}
}

// MarkProcessed records the id, expiring old entries opportunistically.
func (d *MemoryDeduper) MarkProcessed(_ context.Context, messageID string) (bool, error) {
	now := time.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, expires := range d.seen {
		if now.After(expires) {
			delete(d.seen, id)
		}
	}
	if _, ok := d.seen[messageID]; ok {
		return false, nil
	}
	d.seen[messageID] = now.Add(d.ttl)
	return true, nil
}
