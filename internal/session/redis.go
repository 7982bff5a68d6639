package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultSessionTTL = 24 * time.Hour

// RedisStore persists sessions in Redis so multiple instances share
// suppression state. Records expire after the TTL; an expired record is
// indistinguishable from a fresh contact, which is the desired behavior
// since the suppression window is itself 24h.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a Redis-backed store with the given TTL
// (defaultSessionTTL when ttl <= 0).
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &RedisStore{
		client: client,
		ttl:    ttl,
		tracer: otel.Tracer("concierge.internal.session.redis"),
	}
}

// Get loads the session, returning the zero Session for unknown contacts.
func (s *RedisStore) Get(ctx context.Context, contact string) (Session, error) {
	ctx, span := s.tracer.Start(ctx, "session.redis.get")
	defer span.End()

	data, err := s.client.Get(ctx, sessionKey(contact)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Session{}, nil
		}
		span.RecordError(err)
		return Session{}, fmt.Errorf("session: failed to load %s: %w", contact, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return Session{}, fmt.Errorf("session: failed to decode %s: %w", contact, err)
	}
	return sess, nil
}

// Put stores the session with the configured TTL.
func (s *RedisStore) Put(ctx context.Context, contact string, sess Session) error {
	ctx, span := s.tracer.Start(ctx, "session.redis.put")
	defer span.End()

	data, err := json.Marshal(sess)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal %s: %w", contact, err)
	}
	if err := s.client.Set(ctx, sessionKey(contact), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist %s: %w", contact, err)
	}
	return nil
}

func sessionKey(contact string) string {
	return fmt.Sprintf("session:%s", contact)
}
