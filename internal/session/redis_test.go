package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestRedisStoreUnknownContact(t *testing.T) {
	store, _ := newTestRedisStore(t)
	got, err := store.Get(context.Background(), "5561999990000")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != (Session{}) {
		t.Fatalf("expected zero session, got %+v", got)
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	want := Session{
		SuppressUntil:      time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC),
		HandoffActive:      true,
		MisunderstoodCount: 1,
	}
	if err := store.Put(ctx, "5561999990000", want); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(ctx, "5561999990000")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.SuppressUntil.Equal(want.SuppressUntil) || !got.HandoffActive || got.MisunderstoodCount != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if ttl := mr.TTL("session:5561999990000"); ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected bounded TTL, got %s", ttl)
	}
}

func TestRedisStoreExpiredRecordReadsAsFresh(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "c", Session{HandoffActive: true}); err != nil {
		t.Fatalf("put: %v", err)
	}
	mr.FastForward(2 * time.Hour)

	got, err := store.Get(ctx, "c")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.HandoffActive {
		t.Fatal("expected expired session to read as fresh")
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)
	mr.Close()

	if _, err := store.Get(context.Background(), "c"); err == nil {
		t.Fatal("expected error when redis is down")
	}
}
