package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists sessions in the sessions table for deployments
// that want suppression state to survive restarts.
type PostgresStore struct {
	pool rowQuerier
}

// NewPostgresStore creates a Postgres-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	if pool == nil {
		panic("session: pgx pool required")
	}
	return &PostgresStore{pool: pool}
}

// NewPostgresStoreWithQuerier allows injecting a querier in tests.
func NewPostgresStoreWithQuerier(q rowQuerier) *PostgresStore {
	if q == nil {
		panic("session: querier required")
	}
	return &PostgresStore{pool: q}
}

// Get loads the session, returning the zero Session for unknown contacts.
func (s *PostgresStore) Get(ctx context.Context, contact string) (Session, error) {
	query := `SELECT suppress_until, handoff_active, misunderstood_count FROM sessions WHERE contact = $1`
	var (
		suppressUntil time.Time
		sess          Session
	)
	err := s.pool.QueryRow(ctx, query, contact).Scan(&suppressUntil, &sess.HandoffActive, &sess.MisunderstoodCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("session: failed to load %s: %w", contact, err)
	}
	sess.SuppressUntil = suppressUntil
	return sess, nil
}

// Put upserts the session for the contact.
func (s *PostgresStore) Put(ctx context.Context, contact string, sess Session) error {
	query := `
		INSERT INTO sessions (contact, suppress_until, handoff_active, misunderstood_count, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (contact) DO UPDATE SET
			suppress_until = EXCLUDED.suppress_until,
			handoff_active = EXCLUDED.handoff_active,
			misunderstood_count = EXCLUDED.misunderstood_count,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := s.pool.Exec(ctx, query, contact, sess.SuppressUntil, sess.HandoffActive, sess.MisunderstoodCount, time.Now()); err != nil {
		return fmt.Errorf("session: failed to persist %s: %w", contact, err)
	}
	return nil
}
