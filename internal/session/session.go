package session

import (
	"context"
	"time"
)

// Session is the per-contact state governing suppression and the
// misunderstood-input counter. The zero value is a fresh, non-suppressed
// session; stores return it for unknown contacts.
type Session struct {
	SuppressUntil      time.Time `json:"suppress_until"`
	HandoffActive      bool      `json:"handoff_active"`
	MisunderstoodCount int       `json:"misunderstood_count"`
}

// Suppressed reports whether outbound replies are currently blocked for
// this session. Handoff outranks the time window: it is never cleared by
// the clock, only by an explicit reset.
func (s Session) Suppressed(now time.Time) bool {
	return s.HandoffActive || now.Before(s.SuppressUntil)
}

// Reset returns the fresh session. This is the only return path from
// suppression.
func Reset() Session {
	return Session{}
}

// Store is the pluggable per-contact session storage. Get returns the zero
// Session for contacts that have never been seen. Contacts are compared by
// exact string equality.
type Store interface {
	Get(ctx context.Context, contact string) (Session, error)
	Put(ctx context.Context, contact string, s Session) error
}
