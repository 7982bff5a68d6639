package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in a process-local map. Suitable for
// single-instance deployments; state does not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

// Get returns the stored session, or the zero Session when absent.
func (m *MemoryStore) Get(_ context.Context, contact string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[contact], nil
}

// Put stores the session for the contact.
func (m *MemoryStore) Put(_ context.Context, contact string, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[contact] = s
	return nil
}
