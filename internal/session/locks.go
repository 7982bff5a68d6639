package session

import "sync"

// KeyedMutex serializes the get/decide/put cycle per contact so two
// concurrent deliveries from the same contact cannot race on the session.
// Different contacts proceed in parallel.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*contactLock
}

type contactLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty keyed mutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*contactLock)}
}

// Lock acquires the lock for the given contact and returns the matching
// unlock function. Entries are reference counted and removed once unused,
// so the map does not grow with the contact population.
func (k *KeyedMutex) Lock(contact string) (unlock func()) {
	k.mu.Lock()
	l, ok := k.locks[contact]
	if !ok {
		l = &contactLock{}
		k.locks[contact] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, contact)
		}
		k.mu.Unlock()
	}
}
