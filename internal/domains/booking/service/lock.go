package service

import "sync"

// keyedMutex serializes work per booking id. Entries are dropped once nobody holds them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[string]*refMutex{}}
}

// Lock blocks until key is free and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()

	return len(k.locks)
}

// claims tracks components whose compensating provider cancel is running, per booking.
type claims struct {
	mu      sync.Mutex
	running map[string]map[string]struct{}
}

func newClaims() *claims {
	return &claims{running: map[string]map[string]struct{}{}}
}

// claim marks componentID as being compensated. It reports false when it already is.
func (c *claims) claim(bookingID, componentID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids, ok := c.running[bookingID]
	if !ok {
		ids = map[string]struct{}{}
		c.running[bookingID] = ids
	}

	if _, taken := ids[componentID]; taken {
		return false
	}

	ids[componentID] = struct{}{}

	return true
}

func (c *claims) release(bookingID, componentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.running[bookingID], componentID)

	if len(c.running[bookingID]) == 0 {
		delete(c.running, bookingID)
	}
}

func (c *claims) busy(bookingID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.running[bookingID]) > 0
}
