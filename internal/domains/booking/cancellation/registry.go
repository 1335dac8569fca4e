// Package cancellation holds the per-booking cancellation tokens observed by component
// attempts. A token is a channel closed once; the store's booking status is the fallback
// for tokens this process never saw, e.g. after a restart.
package cancellation

import (
	"context"
	"sync"
	"tripbook/internal/domains/booking/model"

	"github.com/rs/zerolog/log"
)

// StatusReader is the slice of the booking store the registry needs.
type StatusReader interface {
	GetBooking(ctx context.Context, bookingID string) (model.Booking, error)
}

type Registry struct {
	store StatusReader

	mu     sync.Mutex
	tokens map[string]*token
}

// token is dropped once nobody watches it and it carries no signal, or once its booking
// is released.
type token struct {
	ch       chan struct{}
	watchers int
	released bool
}

func (t *token) signalled() bool {
	select {
	case <-t.ch:
		return true
	default:
		return false
	}
}

func New(store StatusReader) *Registry {
	return &Registry{
		store:  store,
		tokens: map[string]*token{},
	}
}

func (r *Registry) token(bookingID string) *token {
	t, ok := r.tokens[bookingID]
	if !ok {
		t = &token{ch: make(chan struct{})}
		r.tokens[bookingID] = t
	}

	return t
}

// Signal marks bookingID cancelled. Repeated calls are no-ops.
func (r *Registry) Signal(bookingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.token(bookingID)
	if !t.signalled() {
		close(t.ch)
	}
}

// Watch returns a channel closed when bookingID is cancelled. The caller must call stop
// when it no longer waits.
func (r *Registry) Watch(bookingID string) (done <-chan struct{}, stop func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.token(bookingID)
	t.watchers++

	var once sync.Once

	return t.ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()

			t.watchers--
			if t.watchers == 0 && (t.released || !t.signalled()) && r.tokens[bookingID] == t {
				delete(r.tokens, bookingID)
			}
		})
	}
}

// Cancelled reports whether bookingID was cancelled in this process or in the store.
func (r *Registry) Cancelled(ctx context.Context, bookingID string) bool {
	if r.signalled(bookingID) {
		return true
	}

	if r.store == nil {
		return false
	}

	booking, err := r.store.GetBooking(ctx, bookingID)
	if err != nil {
		log.Warn().Err(err).Str("booking_id", bookingID).Msg("could not read booking status for cancellation check")

		return false
	}

	switch booking.Status {
	case model.StatusCancelling:
		r.Signal(bookingID)

		return true
	case model.StatusCancelled:
		// settled, nothing left to release it
		return true
	default:
		return false
	}
}

func (r *Registry) signalled(bookingID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[bookingID]

	return ok && t.signalled()
}

// Release forgets the token of a settled booking, or marks it for removal once the last
// watcher stops.
func (r *Registry) Release(bookingID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tokens[bookingID]
	if !ok {
		return
	}

	if t.watchers > 0 {
		t.released = true

		return
	}

	delete(r.tokens, bookingID)
}

func (r *Registry) tracked() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.tokens)
}
