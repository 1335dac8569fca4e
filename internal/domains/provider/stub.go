package provider

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"
	"tripbook/config"
	"tripbook/internal/domains/booking/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Outcome scripts one Book call of a Stub.
type Outcome struct {
	Err        error
	PriceDelta int64
	Delay      time.Duration
	// Release, when set, holds the call until it is closed or the context ends.
	Release <-chan struct{}
}

// Stub is an in-process Gateway with scripted outcomes. It backs the development server
// and the engine tests.
type Stub struct {
	id    string
	types []model.ComponentType
	delay time.Duration

	mu          sync.Mutex
	script      []Outcome
	fallback    Outcome
	bookCalls   int
	cancelCalls []string
	refs        map[string]BookResult
	cancelErr   error
	cancelHold  <-chan struct{}
}

func NewStub(id string, delay time.Duration, types ...model.ComponentType) *Stub {
	return &Stub{
		id:    id,
		types: types,
		delay: delay,
		refs:  map[string]BookResult{},
	}
}

// Script queues outcomes for the next Book calls, in order.
func (s *Stub) Script(outcomes ...Outcome) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.script = append(s.script, outcomes...)

	return s
}

// Always sets the outcome used once the script is exhausted.
func (s *Stub) Always(outcome Outcome) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fallback = outcome

	return s
}

// FailCancel makes every Cancel call return err.
func (s *Stub) FailCancel(err error) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelErr = err

	return s
}

// HoldCancel makes every Cancel call wait until release is closed or its context ends.
func (s *Stub) HoldCancel(release <-chan struct{}) *Stub {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelHold = release

	return s
}

func (s *Stub) BookCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.bookCalls
}

func (s *Stub) CancelledReferences() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.cancelCalls)
}

func (s *Stub) ID() string {
	return s.id
}

func (s *Stub) Serves(componentType model.ComponentType) bool {
	return slices.Contains(s.types, componentType)
}

func (s *Stub) next(attemptKey string) (Outcome, BookResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bookCalls++

	if prior, ok := s.refs[attemptKey]; ok && attemptKey != "" {
		return Outcome{}, prior, true
	}

	if len(s.script) > 0 {
		outcome := s.script[0]
		s.script = s.script[1:]

		return outcome, BookResult{}, false
	}

	return s.fallback, BookResult{}, false
}

func (s *Stub) Book(ctx context.Context, req BookRequest) (BookResult, error) {
	outcome, prior, replay := s.next(req.AttemptKey)
	if replay {
		return prior, nil
	}

	delay := s.delay
	if outcome.Delay > 0 {
		delay = outcome.Delay
	}

	if err := wait(ctx, delay, outcome.Release); err != nil {
		return BookResult{}, err
	}

	if outcome.Err != nil {
		return BookResult{}, outcome.Err
	}

	result := BookResult{
		Reference:      fmt.Sprintf("%s-%s", s.id, uuid.NewString()[:8]),
		PriceConfirmed: req.Price + outcome.PriceDelta,
	}

	s.mu.Lock()
	if req.AttemptKey != "" {
		s.refs[req.AttemptKey] = result
	}
	s.mu.Unlock()

	return result, nil
}

func (s *Stub) Cancel(ctx context.Context, reference string) error {
	s.mu.Lock()
	s.cancelCalls = append(s.cancelCalls, reference)
	hold, cancelErr := s.cancelHold, s.cancelErr
	s.mu.Unlock()

	if err := wait(ctx, 0, hold); err != nil {
		return err
	}

	return cancelErr
}

func wait(ctx context.Context, delay time.Duration, release <-chan struct{}) error {
	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return ctx.Err() //nolint:wrapcheck
		}
	}

	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err() //nolint:wrapcheck
	}
}

// NewStubRegistry registers one Stub per PROVIDERS_CATALOG entry.
func NewStubRegistry(cfg *config.Config) (Registry, error) {
	entries, err := ParseCatalog(cfg.Providers.Catalog)
	if err != nil {
		return nil, err
	}

	delay := time.Duration(cfg.Providers.SimulatedDelayMs) * time.Millisecond
	gateways := make([]Gateway, 0, len(entries))

	for _, entry := range entries {
		gateways = append(gateways, NewStub(entry.ID, delay, entry.Types...))

		log.Info().Str("provider", entry.ID).Interface("types", entry.Types).Msg("Registered stub provider")
	}

	return NewRegistry(gateways...), nil
}
