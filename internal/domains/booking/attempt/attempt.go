package attempt

import (
	"context"
	"errors"
	"fmt"
	"time"
	"tripbook/infras/otel"
	"tripbook/internal/domains/booking/model"
	"tripbook/internal/domains/booking/repository"
	"tripbook/internal/domains/provider"
	"tripbook/shared/constant"
	"tripbook/shared/logger"
	"tripbook/shared/timezone"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

const (
	backOffMultiplier     = 2
	backOffJitter         = 0.2
	persistInitialDelay   = 50 * time.Millisecond
	persistMaxDelay       = 2 * time.Second
	reasonUnknownProvider = "provider is not registered"
)

// Signal exposes per-booking cancellation to attempts.
type Signal interface {
	Cancelled(ctx context.Context, bookingID string) bool
	Watch(bookingID string) (done <-chan struct{}, stop func())
}

// Runner books one component against its provider until the component is terminal.
type Runner interface {
	Run(ctx context.Context, componentID string) (model.Component, error)
}

// StartHook is called once a pending component has been persisted as in progress.
type StartHook func(ctx context.Context, component model.Component)

type Option func(*runnerImpl)

func WithStartHook(hook StartHook) Option {
	return func(r *runnerImpl) {
		r.onStart = hook
	}
}

type runnerImpl struct {
	store     repository.Store
	providers provider.Registry
	signal    Signal
	otel      otel.Otel
	cfg       Config
	onStart   StartHook
}

func New(store repository.Store, providers provider.Registry, signal Signal, otel otel.Otel, cfg Config, opts ...Option) Runner {
	r := &runnerImpl{
		store:     store,
		providers: providers,
		signal:    signal,
		otel:      otel,
		cfg:       cfg,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// run carries the per-call state of one Runner.Run.
type run struct {
	*runnerImpl
	component model.Component
	attempts  int
	lastErr   string
	log       zerolog.Logger
}

// Run drives the component to a terminal status and returns it as persisted. A non-nil
// error means the component was left non-terminal: ctx ended or a status write kept failing.
func (r *runnerImpl) Run(ctx context.Context, componentID string) (component model.Component, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelWorkerScopeName, constant.OtelWorkerScopeName+".attempt.Run")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	component, err = r.store.GetComponent(ctx, componentID)
	if err != nil {
		return component, fmt.Errorf("loading component %s: %w", componentID, err)
	}

	scope.SetAttributes(map[string]any{
		"booking.id":     component.BookingID,
		"component.id":   component.ID,
		"component.type": string(component.Type),
		"provider.id":    component.ProviderID,
	})

	if component.Status.IsTerminal() {
		return component, nil
	}

	state := &run{
		runnerImpl: r,
		component:  component,
		attempts:   component.AttemptCount,
		lastErr:    component.LastError.String,
		log: logger.Booking(component.BookingID,
			"component_id", component.ID,
			"component_type", string(component.Type),
			"provider_id", component.ProviderID,
			"trace_id", scope.TraceID(),
		),
	}

	return state.execute(ctx)
}

func (r *runnerImpl) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.BaseDelay
	b.MaxInterval = r.cfg.MaxDelay
	b.Multiplier = backOffMultiplier
	b.RandomizationFactor = backOffJitter
	b.Reset()

	return b
}

func (s *run) execute(ctx context.Context) (model.Component, error) {
	gateway, ok := s.providers.Get(s.component.ProviderID)
	if !ok {
		return s.finish(ctx, model.ComponentFailed, model.ComponentPayload{LastError: reasonUnknownProvider})
	}

	delays := s.newBackOff()

	for {
		if s.signal.Cancelled(ctx, s.component.BookingID) {
			s.log.Info().Msg("component cancelled before provider call")

			return s.finish(ctx, model.ComponentCancelled, model.ComponentPayload{LastError: model.ReasonCancelled})
		}

		if s.attempts >= s.cfg.MaxAttempts {
			return s.finish(ctx, model.ComponentFailed, model.ComponentPayload{LastError: s.lastErr})
		}

		s.attempts++
		wasPending := s.component.Status == model.ComponentPending

		if err := s.persist(ctx, model.ComponentInProgress, model.ComponentPayload{LastError: s.lastErr}); err != nil {
			return s.settledElsewhere(ctx, err)
		}

		if wasPending && s.onStart != nil {
			s.onStart(ctx, s.component)
		}

		result, err := s.book(ctx, gateway)
		if err == nil {
			return s.confirm(ctx, gateway, result)
		}

		if ctx.Err() != nil {
			s.log.Warn().Err(err).Msg("attempt interrupted, component left in progress for resume")

			return s.component, fmt.Errorf("booking component %s: %w", s.component.ID, ctx.Err())
		}

		s.lastErr = err.Error()

		if !provider.IsRetryable(err) {
			s.log.Info().Err(err).Int("attempt", s.attempts).Msg("provider rejected component")

			return s.finish(ctx, model.ComponentFailed, model.ComponentPayload{LastError: s.lastErr})
		}

		if s.attempts >= s.cfg.MaxAttempts {
			s.log.Info().Err(err).Int("attempt", s.attempts).Msg("retry budget exhausted")

			return s.finish(ctx, model.ComponentFailed, model.ComponentPayload{LastError: s.lastErr})
		}

		delay := delays.NextBackOff()
		s.log.Warn().Err(err).Int("attempt", s.attempts).Dur("retry_in", delay).Msg("retryable provider error")

		if err := s.persist(ctx, model.ComponentInProgress, model.ComponentPayload{LastError: s.lastErr}); err != nil {
			return s.component, err
		}

		if err := s.sleep(ctx, delay); err != nil {
			return s.component, err
		}
	}
}

// settledElsewhere returns the stored component when err is a rejected write because a
// cancellation already settled it.
func (s *run) settledElsewhere(ctx context.Context, err error) (model.Component, error) {
	if !errors.Is(err, model.ErrInvalidTransition) {
		return s.component, err
	}

	stored, getErr := s.store.GetComponent(ctx, s.component.ID)
	if getErr != nil || !stored.Status.IsTerminal() {
		return s.component, err
	}

	s.log.Info().Str("status", string(stored.Status)).Msg("component settled before the attempt started")
	s.component = stored

	return stored, nil
}

func (s *run) book(ctx context.Context, gateway provider.Gateway) (provider.BookResult, error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".provider.Book")
	defer scope.End()

	scope.SetAttribute("attempt", s.attempts)

	if s.cfg.ProviderTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.cfg.ProviderTimeout)
		defer cancel()
	}

	result, err := gateway.Book(ctx, provider.BookRequest{
		AttemptKey: s.component.ID,
		BookingID:  s.component.BookingID,
		Type:       s.component.Type,
		Price:      s.component.Price,
		Details:    s.component.Details.ComponentDetails,
	})
	if err != nil {
		scope.TraceError(err)

		return result, fmt.Errorf("%s booking: %w", gateway.ID(), err)
	}

	return result, nil
}

// confirm applies a successful provider result, releasing it when the confirmed price
// drifted beyond tolerance.
func (s *run) confirm(ctx context.Context, gateway provider.Gateway, result provider.BookResult) (model.Component, error) {
	// the provider holds a booking now, so shutdown must not stop it being recorded
	ctx = context.WithoutCancel(ctx)

	drift := result.PriceConfirmed - s.component.Price
	if drift < 0 {
		drift = -drift
	}

	if drift > s.cfg.PriceTolerance {
		mismatch := provider.Terminal(provider.CodePriceMismatch,
			fmt.Sprintf("confirmed price %d differs from selected price %d", result.PriceConfirmed, s.component.Price))

		s.log.Info().Err(mismatch).Str("reference", result.Reference).Msg("releasing provider booking")
		s.release(ctx, gateway, result.Reference)

		return s.finish(ctx, model.ComponentFailed, model.ComponentPayload{LastError: mismatch.Error()})
	}

	s.log.Info().Str("reference", result.Reference).Int("attempt", s.attempts).Msg("component confirmed")

	component, err := s.finish(ctx, model.ComponentConfirmed, model.ComponentPayload{
		ProviderReference: result.Reference,
		ConfirmedPrice:    result.PriceConfirmed,
		ConfirmedAt:       timezone.Now(),
	})
	if err != nil {
		s.log.Error().Err(err).Str("reference", result.Reference).Msg("provider booking succeeded but could not be recorded")
	}

	return component, err
}

func (s *run) release(ctx context.Context, gateway provider.Gateway, reference string) {
	if s.cfg.ProviderTimeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, s.cfg.ProviderTimeout)
		defer cancel()
	}

	if err := gateway.Cancel(ctx, reference); err != nil {
		s.log.Error().Err(err).Str("reference", reference).Msg("failed to release provider booking")
	}
}

func (s *run) sleep(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	cancelled, stop := s.signal.Watch(s.component.BookingID)
	defer stop()

	select {
	case <-timer.C:
	case <-cancelled:
	case <-ctx.Done():
		return fmt.Errorf("waiting to retry component %s: %w", s.component.ID, ctx.Err())
	}

	return nil
}

func (s *run) finish(ctx context.Context, status model.ComponentStatus, payload model.ComponentPayload) (model.Component, error) {
	if err := s.persist(ctx, status, payload); err != nil {
		return s.component, err
	}

	return s.component, nil
}

// persist writes the transition, retrying storage failures with backoff. The provider is
// never called again from here.
func (s *run) persist(ctx context.Context, status model.ComponentStatus, payload model.ComponentPayload) error {
	payload.AttemptCount = s.attempts

	write := func() (struct{}, error) {
		err := s.store.UpdateComponentStatus(ctx, s.component.ID, status, payload)
		if errors.Is(err, model.ErrInvalidTransition) || errors.Is(err, model.ErrNotFound) {
			return struct{}{}, backoff.Permanent(err)
		}

		return struct{}{}, err
	}

	delays := backoff.NewExponentialBackOff()
	delays.InitialInterval = persistInitialDelay
	delays.MaxInterval = persistMaxDelay

	_, err := backoff.Retry(ctx, write,
		backoff.WithBackOff(delays),
		backoff.WithMaxTries(uint(s.cfg.PersistMaxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			s.log.Warn().Err(err).Str("status", string(status)).Dur("retry_in", next).Msg("retrying component status write")
		}),
	)
	if err != nil {
		s.log.Error().Err(err).Str("status", string(status)).Msg("failed to persist component status")

		return fmt.Errorf("persisting component %s as %s: %w", s.component.ID, status, err)
	}

	s.component.Status = status
	s.component.AttemptCount = payload.AttemptCount
	s.component.LastError = model.NullString(payload.LastError)

	if status == model.ComponentConfirmed {
		s.component.ProviderReference = model.NullString(payload.ProviderReference)
		s.component.ConfirmedPrice.Int64, s.component.ConfirmedPrice.Valid = payload.ConfirmedPrice, true
		s.component.ConfirmedAt.Time, s.component.ConfirmedAt.Valid = payload.ConfirmedAt, true
	}

	return nil
}
