package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"tripbook/config"
	"tripbook/infras/otel"
	"tripbook/internal/domains/booking/aggregator"
	"tripbook/internal/domains/booking/attempt"
	"tripbook/internal/domains/booking/cancellation"
	"tripbook/internal/domains/booking/event"
	"tripbook/internal/domains/booking/model"
	"tripbook/internal/domains/booking/model/dto"
	"tripbook/internal/domains/booking/repository"
	"tripbook/internal/domains/provider"
	"tripbook/shared"
	"tripbook/shared/cache"
	"tripbook/shared/constant"
	gDto "tripbook/shared/dto"
	"tripbook/shared/failure"
	gModel "tripbook/shared/model"
	"tripbook/shared/timezone"
	"tripbook/shared/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	cacheIdempotencyKey = "booking:idem"
	poolName            = "booking-attempts"
	reasonNoGateway     = "provider is not registered"
)

type Booking interface {
	// CreateBooking persists the booking and queues one attempt per component. It returns
	// as soon as the booking is durable.
	CreateBooking(ctx context.Context, userID, tripID string, selections []model.Selection, idempotencyKey string) (string, error)
	CancelBooking(ctx context.Context, userID, bookingID string) error
	GetBookingStatus(ctx context.Context, userID, bookingID string) (model.Snapshot, error)
	ListBookings(ctx context.Context, userID string, params gDto.QueryParams, status model.Status) (dto.GetBookingsResponse, error)
	// ResumeInFlight queues every unfinished component left by a previous process and
	// returns how many were queued.
	ResumeInFlight(ctx context.Context) (int, error)
	Start(ctx context.Context)
	Shutdown(ctx context.Context) error
}

type job struct {
	BookingID   string
	ComponentID string
}

type serviceImpl struct {
	store     repository.Store
	providers provider.Registry
	signal    *cancellation.Registry
	notifier  event.Notifier
	cache     cache.RedisCache
	cfg       *config.Config
	otel      otel.Otel

	runner attempt.Runner
	pool   *worker.Pool[job]
	locks  *keyedMutex
	claims *claims
}

func New(
	store repository.Store,
	providers provider.Registry,
	signal *cancellation.Registry,
	notifier event.Notifier,
	cache cache.RedisCache,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	s := &serviceImpl{
		store:     store,
		providers: providers,
		signal:    signal,
		notifier:  notifier,
		cache:     cache,
		cfg:       cfg,
		otel:      otel,
		locks:     newKeyedMutex(),
		claims:    newClaims(),
	}

	s.runner = attempt.New(store, providers, signal, otel, attempt.NewConfig(cfg), attempt.WithStartHook(s.componentStarted))
	s.pool = worker.New(poolName, cfg.Booking.WorkerCount, cfg.Booking.QueueSize, s.process)

	return s
}

func (s *serviceImpl) Start(ctx context.Context) {
	s.pool.Start(ctx)
}

// Shutdown stops taking new attempts and waits for queued ones. Attempts still running
// when ctx ends are interrupted and picked up again by ResumeInFlight.
func (s *serviceImpl) Shutdown(ctx context.Context) error {
	if err := s.pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("stopping booking attempts: %w", err)
	}

	return nil
}

func (s *serviceImpl) CreateBooking(ctx context.Context, userID, tripID string, selections []model.Selection, idempotencyKey string) (id string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if strings.TrimSpace(tripID) == "" {
		return "", failure.BadRequestFromString("trip_id is required") // nolint:wrapcheck
	}

	if err = s.validateSelections(selections); err != nil {
		return "", err
	}

	if idempotencyKey != "" {
		id, err = s.findByIdempotencyKey(ctx, userID, idempotencyKey)
		if err != nil {
			return "", err
		}

		if id != "" {
			log.Info().Str("booking_id", id).Str("user_id", userID).Msg("idempotent replay of booking request")

			return id, nil
		}
	}

	booking, components := newBooking(userID, tripID, selections, idempotencyKey)

	err = s.store.CreateBookingWithComponents(ctx, booking, components)
	if errors.Is(err, model.ErrDuplicateKey) {
		existing, findErr := s.store.FindByIdempotencyKey(ctx, userID, idempotencyKey)
		if findErr != nil {
			log.Error().Err(findErr).Str("user_id", userID).Msg("failed to load booking after idempotency key collision")

			return "", fmt.Errorf("failed to load booking for idempotency key: %w", findErr)
		}

		return existing.ID, nil
	}

	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("trip_id", tripID).Msg("failed to create booking")

		return "", failure.ServiceUnavailable("booking could not be stored, retry later") // nolint:wrapcheck
	}

	scope.SetAttribute("booking.id", booking.ID)

	if idempotencyKey != "" {
		s.rememberIdempotencyKey(ctx, userID, idempotencyKey, booking.ID)
	}

	s.notifier.BookingChanged(ctx, "", model.Snapshot{Booking: booking, Components: components})

	// the booking is stored, so a client that gives up must not cost it its attempts
	s.enqueue(context.WithoutCancel(ctx), booking.ID, components)

	log.Info().Str("booking_id", booking.ID).Int("components", len(components)).Msg("booking accepted")

	return booking.ID, nil
}

func (s *serviceImpl) validateSelections(selections []model.Selection) error {
	if len(selections) == 0 {
		return failure.BadRequestFromString("at least one selection is required") // nolint:wrapcheck
	}

	if len(selections) > model.MaxComponents {
		return failure.BadRequestFromString(fmt.Sprintf("at most %d selections are allowed", model.MaxComponents)) // nolint:wrapcheck
	}

	seen := make(map[model.ComponentType]bool, len(selections))

	for _, sel := range selections {
		if !sel.Type.IsValid() {
			return failure.BadRequestFromString(fmt.Sprintf("unsupported component type %q", sel.Type)) // nolint:wrapcheck
		}

		if seen[sel.Type] {
			return failure.BadRequestFromString(fmt.Sprintf("duplicate %s selection", sel.Type)) // nolint:wrapcheck
		}

		seen[sel.Type] = true

		if sel.Price <= 0 {
			return failure.BadRequestFromString(fmt.Sprintf("%s price must be positive", sel.Type)) // nolint:wrapcheck
		}

		if _, ok := s.providers.Get(sel.ProviderID); !ok {
			return failure.BadRequestFromString(fmt.Sprintf("unknown provider %q", sel.ProviderID)) // nolint:wrapcheck
		}

		if !s.providers.Supports(sel.ProviderID, sel.Type) {
			return failure.BadRequestFromString(fmt.Sprintf("provider %q does not serve %s", sel.ProviderID, sel.Type)) // nolint:wrapcheck
		}

		if sel.Details == nil {
			return failure.BadRequestFromString(fmt.Sprintf("%s details are required", sel.Type)) // nolint:wrapcheck
		}

		if sel.Details.ComponentType() != sel.Type {
			return failure.BadRequestFromString(fmt.Sprintf("%s selection carries %s details", sel.Type, sel.Details.ComponentType())) // nolint:wrapcheck
		}

		if err := sel.Details.Validate(); err != nil {
			return failure.BadRequestFromString(fmt.Sprintf("%s details: %v", sel.Type, err)) // nolint:wrapcheck
		}
	}

	return nil
}

func newBooking(userID, tripID string, selections []model.Selection, idempotencyKey string) (model.Booking, []model.Component) {
	now := timezone.Now()
	metadata := gModel.Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  userID,
		ModifiedBy: userID,
	}

	booking := model.Booking{
		ID:             uuid.NewString(),
		UserID:         userID,
		TripID:         tripID,
		IdempotencyKey: model.NullString(idempotencyKey),
		Status:         model.StatusPending,
		Version:        1,
		Metadata:       metadata,
	}

	components := make([]model.Component, len(selections))
	for i, sel := range selections {
		components[i] = model.Component{
			ID:         uuid.NewString(),
			BookingID:  booking.ID,
			Type:       sel.Type,
			ProviderID: sel.ProviderID,
			Price:      sel.Price,
			Details:    model.Details{ComponentDetails: sel.Details},
			Status:     model.ComponentPending,
			Metadata:   metadata,
		}
	}

	return booking, components
}

func (s *serviceImpl) findByIdempotencyKey(ctx context.Context, userID, key string) (string, error) {
	cacheKey := shared.BuildCacheKey(cacheIdempotencyKey, userID, key)

	var id string
	if err := s.cache.Get(ctx, cacheKey, &id); err == nil && id != "" {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for idempotency key")

		return id, nil
	}

	booking, err := s.store.FindByIdempotencyKey(ctx, userID, key)
	if errors.Is(err, model.ErrNotFound) {
		return "", nil
	}

	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to look up idempotency key")

		return "", fmt.Errorf("failed to look up idempotency key: %w", err)
	}

	s.rememberIdempotencyKey(ctx, userID, key, booking.ID)

	return booking.ID, nil
}

func (s *serviceImpl) rememberIdempotencyKey(ctx context.Context, userID, key, bookingID string) {
	cacheKey := shared.BuildCacheKey(cacheIdempotencyKey, userID, key)

	if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, bookingID, s.cfg.Cache.TTL); err != nil {
		log.Warn().Err(err).Str("cacheKey", cacheKey).Msg("failed to cache idempotency key")
	}
}

// enqueue hands components to the worker pool, waiting while the queue is full. A component
// that cannot be queued because the pool is shut down stays pending for ResumeInFlight.
func (s *serviceImpl) enqueue(ctx context.Context, bookingID string, components []model.Component) int {
	queued := 0

	for _, c := range components {
		if err := s.pool.Submit(ctx, job{BookingID: bookingID, ComponentID: c.ID}); err != nil {
			log.Warn().Err(err).Str("booking_id", bookingID).Str("component_id", c.ID).Msg("component not queued, left pending")

			continue
		}

		queued++
	}

	return queued
}

func (s *serviceImpl) CancelBooking(ctx context.Context, userID, bookingID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CancelBooking")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return err
	}

	if booking.Status.IsTerminal() {
		log.Info().Str("booking_id", bookingID).Str("status", string(booking.Status)).Msg("cancel ignored, booking already settled")

		return nil
	}

	if err = s.markCancelling(ctx, bookingID); err != nil {
		return err
	}

	s.signal.Signal(bookingID)

	if _, err = s.recompute(ctx, bookingID); err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to settle cancelled booking")

		return fmt.Errorf("failed to settle cancelled booking: %w", err)
	}

	return nil
}

func (s *serviceImpl) markCancelling(ctx context.Context, bookingID string) error {
	unlock := s.locks.Lock(bookingID)
	defer unlock()

	for try := 0; ; try++ {
		booking, err := s.store.GetBooking(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.Status.IsTerminal() || booking.Status == model.StatusCancelling {
			return nil
		}

		components, err := s.store.ListComponents(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("failed to list components: %w", err)
		}

		update := aggregator.Totals(components, s.cfg.Booking.ServiceFeeBasisPoints)
		update.Status = model.StatusCancelling

		updated, err := s.store.UpdateBookingStatus(ctx, bookingID, booking.Version, update)
		if errors.Is(err, model.ErrConflict) && try < s.cfg.Booking.ConflictMaxRetries {
			log.Debug().Err(err).Str("booking_id", bookingID).Int("try", try).Msg("retrying cancel after version conflict")

			continue
		}

		if errors.Is(err, model.ErrConflict) {
			log.Warn().Str("booking_id", bookingID).Int("tries", try+1).Msg("gave up marking booking cancelling")

			return failure.Conflict("booking is being updated, retry the cancellation") // nolint:wrapcheck
		}

		if err != nil {
			log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to mark booking cancelling")

			return fmt.Errorf("failed to mark booking cancelling: %w", err)
		}

		log.Info().Str("booking_id", bookingID).Msg("booking cancelling")
		s.notifier.BookingChanged(ctx, booking.Status, model.Snapshot{Booking: updated, Components: components})

		return nil
	}
}

func (s *serviceImpl) GetBookingStatus(ctx context.Context, userID, bookingID string) (res model.Snapshot, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBookingStatus")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.ownedBooking(ctx, userID, bookingID)
	if err != nil {
		return res, err
	}

	components, err := s.store.ListComponents(ctx, bookingID)
	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to list booking components")

		return res, fmt.Errorf("failed to list booking components: %w", err)
	}

	return model.Snapshot{Booking: booking, Components: components}, nil
}

// ownedBooking loads bookingID, reporting another user's booking as not found.
func (s *serviceImpl) ownedBooking(ctx context.Context, userID, bookingID string) (model.Booking, error) {
	booking, err := s.store.GetBooking(ctx, bookingID)
	if errors.Is(err, model.ErrNotFound) {
		return booking, failure.NotFound(model.EntityName) // nolint:wrapcheck
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", bookingID).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.UserID != userID {
		return model.Booking{}, failure.NotFound(model.EntityName) // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) ListBookings(ctx context.Context, userID string, params gDto.QueryParams, status model.Status) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if status != "" && !status.IsValid() {
		return res, failure.BadRequestFromString(fmt.Sprintf("unknown status %q", status)) // nolint:wrapcheck
	}

	bookings, total, err := s.store.ListBookings(ctx, userID, params, status)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("failed to list bookings")

		return res, fmt.Errorf("failed to list bookings: %w", err)
	}

	res.FromModels(bookings, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) ResumeInFlight(ctx context.Context) (queued int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResumeInFlight")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	bookings, err := s.store.ListInFlight(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list in-flight bookings")

		return 0, fmt.Errorf("failed to list in-flight bookings: %w", err)
	}

	for _, b := range bookings {
		components, err := s.store.ListComponents(ctx, b.ID)
		if err != nil {
			log.Error().Err(err).Str("booking_id", b.ID).Msg("failed to list components to resume")

			continue
		}

		if b.Status == model.StatusCancelling {
			s.signal.Signal(b.ID)
		}

		open := make([]model.Component, 0, len(components))
		for _, c := range components {
			if !c.Status.IsTerminal() {
				open = append(open, c)
			}
		}

		if len(open) == 0 {
			if _, err := s.recompute(ctx, b.ID); err != nil {
				log.Error().Err(err).Str("booking_id", b.ID).Msg("failed to settle resumed booking")
			}

			continue
		}

		queued += s.enqueue(ctx, b.ID, open)
	}

	log.Info().Int("bookings", len(bookings)).Int("components", queued).Msg("resumed in-flight bookings")

	return queued, nil
}

// process is the worker pool handler: one attempt, then the booking is recomputed.
func (s *serviceImpl) process(ctx context.Context, j job) {
	if _, err := s.runner.Run(ctx, j.ComponentID); err != nil {
		if ctx.Err() != nil {
			log.Info().Str("booking_id", j.BookingID).Str("component_id", j.ComponentID).Msg("attempt interrupted by shutdown")

			return
		}

		log.Error().Err(err).Str("booking_id", j.BookingID).Str("component_id", j.ComponentID).Msg("attempt ended without a terminal status")
	}

	if _, err := s.recompute(context.WithoutCancel(ctx), j.BookingID); err != nil {
		log.Error().Err(err).Str("booking_id", j.BookingID).Msg("failed to recompute booking")
	}
}

func (s *serviceImpl) componentStarted(ctx context.Context, component model.Component) {
	if _, err := s.recompute(context.WithoutCancel(ctx), component.BookingID); err != nil {
		log.Warn().Err(err).Str("booking_id", component.BookingID).Msg("failed to mark booking in progress")
	}
}

// recompute folds the persisted components into the booking status. While the booking is
// cancelling, components no attempt has started are cancelled and confirmed ones are
// released at their provider before the fold is repeated. Provider calls run outside the
// booking lock.
func (s *serviceImpl) recompute(ctx context.Context, bookingID string) (booking model.Booking, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".recompute")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	for {
		var release []model.Component

		booking, release, err = s.fold(ctx, bookingID)
		if err != nil || len(release) == 0 {
			return booking, err
		}

		if err = s.compensate(ctx, bookingID, release); err != nil {
			return booking, err
		}
	}
}

// fold reads and writes the booking under its lock. When it claims confirmed components
// for compensation it returns them without writing. A stale version is re-read and retried
// up to ConflictMaxRetries times.
func (s *serviceImpl) fold(ctx context.Context, bookingID string) (model.Booking, []model.Component, error) {
	unlock := s.locks.Lock(bookingID)
	defer unlock()

	for try := 0; ; try++ {
		booking, err := s.store.GetBooking(ctx, bookingID)
		if err != nil {
			return booking, nil, fmt.Errorf("failed to get booking: %w", err)
		}

		if booking.Status.IsTerminal() {
			return booking, nil, nil
		}

		components, err := s.store.ListComponents(ctx, bookingID)
		if err != nil {
			return booking, nil, fmt.Errorf("failed to list components: %w", err)
		}

		cancelling := booking.Status == model.StatusCancelling

		if cancelling {
			if components, err = s.cancelPending(ctx, bookingID, components); err != nil {
				return booking, nil, err
			}

			if release := s.claimConfirmed(bookingID, components); len(release) > 0 {
				return booking, release, nil
			}

			// whoever holds the running claims folds again once they finish
			if s.claims.busy(bookingID) {
				return booking, nil, nil
			}
		}

		update := aggregator.Recompute(components, cancelling, s.cfg.Booking.ServiceFeeBasisPoints)
		if unchanged(booking, update) {
			return booking, nil, nil
		}

		updated, err := s.store.UpdateBookingStatus(ctx, bookingID, booking.Version, update)
		if errors.Is(err, model.ErrConflict) && try < s.cfg.Booking.ConflictMaxRetries {
			log.Debug().Err(err).Str("booking_id", bookingID).Int("try", try).Msg("retrying recompute after version conflict")

			continue
		}

		if err != nil {
			log.Error().Err(err).Str("booking_id", bookingID).Str("status", string(update.Status)).Msg("failed to update booking status")

			return booking, nil, fmt.Errorf("failed to update booking status: %w", err)
		}

		log.Info().
			Str("booking_id", bookingID).
			Str("from", string(booking.Status)).
			Str("to", string(updated.Status)).
			Int64("grand_total", updated.GrandTotal).
			Msg("booking status changed")

		s.notifier.BookingChanged(ctx, booking.Status, model.Snapshot{Booking: updated, Components: components})

		if updated.Status.IsTerminal() {
			s.signal.Release(bookingID)
		}

		return updated, nil, nil
	}
}

// cancelPending settles every component of a cancelling booking that no attempt has
// started, queued or not, and returns the components as stored afterwards.
func (s *serviceImpl) cancelPending(ctx context.Context, bookingID string, components []model.Component) ([]model.Component, error) {
	cancelled := 0

	for _, c := range components {
		if c.Status != model.ComponentPending {
			continue
		}

		err := s.store.CancelPendingComponent(ctx, c.ID)
		if errors.Is(err, model.ErrInvalidTransition) {
			// an attempt picked it up first
			continue
		}

		if err != nil {
			log.Error().Err(err).Str("booking_id", bookingID).Str("component_id", c.ID).Msg("failed to cancel pending component")

			return components, fmt.Errorf("failed to cancel pending component %s: %w", c.ID, err)
		}

		log.Info().Str("booking_id", bookingID).Str("component_id", c.ID).Msg("pending component cancelled")

		cancelled++
	}

	if cancelled == 0 {
		return components, nil
	}

	components, err := s.store.ListComponents(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list components: %w", err)
	}

	return components, nil
}

// claimConfirmed returns the confirmed components this call may compensate. Components whose
// cancellation already failed once, or that another call is compensating, are skipped.
func (s *serviceImpl) claimConfirmed(bookingID string, components []model.Component) []model.Component {
	var release []model.Component

	for _, c := range components {
		if c.Status != model.ComponentConfirmed || strings.HasPrefix(c.LastError.String, model.CompensationFailedPrefix) {
			continue
		}

		if s.claims.claim(bookingID, c.ID) {
			release = append(release, c)
		}
	}

	return release
}

func unchanged(b model.Booking, u model.BookingUpdate) bool {
	return b.Status == u.Status && b.TotalCost == u.TotalCost && b.ServiceFee == u.ServiceFee && b.GrandTotal == u.GrandTotal
}

// compensate cancels the claimed components at their providers in parallel and drops the
// claims once each outcome is stored.
func (s *serviceImpl) compensate(ctx context.Context, bookingID string, components []model.Component) error {
	var g errgroup.Group
	g.SetLimit(model.MaxComponents)

	for _, c := range components {
		g.Go(func() error {
			defer s.claims.release(bookingID, c.ID)

			return s.compensateOne(ctx, c)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("compensating booking %s: %w", bookingID, err)
	}

	return nil
}

func (s *serviceImpl) compensateOne(ctx context.Context, c model.Component) error {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelExternalScopeName, constant.OtelExternalScopeName+".provider.Cancel")
	defer scope.End()

	var cancelErr error

	gateway, ok := s.providers.Get(c.ProviderID)
	if ok {
		callCtx, cancel := ctx, context.CancelFunc(func() {})
		if timeout := time.Duration(s.cfg.Booking.ProviderTimeoutSeconds) * time.Second; timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, timeout)
		}

		cancelErr = gateway.Cancel(callCtx, c.ProviderReference.String)
		cancel()
	} else {
		cancelErr = errors.New(reasonNoGateway)
	}

	if cancelErr != nil {
		scope.TraceError(cancelErr)
		log.Error().Err(cancelErr).
			Str("booking_id", c.BookingID).
			Str("component_id", c.ID).
			Str("reference", c.ProviderReference.String).
			Msg("compensating cancellation failed")
	} else {
		log.Info().Str("booking_id", c.BookingID).Str("component_id", c.ID).Msg("component compensated")
	}

	if err := s.store.CompensateComponent(ctx, c.ID, cancelErr); err != nil {
		log.Error().Err(err).Str("component_id", c.ID).Msg("failed to record compensation")

		return fmt.Errorf("failed to record compensation of %s: %w", c.ID, err)
	}

	return nil
}
