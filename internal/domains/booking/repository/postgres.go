package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"tripbook/infras/otel"
	"tripbook/infras/postgres"
	"tripbook/internal/domains/booking/model"
	"tripbook/shared"
	"tripbook/shared/constant"
	gDto "tripbook/shared/dto"
	gRepo "tripbook/shared/repository"
	"tripbook/shared/timezone"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// postgresStore reads everything the engine folds or writes back from the primary. Only
// ListBookings is served by the read replica.
type postgresStore struct {
	bookings   gRepo.Repository[model.Booking]
	components gRepo.Repository[model.Component]
	db         *postgres.Connection
	otel       otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Store {
	return &postgresStore{
		bookings:   gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		components: gRepo.NewRepository[model.Component](model.ComponentEntityName, model.ComponentTableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *postgresStore) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking."+op)
}

func notFound(err error) error {
	if errors.Is(err, gRepo.ErrNotFound) {
		return model.ErrNotFound
	}

	return err
}

func byBookingID(bookingID string) gDto.FilterGroup {
	return shared.FilterByID(bookingID, model.FieldBookingID, model.ComponentTableName)
}

func (r *postgresStore) CreateBookingWithComponents(ctx context.Context, booking model.Booking, components []model.Component) (err error) {
	ctx, scope := r.scope(ctx, "CreateBookingWithComponents")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if booking.Version == 0 {
		booking.Version = 1
	}

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.bookings.InsertTx(ctx, tx, booking); err != nil {
			return err
		}

		return r.components.InsertBulkTx(ctx, tx, components)
	})

	if err != nil && booking.IdempotencyKey.Valid && postgres.IsUniqueViolation(err) {
		return model.ErrDuplicateKey
	}

	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("failed to persist booking")

		return fmt.Errorf("creating booking %s: %w", booking.ID, err)
	}

	return nil
}

func (r *postgresStore) FindByIdempotencyKey(ctx context.Context, userID, key string) (booking model.Booking, err error) {
	ctx, scope := r.scope(postgres.WithPrimary(ctx), "FindByIdempotencyKey")
	defer scope.End()

	booking, err = r.bookings.Get(ctx, shared.FilterByFields(model.TableName, map[string]string{
		model.FieldUserID:         userID,
		model.FieldIdempotencyKey: key,
	}))

	return booking, notFound(err)
}

func (r *postgresStore) GetBooking(ctx context.Context, bookingID string) (booking model.Booking, err error) {
	ctx, scope := r.scope(postgres.WithPrimary(ctx), "GetBooking")
	defer scope.End()

	booking, err = r.bookings.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))

	return booking, notFound(err)
}

func (r *postgresStore) ListBookings(ctx context.Context, userID string, params gDto.QueryParams, status model.Status) (bookings []model.Booking, total int, err error) {
	ctx, scope := r.scope(ctx, "ListBookings")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByFields(model.TableName, map[string]string{
		model.FieldUserID: userID,
		model.FieldStatus: string(status),
	})

	if params.SortBy == "" {
		params.SortBy = constant.DefaultValueSortBy
		params.SortDir = constant.DefaultValueSortDir
	}

	bookings, err = r.bookings.GetAll(ctx, params, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("listing bookings: %w", err)
	}

	total, err = r.bookings.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("counting bookings: %w", err)
	}

	return bookings, total, nil
}

func (r *postgresStore) ListInFlight(ctx context.Context) (bookings []model.Booking, err error) {
	ctx, scope := r.scope(postgres.WithPrimary(ctx), "ListInFlight")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.NonTerminalStatuses(),
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	bookings, err = r.bookings.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirAsc}, filter)
	if err != nil {
		return nil, fmt.Errorf("listing in-flight bookings: %w", err)
	}

	return bookings, nil
}

func (r *postgresStore) UpdateBookingStatus(ctx context.Context, bookingID string, expectedVersion int64, update model.BookingUpdate) (updated model.Booking, err error) {
	ctx, scope := r.scope(ctx, "UpdateBookingStatus")
	defer scope.End()

	scope.SetAttributes(map[string]any{"booking.id": bookingID, "booking.status": string(update.Status)})

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		current, err := r.bookings.GetForUpdateTx(ctx, tx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
		if err != nil {
			return notFound(err)
		}

		if current.Version != expectedVersion {
			return fmt.Errorf("%w: booking %s at version %d, expected %d", model.ErrConflict, bookingID, current.Version, expectedVersion)
		}

		if !current.Status.CanTransition(update.Status) {
			return fmt.Errorf("%w: booking %s -> %s", model.ErrInvalidTransition, current.Status, update.Status)
		}

		now := timezone.Now()

		filter := shared.FilterByID(bookingID, model.FieldID, model.TableName).And(gDto.Filter{
			Field: model.FieldVersion, Value: expectedVersion, Operator: gDto.FilterOperatorEq, Table: model.TableName,
		})

		affected, err := r.bookings.UpdateTx(ctx, tx, map[string]any{
			model.FieldStatus:     update.Status,
			model.FieldTotalCost:  update.TotalCost,
			model.FieldServiceFee: update.ServiceFee,
			model.FieldGrandTotal: update.GrandTotal,
			model.FieldVersion:    expectedVersion + 1,
			model.FieldModifiedAt: now,
			model.FieldModifiedBy: model.SystemActor,
		}, filter)
		if err != nil {
			return err
		}

		if affected == 0 {
			return fmt.Errorf("%w: booking %s", model.ErrConflict, bookingID)
		}

		updated = current
		updated.Status = update.Status
		updated.TotalCost = update.TotalCost
		updated.ServiceFee = update.ServiceFee
		updated.GrandTotal = update.GrandTotal
		updated.Version = expectedVersion + 1
		updated.ModifiedAt = now
		updated.ModifiedBy = model.SystemActor

		return nil
	})

	if err != nil && !errors.Is(err, model.ErrConflict) {
		scope.TraceError(err)
	}

	return updated, err
}

func (r *postgresStore) GetComponent(ctx context.Context, componentID string) (component model.Component, err error) {
	ctx, scope := r.scope(postgres.WithPrimary(ctx), "GetComponent")
	defer scope.End()

	component, err = r.components.Get(ctx, shared.FilterByID(componentID, model.FieldID, model.ComponentTableName))

	return component, notFound(err)
}

func (r *postgresStore) ListComponents(ctx context.Context, bookingID string) (components []model.Component, err error) {
	ctx, scope := r.scope(postgres.WithPrimary(ctx), "ListComponents")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	components, err = r.components.GetAll(ctx, gDto.QueryParams{}, byBookingID(bookingID))
	if err != nil {
		return nil, fmt.Errorf("listing components of %s: %w", bookingID, err)
	}

	if len(components) == 0 {
		if _, err = r.GetBooking(ctx, bookingID); err != nil {
			return nil, err
		}
	}

	slices.SortFunc(components, compareComponents)

	return components, nil
}

// lockComponent runs fn on the row-locked component and writes back the fields it returns.
func (r *postgresStore) lockComponent(ctx context.Context, componentID string, fn func(model.Component) (map[string]any, error)) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		filter := shared.FilterByID(componentID, model.FieldID, model.ComponentTableName)

		current, err := r.components.GetForUpdateTx(ctx, tx, filter)
		if err != nil {
			return notFound(err)
		}

		mod, err := fn(current)
		if err != nil {
			return err
		}

		_, err = r.components.UpdateTx(ctx, tx, mod, filter)

		return err
	})
}

func componentColumns(c model.Component) map[string]any {
	return map[string]any{
		model.FieldStatus:            c.Status,
		model.FieldAttemptCount:      c.AttemptCount,
		model.FieldLastError:         c.LastError,
		model.FieldProviderReference: c.ProviderReference,
		model.FieldConfirmedPrice:    c.ConfirmedPrice,
		model.FieldConfirmedAt:       c.ConfirmedAt,
		model.FieldModifiedAt:        c.ModifiedAt,
		model.FieldModifiedBy:        c.ModifiedBy,
	}
}

func (r *postgresStore) UpdateComponentStatus(ctx context.Context, componentID string, status model.ComponentStatus, payload model.ComponentPayload) (err error) {
	ctx, scope := r.scope(ctx, "UpdateComponentStatus")
	defer scope.End()

	scope.SetAttributes(map[string]any{"component.id": componentID, "component.status": string(status)})

	err = r.lockComponent(ctx, componentID, func(current model.Component) (map[string]any, error) {
		if !current.Status.CanTransition(status) {
			return nil, fmt.Errorf("%w: component %s %s -> %s", model.ErrInvalidTransition, componentID, current.Status, status)
		}

		return componentColumns(applyComponentUpdate(current, status, payload)), nil
	})

	scope.TraceIfError(err)

	return err
}

func (r *postgresStore) CompensateComponent(ctx context.Context, componentID string, cancelErr error) (err error) {
	ctx, scope := r.scope(ctx, "CompensateComponent")
	defer scope.End()

	err = r.lockComponent(ctx, componentID, func(current model.Component) (map[string]any, error) {
		if current.Status != model.ComponentConfirmed {
			return nil, fmt.Errorf("%w: component %s is %s, only confirmed components are compensated", model.ErrInvalidTransition, componentID, current.Status)
		}

		return componentColumns(applyCompensation(current, cancelErr)), nil
	})

	scope.TraceIfError(err)

	return err
}

func (r *postgresStore) CancelPendingComponent(ctx context.Context, componentID string) (err error) {
	ctx, scope := r.scope(ctx, "CancelPendingComponent")
	defer scope.End()

	err = r.lockComponent(ctx, componentID, func(current model.Component) (map[string]any, error) {
		if current.Status != model.ComponentPending {
			return nil, fmt.Errorf("%w: component %s is %s, not pending", model.ErrInvalidTransition, componentID, current.Status)
		}

		return componentColumns(applyComponentUpdate(current, model.ComponentCancelled, model.ComponentPayload{
			AttemptCount: current.AttemptCount,
			LastError:    model.ReasonCancelled,
		})), nil
	})

	if err != nil && !errors.Is(err, model.ErrInvalidTransition) {
		scope.TraceError(err)
	}

	return err
}
