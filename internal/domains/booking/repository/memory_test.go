package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
	"tripbook/internal/domains/booking/model"
	"tripbook/internal/domains/booking/repository"
	gDto "tripbook/shared/dto"
	gModel "tripbook/shared/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store repository.Store, bookingID, userID, key string, types ...model.ComponentType) []model.Component {
	t.Helper()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	booking := model.Booking{
		ID:             bookingID,
		UserID:         userID,
		TripID:         "trip-1",
		IdempotencyKey: model.NullString(key),
		Status:         model.StatusPending,
		Metadata:       gModel.Metadata{CreatedAt: created, ModifiedAt: created, CreatedBy: userID, ModifiedBy: userID},
	}

	components := make([]model.Component, len(types))
	for i, typ := range types {
		components[i] = model.Component{
			ID:        fmt.Sprintf("%s-%s", bookingID, typ),
			BookingID: bookingID,
			Type:      typ,
			Price:     1000,
			Status:    model.ComponentPending,
		}
	}

	require.NoError(t, store.CreateBookingWithComponents(context.Background(), booking, components))

	return components
}

func TestMemory_CreateAndRead(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()

	seed(t, store, "b-1", "u-1", "key-1", model.ComponentTicket, model.ComponentFlight)

	booking, err := store.GetBooking(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), booking.Version)

	components, err := store.ListComponents(ctx, "b-1")
	require.NoError(t, err)
	require.Len(t, components, 2)
	assert.Equal(t, model.ComponentFlight, components[0].Type)

	found, err := store.FindByIdempotencyKey(ctx, "u-1", "key-1")
	require.NoError(t, err)
	assert.Equal(t, "b-1", found.ID)

	_, err = store.FindByIdempotencyKey(ctx, "u-2", "key-1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = store.GetBooking(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemory_DuplicateIdempotencyKeyPersistsNothing(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()

	seed(t, store, "b-1", "u-1", "key-1", model.ComponentFlight)

	err := store.CreateBookingWithComponents(ctx,
		model.Booking{ID: "b-2", UserID: "u-1", IdempotencyKey: model.NullString("key-1"), Status: model.StatusPending},
		[]model.Component{{ID: "c-2", BookingID: "b-2", Type: model.ComponentHotel, Status: model.ComponentPending}},
	)
	require.ErrorIs(t, err, model.ErrDuplicateKey)

	_, err = store.GetBooking(ctx, "b-2")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = store.GetComponent(ctx, "c-2")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemory_ComponentStatusIsMonotonic(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	components := seed(t, store, "b-1", "u-1", "", model.ComponentCar)
	id := components[0].ID

	require.NoError(t, store.UpdateComponentStatus(ctx, id, model.ComponentInProgress, model.ComponentPayload{AttemptCount: 1}))
	require.NoError(t, store.UpdateComponentStatus(ctx, id, model.ComponentInProgress, model.ComponentPayload{AttemptCount: 2, LastError: "timeout"}))

	confirmedAt := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.UpdateComponentStatus(ctx, id, model.ComponentConfirmed, model.ComponentPayload{
		AttemptCount: 2, ProviderReference: "RR-1", ConfirmedPrice: 990, ConfirmedAt: confirmedAt,
	}))

	for _, next := range []model.ComponentStatus{
		model.ComponentPending, model.ComponentInProgress, model.ComponentFailed, model.ComponentCancelled, model.ComponentConfirmed,
	} {
		err := store.UpdateComponentStatus(ctx, id, next, model.ComponentPayload{})
		assert.ErrorIs(t, err, model.ErrInvalidTransition, "confirmed -> %s", next)
	}

	component, err := store.GetComponent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.ComponentConfirmed, component.Status)
	assert.Equal(t, "RR-1", component.ProviderReference.String)
	assert.Equal(t, int64(990), component.ConfirmedPrice.Int64)
	assert.True(t, component.ConfirmedAt.Time.Equal(confirmedAt))
	assert.False(t, component.LastError.Valid)
	assert.Equal(t, 2, component.AttemptCount)
}

func TestMemory_CompensateComponent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	components := seed(t, store, "b-1", "u-1", "", model.ComponentFlight, model.ComponentHotel)
	flight, hotel := components[0].ID, components[1].ID

	assert.ErrorIs(t, store.CompensateComponent(ctx, flight, nil), model.ErrInvalidTransition)

	for _, id := range []string{flight, hotel} {
		require.NoError(t, store.UpdateComponentStatus(ctx, id, model.ComponentInProgress, model.ComponentPayload{AttemptCount: 1}))
		require.NoError(t, store.UpdateComponentStatus(ctx, id, model.ComponentConfirmed, model.ComponentPayload{AttemptCount: 1, ProviderReference: "R-" + id}))
	}

	require.NoError(t, store.CompensateComponent(ctx, flight, errors.New("provider down")))
	require.NoError(t, store.CompensateComponent(ctx, hotel, nil))

	got, err := store.GetComponent(ctx, flight)
	require.NoError(t, err)
	assert.Equal(t, model.ComponentConfirmed, got.Status)
	assert.Equal(t, "compensation failed: provider down", got.LastError.String)

	got, err = store.GetComponent(ctx, hotel)
	require.NoError(t, err)
	assert.Equal(t, model.ComponentCancelled, got.Status)
	assert.Equal(t, model.ReasonCancelled, got.LastError.String)

	assert.ErrorIs(t, store.CompensateComponent(ctx, hotel, nil), model.ErrInvalidTransition)
}

func TestMemory_CancelPendingComponent(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	components := seed(t, store, "b-1", "u-1", "", model.ComponentFlight, model.ComponentHotel)
	flight, hotel := components[0].ID, components[1].ID

	require.NoError(t, store.UpdateComponentStatus(ctx, hotel, model.ComponentInProgress, model.ComponentPayload{AttemptCount: 1}))

	require.NoError(t, store.CancelPendingComponent(ctx, flight))
	assert.ErrorIs(t, store.CancelPendingComponent(ctx, flight), model.ErrInvalidTransition)
	assert.ErrorIs(t, store.CancelPendingComponent(ctx, hotel), model.ErrInvalidTransition)
	assert.ErrorIs(t, store.CancelPendingComponent(ctx, "missing"), model.ErrNotFound)

	got, err := store.GetComponent(ctx, flight)
	require.NoError(t, err)
	assert.Equal(t, model.ComponentCancelled, got.Status)
	assert.Equal(t, model.ReasonCancelled, got.LastError.String)
	assert.Zero(t, got.AttemptCount)

	got, err = store.GetComponent(ctx, hotel)
	require.NoError(t, err)
	assert.Equal(t, model.ComponentInProgress, got.Status)
}

func TestMemory_UpdateBookingStatus(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()
	seed(t, store, "b-1", "u-1", "", model.ComponentFlight)

	updated, err := store.UpdateBookingStatus(ctx, "b-1", 1, model.BookingUpdate{Status: model.StatusInProgress})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	_, err = store.UpdateBookingStatus(ctx, "b-1", 1, model.BookingUpdate{Status: model.StatusConfirmed})
	assert.ErrorIs(t, err, model.ErrConflict)

	final, err := store.UpdateBookingStatus(ctx, "b-1", 2, model.BookingUpdate{
		Status: model.StatusConfirmed, TotalCost: 1000, ServiceFee: 50, GrandTotal: 1050,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1050), final.GrandTotal)

	_, err = store.UpdateBookingStatus(ctx, "b-1", 3, model.BookingUpdate{Status: model.StatusCancelled})
	assert.ErrorIs(t, err, model.ErrInvalidTransition)

	inFlight, err := store.ListInFlight(ctx)
	require.NoError(t, err)
	assert.Empty(t, inFlight)
}

func TestMemory_ListBookings(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemory()

	for i := range 5 {
		seed(t, store, fmt.Sprintf("b-%d", i), "u-1", "", model.ComponentFlight)
	}

	seed(t, store, "other", "u-2", "", model.ComponentFlight)

	_, err := store.UpdateBookingStatus(ctx, "b-0", 1, model.BookingUpdate{Status: model.StatusFailed})
	require.NoError(t, err)

	page, total, err := store.ListBookings(ctx, "u-1", gDto.QueryParams{Page: 2, Limit: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Len(t, page, 2)

	failed, total, err := store.ListBookings(ctx, "u-1", gDto.QueryParams{}, model.StatusFailed)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "b-0", failed[0].ID)

	beyond, total, err := store.ListBookings(ctx, "u-1", gDto.QueryParams{Page: 9, Limit: 2}, "")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, beyond)
}
