package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"tripbook/internal/domains/booking/model"
	gDto "tripbook/shared/dto"
)

// Store is the engine's only access to durable booking state. Every write has reached
// storage when it returns nil.
type Store interface {
	// CreateBookingWithComponents persists the booking and all of its components atomically.
	// A (user, idempotency key) collision returns model.ErrDuplicateKey and persists nothing.
	CreateBookingWithComponents(ctx context.Context, booking model.Booking, components []model.Component) error
	FindByIdempotencyKey(ctx context.Context, userID, key string) (model.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (model.Booking, error)
	ListBookings(ctx context.Context, userID string, params gDto.QueryParams, status model.Status) ([]model.Booking, int, error)
	// ListInFlight returns bookings that still have work pending.
	ListInFlight(ctx context.Context) ([]model.Booking, error)
	// UpdateBookingStatus applies update when the stored version equals expectedVersion and
	// returns the new row. A stale version yields model.ErrConflict.
	UpdateBookingStatus(ctx context.Context, bookingID string, expectedVersion int64, update model.BookingUpdate) (model.Booking, error)

	GetComponent(ctx context.Context, componentID string) (model.Component, error)
	ListComponents(ctx context.Context, bookingID string) ([]model.Component, error)
	// UpdateComponentStatus rejects any write whose transition CanTransition forbids,
	// in particular every write from a terminal status, with model.ErrInvalidTransition.
	UpdateComponentStatus(ctx context.Context, componentID string, status model.ComponentStatus, payload model.ComponentPayload) error
	// CompensateComponent records the outcome of cancelling a confirmed component at its
	// provider: cancelled when cancelErr is nil, otherwise it stays confirmed with the error kept.
	CompensateComponent(ctx context.Context, componentID string, cancelErr error) error
	// CancelPendingComponent cancels a component no attempt has started. Any other status
	// yields model.ErrInvalidTransition.
	CancelPendingComponent(ctx context.Context, componentID string) error
}
