package provider

//go:generate go run go.uber.org/mock/mockgen -source=./gateway.go -destination=./mocks/gateway_mock.go -package=mocks

import (
	"context"
	"tripbook/internal/domains/booking/model"
)

// BookRequest is one provider call for one component. AttemptKey stays the same across
// retries of the same component so providers can deduplicate.
type BookRequest struct {
	AttemptKey string
	BookingID  string
	Type       model.ComponentType
	Price      int64
	Details    model.ComponentDetails
}

type BookResult struct {
	Reference      string
	PriceConfirmed int64
}

// Gateway is the engine's only view of an external flight, hotel, car or ticket provider.
type Gateway interface {
	ID() string
	Serves(componentType model.ComponentType) bool
	Book(ctx context.Context, req BookRequest) (BookResult, error)
	Cancel(ctx context.Context, reference string) error
}
