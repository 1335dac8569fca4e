package model

import (
	"database/sql"
	"time"
	"tripbook/shared/model"
)

const (
	TableName           = "trip_bookings"
	ComponentTableName  = "trip_booking_components"
	EntityName          = "booking"
	ComponentEntityName = "booking_component"

	FieldID                = "id"
	FieldUserID            = "user_id"
	FieldTripID            = "trip_id"
	FieldIdempotencyKey    = "idempotency_key"
	FieldStatus            = "status"
	FieldTotalCost         = "total_cost"
	FieldServiceFee        = "service_fee"
	FieldGrandTotal        = "grand_total"
	FieldVersion           = "version"
	FieldBookingID         = "booking_id"
	FieldType              = "type"
	FieldProviderID        = "provider_id"
	FieldConfirmedPrice    = "confirmed_price"
	FieldProviderReference = "provider_reference"
	FieldAttemptCount      = "attempt_count"
	FieldLastError         = "last_error"
	FieldConfirmedAt       = "confirmed_at"
	FieldModifiedAt        = "modified_at"
	FieldModifiedBy        = "modified_by"
	FieldCreatedAt         = "created_at"
)

// SystemActor is written to modified_by for changes made by the engine itself.
const SystemActor = "system"

// Booking is one user's attempt to buy every component of a trip. Amounts are in cents.
type Booking struct {
	ID             string         `db:"id"`
	UserID         string         `db:"user_id"`
	TripID         string         `db:"trip_id"`
	IdempotencyKey sql.NullString `db:"idempotency_key"`
	Status         Status         `db:"status"`
	TotalCost      int64          `db:"total_cost"`
	ServiceFee     int64          `db:"service_fee"`
	GrandTotal     int64          `db:"grand_total"`
	Version        int64          `db:"version"`
	model.Metadata
}

// Component is one flight, hotel, car or ticket inside a booking.
type Component struct {
	ID                string          `db:"id"`
	BookingID         string          `db:"booking_id"`
	Type              ComponentType   `db:"type"`
	ProviderID        string          `db:"provider_id"`
	Price             int64           `db:"price"`
	ConfirmedPrice    sql.NullInt64   `db:"confirmed_price"`
	Details           Details         `db:"details"`
	ProviderReference sql.NullString  `db:"provider_reference"`
	Status            ComponentStatus `db:"status"`
	AttemptCount      int             `db:"attempt_count"`
	LastError         sql.NullString  `db:"last_error"`
	ConfirmedAt       sql.NullTime    `db:"confirmed_at"`
	model.Metadata
}

// Selection is the user's chosen option for one component type.
type Selection struct {
	Type       ComponentType
	ProviderID string
	Price      int64
	Details    ComponentDetails
}

// Snapshot is what a poller sees: the booking and all of its components.
type Snapshot struct {
	Booking    Booking
	Components []Component
}

// ComponentPayload carries the fields written alongside a component status change.
// ProviderReference, ConfirmedPrice and ConfirmedAt are only stored on confirmation.
type ComponentPayload struct {
	AttemptCount      int
	LastError         string
	ProviderReference string
	ConfirmedPrice    int64
	ConfirmedAt       time.Time
}

// BookingUpdate is a recomputed booking status with its totals.
type BookingUpdate struct {
	Status     Status
	TotalCost  int64
	ServiceFee int64
	GrandTotal int64
}

func NullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Statuses returns the component statuses in order.
func (s Snapshot) Statuses() []ComponentStatus {
	statuses := make([]ComponentStatus, len(s.Components))
	for i, c := range s.Components {
		statuses[i] = c.Status
	}

	return statuses
}
