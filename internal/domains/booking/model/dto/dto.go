package dto

import (
	"encoding/json"
	"fmt"
	"tripbook/internal/domains/booking/model"
	"tripbook/shared"
	gDto "tripbook/shared/dto"
	"tripbook/shared/failure"
)

type SelectionRequest struct {
	Type       model.ComponentType `json:"type"        validate:"required,enum"`
	ProviderID string              `json:"provider_id" validate:"required,max=64"`
	Price      int64               `json:"price"       validate:"gt=0"`
	Details    json.RawMessage     `json:"details"     validate:"required"`
}

type CreateBookingRequest struct {
	TripID         string             `json:"trip_id"         validate:"required,max=64"`
	IdempotencyKey string             `json:"idempotency_key" validate:"omitempty,max=128"`
	Selections     []SelectionRequest `json:"selections"      validate:"required,min=1,max=4,unique=Type,dive"`
}

// ToSelections decodes and validates every details payload as the variant of its declared type.
func (c *CreateBookingRequest) ToSelections() ([]model.Selection, error) {
	selections := make([]model.Selection, len(c.Selections))

	for i, s := range c.Selections {
		details, err := model.DecodeDetails(s.Type, s.Details)
		if err != nil {
			return nil, failure.BadRequestFromString(fmt.Sprintf("selections[%d].details: %v", i, err)) // nolint:wrapcheck
		}

		if err := details.Validate(); err != nil {
			return nil, failure.BadRequestFromString(fmt.Sprintf("selections[%d].details: %v", i, err)) // nolint:wrapcheck
		}

		selections[i] = model.Selection{
			Type:       s.Type,
			ProviderID: s.ProviderID,
			Price:      s.Price,
			Details:    details,
		}
	}

	return selections, nil
}

type CreateBookingResponse struct {
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
}

type ComponentResponse struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	ProviderID        string          `json:"provider_id"`
	Price             int64           `json:"price"`
	ConfirmedPrice    *int64          `json:"confirmed_price,omitempty"`
	ProviderReference string          `json:"provider_reference,omitempty"`
	Status            string          `json:"status"`
	AttemptCount      int             `json:"attempt_count"`
	LastError         string          `json:"last_error,omitempty"`
	ConfirmedAt       string          `json:"confirmed_at,omitempty"`
	Details           json.RawMessage `json:"details"`
}

func (r *ComponentResponse) FromModel(m model.Component) {
	r.ID = m.ID
	r.Type = string(m.Type)
	r.ProviderID = m.ProviderID
	r.Price = m.Price
	r.ProviderReference = m.ProviderReference.String
	r.Status = string(m.Status)
	r.AttemptCount = m.AttemptCount
	r.LastError = m.LastError.String

	if m.ConfirmedPrice.Valid {
		price := m.ConfirmedPrice.Int64
		r.ConfirmedPrice = &price
	}

	if m.ConfirmedAt.Valid {
		r.ConfirmedAt = gDto.FormatTime(m.ConfirmedAt.Time)
	}

	if m.Details.ComponentDetails != nil {
		r.Details, _ = json.Marshal(m.Details.ComponentDetails)
	}
}

type BookingResponse struct {
	ID         string              `json:"id"`
	TripID     string              `json:"trip_id"`
	Status     string              `json:"status"`
	TotalCost  int64               `json:"total_cost"`
	ServiceFee int64               `json:"service_fee"`
	GrandTotal int64               `json:"grand_total"`
	Components []ComponentResponse `json:"components,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.TripID = m.TripID
	r.Status = string(m.Status)
	r.TotalCost = m.TotalCost
	r.ServiceFee = m.ServiceFee
	r.GrandTotal = m.GrandTotal
	r.Metadata.FromModel(m.Metadata)
}

func (r *BookingResponse) FromSnapshot(s model.Snapshot) {
	r.FromModel(s.Booking)

	r.Components = make([]ComponentResponse, len(s.Components))
	for i, c := range s.Components {
		r.Components[i].FromModel(c)
	}
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
