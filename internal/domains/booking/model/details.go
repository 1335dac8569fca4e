package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
	"tripbook/shared/validator"

	"github.com/jmoiron/sqlx/types"
)

// ComponentDetails is the provider payload of one component. Every variant belongs to
// exactly one ComponentType.
type ComponentDetails interface {
	ComponentType() ComponentType
	Validate() error
}

type FlightDetails struct {
	FlightNumber string    `json:"flight_number" validate:"required,max=16"`
	Origin       string    `json:"origin"        validate:"required,len=3"`
	Destination  string    `json:"destination"   validate:"required,len=3,nefield=Origin"`
	DepartureAt  time.Time `json:"departure_at"  validate:"required"`
	CabinClass   string    `json:"cabin_class"   validate:"omitempty,oneof=economy premium business first"`
	Passengers   int       `json:"passengers"    validate:"gte=1,lte=9"`
}

func (FlightDetails) ComponentType() ComponentType { return ComponentFlight }

func (d FlightDetails) Validate() error { return validator.ValidateStruct(&d) }

type HotelDetails struct {
	HotelName string    `json:"hotel_name" validate:"required,max=200"`
	CheckIn   time.Time `json:"check_in"   validate:"required"`
	CheckOut  time.Time `json:"check_out"  validate:"required,gtfield=CheckIn"`
	RoomType  string    `json:"room_type"  validate:"omitempty,max=50"`
	Guests    int       `json:"guests"     validate:"gte=1,lte=10"`
}

func (HotelDetails) ComponentType() ComponentType { return ComponentHotel }

func (d HotelDetails) Validate() error { return validator.ValidateStruct(&d) }

type CarDetails struct {
	PickupLocation  string    `json:"pickup_location"  validate:"required"`
	DropoffLocation string    `json:"dropoff_location" validate:"required"`
	PickupAt        time.Time `json:"pickup_at"        validate:"required"`
	DropoffAt       time.Time `json:"dropoff_at"       validate:"required,gtfield=PickupAt"`
	VehicleClass    string    `json:"vehicle_class"    validate:"omitempty,max=30"`
}

func (CarDetails) ComponentType() ComponentType { return ComponentCar }

func (d CarDetails) Validate() error { return validator.ValidateStruct(&d) }

type TicketDetails struct {
	EventName string    `json:"event_name" validate:"required,max=200"`
	Venue     string    `json:"venue"      validate:"required"`
	EventAt   time.Time `json:"event_at"   validate:"required"`
	Section   string    `json:"section"    validate:"omitempty"`
	Quantity  int       `json:"quantity"   validate:"gte=1,lte=10"`
}

func (TicketDetails) ComponentType() ComponentType { return ComponentTicket }

func (d TicketDetails) Validate() error { return validator.ValidateStruct(&d) }

// DecodeDetails parses raw into the variant registered for t.
func DecodeDetails(t ComponentType, raw json.RawMessage) (ComponentDetails, error) {
	var (
		details ComponentDetails
		err     error
	)

	switch t {
	case ComponentFlight:
		var d FlightDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case ComponentHotel:
		var d HotelDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case ComponentCar:
		var d CarDetails
		err = json.Unmarshal(raw, &d)
		details = d
	case ComponentTicket:
		var d TicketDetails
		err = json.Unmarshal(raw, &d)
		details = d
	default:
		return nil, fmt.Errorf("%w: type %q", ErrUnknownDetails, t)
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s details: %w", t, err)
	}

	return details, nil
}

type detailsEnvelope struct {
	Type ComponentType   `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Details is the column wrapper persisting a ComponentDetails as {"type":..,"data":..} JSONB.
type Details struct {
	ComponentDetails
}

func (d Details) MarshalJSON() ([]byte, error) {
	if d.ComponentDetails == nil {
		return []byte("null"), nil
	}

	data, err := json.Marshal(d.ComponentDetails)
	if err != nil {
		return nil, fmt.Errorf("encoding details: %w", err)
	}

	return json.Marshal(detailsEnvelope{Type: d.ComponentType(), Data: data}) //nolint:wrapcheck
}

func (d *Details) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.ComponentDetails = nil

		return nil
	}

	var env detailsEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return fmt.Errorf("decoding details envelope: %w", err)
	}

	details, err := DecodeDetails(env.Type, env.Data)
	if err != nil {
		return err
	}

	d.ComponentDetails = details

	return nil
}

// Value implements driver.Valuer.
func (d Details) Value() (driver.Value, error) {
	b, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}

	return types.JSONText(b).Value() //nolint:wrapcheck
}

// Scan implements sql.Scanner.
func (d *Details) Scan(src any) error {
	var raw types.JSONText
	if err := raw.Scan(src); err != nil {
		return fmt.Errorf("scanning details: %w", err)
	}

	return d.UnmarshalJSON(raw)
}
