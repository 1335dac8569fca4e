package model

// Status is the overall state of a booking.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusPartial    Status = "partial"
	StatusConfirmed  Status = "confirmed"
	StatusFailed     Status = "failed"
	StatusCancelling Status = "cancelling"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusPartial, StatusConfirmed,
		StatusFailed, StatusCancelling, StatusCancelled:
		return true
	}

	return false
}

// IsTerminal reports whether no further automatic transition happens from s.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusPartial, StatusConfirmed, StatusFailed, StatusCancelled:
		return true
	}

	return false
}

// CanTransition guards booking writes: terminal bookings are frozen and a
// cancelling booking may only settle as cancelled.
func (s Status) CanTransition(to Status) bool {
	if !to.IsValid() || s.IsTerminal() {
		return false
	}

	if s == StatusCancelling {
		return to == StatusCancelling || to == StatusCancelled
	}

	return true
}

// NonTerminalStatuses lists the booking statuses that still have work pending.
func NonTerminalStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCancelling}
}

// ComponentStatus is the state of a single booking component.
type ComponentStatus string

const (
	ComponentPending    ComponentStatus = "pending"
	ComponentInProgress ComponentStatus = "in_progress"
	ComponentConfirmed  ComponentStatus = "confirmed"
	ComponentFailed     ComponentStatus = "failed"
	ComponentCancelled  ComponentStatus = "cancelled"
)

func (s ComponentStatus) IsValid() bool {
	switch s {
	case ComponentPending, ComponentInProgress, ComponentConfirmed, ComponentFailed, ComponentCancelled:
		return true
	}

	return false
}

func (s ComponentStatus) IsTerminal() bool {
	return s == ComponentConfirmed || s == ComponentFailed || s == ComponentCancelled
}

// CanTransition reports whether an attempt may move a component from s to next.
// in_progress -> in_progress records retry bookkeeping. Nothing leaves a terminal status
// here; compensation of a confirmed component has its own store operation.
func (s ComponentStatus) CanTransition(next ComponentStatus) bool {
	switch s {
	case ComponentPending:
		return next == ComponentInProgress || next == ComponentFailed || next == ComponentCancelled
	case ComponentInProgress:
		return next == ComponentInProgress || next.IsTerminal()
	default:
		return false
	}
}

// ComponentType is one of the four bookable trip parts.
type ComponentType string

const (
	ComponentFlight ComponentType = "flight"
	ComponentHotel  ComponentType = "hotel"
	ComponentCar    ComponentType = "car"
	ComponentTicket ComponentType = "ticket"
)

const MaxComponents = 4

func (t ComponentType) IsValid() bool {
	switch t {
	case ComponentFlight, ComponentHotel, ComponentCar, ComponentTicket:
		return true
	}

	return false
}

func ComponentTypes() []ComponentType {
	return []ComponentType{ComponentFlight, ComponentHotel, ComponentCar, ComponentTicket}
}
