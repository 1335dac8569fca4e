package repository

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"tripbook/internal/domains/booking/model"
	gDto "tripbook/shared/dto"
	"tripbook/shared/timezone"
)

type memoryStore struct {
	mu         sync.RWMutex
	bookings   map[string]model.Booking
	components map[string]model.Component
	byBooking  map[string][]string
	idemKeys   map[string]string
}

// NewMemory returns a Store kept in process memory. It enforces the same transition,
// version and uniqueness rules as the postgres store.
func NewMemory() Store {
	return &memoryStore{
		bookings:   map[string]model.Booking{},
		components: map[string]model.Component{},
		byBooking:  map[string][]string{},
		idemKeys:   map[string]string{},
	}
}

func idemIndex(userID, key string) string {
	return userID + "\x00" + key
}

func (m *memoryStore) CreateBookingWithComponents(_ context.Context, booking model.Booking, components []model.Component) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.bookings[booking.ID]; exists {
		return fmt.Errorf("booking %s already exists", booking.ID)
	}

	if booking.IdempotencyKey.Valid {
		if _, exists := m.idemKeys[idemIndex(booking.UserID, booking.IdempotencyKey.String)]; exists {
			return model.ErrDuplicateKey
		}
	}

	seen := map[model.ComponentType]bool{}
	for _, c := range components {
		if seen[c.Type] {
			return fmt.Errorf("duplicate component type %s", c.Type)
		}

		seen[c.Type] = true
	}

	if booking.Version == 0 {
		booking.Version = 1
	}

	m.bookings[booking.ID] = booking

	if booking.IdempotencyKey.Valid {
		m.idemKeys[idemIndex(booking.UserID, booking.IdempotencyKey.String)] = booking.ID
	}

	ids := make([]string, 0, len(components))
	for _, c := range components {
		m.components[c.ID] = c
		ids = append(ids, c.ID)
	}

	m.byBooking[booking.ID] = ids

	return nil
}

func (m *memoryStore) FindByIdempotencyKey(_ context.Context, userID, key string) (model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.idemKeys[idemIndex(userID, key)]
	if !ok {
		return model.Booking{}, model.ErrNotFound
	}

	return m.bookings[id], nil
}

func (m *memoryStore) GetBooking(_ context.Context, bookingID string) (model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	booking, ok := m.bookings[bookingID]
	if !ok {
		return model.Booking{}, model.ErrNotFound
	}

	return booking, nil
}

func (m *memoryStore) ListBookings(_ context.Context, userID string, params gDto.QueryParams, status model.Status) ([]model.Booking, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []model.Booking{}

	for _, b := range m.bookings {
		if b.UserID != userID || (status != "" && b.Status != status) {
			continue
		}

		matched = append(matched, b)
	}

	sort.Slice(matched, func(i, j int) bool {
		if params.SortDir == gDto.SortDirAsc {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}

		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	if params.Limit > 0 {
		start := max(params.Page-1, 0) * params.Limit
		if start >= total {
			return []model.Booking{}, total, nil
		}

		matched = matched[start:min(start+params.Limit, total)]
	}

	return matched, total, nil
}

func (m *memoryStore) ListInFlight(_ context.Context) ([]model.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inFlight := []model.Booking{}

	for _, b := range m.bookings {
		if !b.Status.IsTerminal() {
			inFlight = append(inFlight, b)
		}
	}

	sort.Slice(inFlight, func(i, j int) bool {
		return inFlight[i].CreatedAt.Before(inFlight[j].CreatedAt)
	})

	return inFlight, nil
}

func (m *memoryStore) UpdateBookingStatus(_ context.Context, bookingID string, expectedVersion int64, update model.BookingUpdate) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[bookingID]
	if !ok {
		return model.Booking{}, model.ErrNotFound
	}

	if booking.Version != expectedVersion {
		return model.Booking{}, fmt.Errorf("%w: booking %s at version %d, expected %d", model.ErrConflict, bookingID, booking.Version, expectedVersion)
	}

	if !booking.Status.CanTransition(update.Status) {
		return model.Booking{}, fmt.Errorf("%w: booking %s -> %s", model.ErrInvalidTransition, booking.Status, update.Status)
	}

	booking.Status = update.Status
	booking.TotalCost = update.TotalCost
	booking.ServiceFee = update.ServiceFee
	booking.GrandTotal = update.GrandTotal
	booking.Version++
	booking.ModifiedAt = timezone.Now()
	booking.ModifiedBy = model.SystemActor

	m.bookings[bookingID] = booking

	return booking, nil
}

func (m *memoryStore) GetComponent(_ context.Context, componentID string) (model.Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	component, ok := m.components[componentID]
	if !ok {
		return model.Component{}, model.ErrNotFound
	}

	return component, nil
}

func (m *memoryStore) ListComponents(_ context.Context, bookingID string) ([]model.Component, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids, ok := m.byBooking[bookingID]
	if !ok {
		return nil, model.ErrNotFound
	}

	components := make([]model.Component, 0, len(ids))
	for _, id := range ids {
		components = append(components, m.components[id])
	}

	slices.SortFunc(components, compareComponents)

	return components, nil
}

func (m *memoryStore) UpdateComponentStatus(_ context.Context, componentID string, status model.ComponentStatus, payload model.ComponentPayload) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	component, ok := m.components[componentID]
	if !ok {
		return model.ErrNotFound
	}

	if !component.Status.CanTransition(status) {
		return fmt.Errorf("%w: component %s %s -> %s", model.ErrInvalidTransition, componentID, component.Status, status)
	}

	m.components[componentID] = applyComponentUpdate(component, status, payload)

	return nil
}

func (m *memoryStore) CompensateComponent(_ context.Context, componentID string, cancelErr error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	component, ok := m.components[componentID]
	if !ok {
		return model.ErrNotFound
	}

	if component.Status != model.ComponentConfirmed {
		return fmt.Errorf("%w: component %s is %s, only confirmed components are compensated", model.ErrInvalidTransition, componentID, component.Status)
	}

	m.components[componentID] = applyCompensation(component, cancelErr)

	return nil
}

func (m *memoryStore) CancelPendingComponent(_ context.Context, componentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	component, ok := m.components[componentID]
	if !ok {
		return model.ErrNotFound
	}

	if component.Status != model.ComponentPending {
		return fmt.Errorf("%w: component %s is %s, not pending", model.ErrInvalidTransition, componentID, component.Status)
	}

	m.components[componentID] = applyComponentUpdate(component, model.ComponentCancelled, model.ComponentPayload{
		AttemptCount: component.AttemptCount,
		LastError:    model.ReasonCancelled,
	})

	return nil
}
