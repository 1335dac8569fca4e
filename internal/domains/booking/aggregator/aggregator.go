// Package aggregator derives a booking's overall status and totals from its components.
// Both functions are pure: the same component set gives the same answer in any order.
package aggregator

import "tripbook/internal/domains/booking/model"

const basisPointsDivisor = 10_000

// Aggregate folds component statuses into a booking status. cancelling is true once
// CancelBooking has been accepted for the booking.
func Aggregate(statuses []model.ComponentStatus, cancelling bool) model.Status {
	var (
		started     bool
		nonTerminal bool
		confirmed   int
	)

	for _, status := range statuses {
		switch {
		case !status.IsTerminal():
			nonTerminal = true
			if status == model.ComponentInProgress {
				started = true
			}
		case status == model.ComponentConfirmed:
			started = true
			confirmed++
		default:
			started = true
		}
	}

	if cancelling {
		if nonTerminal {
			return model.StatusCancelling
		}

		return model.StatusCancelled
	}

	if nonTerminal {
		if started {
			return model.StatusInProgress
		}

		return model.StatusPending
	}

	switch confirmed {
	case 0:
		return model.StatusFailed
	case len(statuses):
		return model.StatusConfirmed
	default:
		return model.StatusPartial
	}
}

// Totals sums the confirmed component prices and applies the service fee in basis points.
func Totals(components []model.Component, feeBasisPoints int64) model.BookingUpdate {
	var total int64

	for _, c := range components {
		if c.Status != model.ComponentConfirmed {
			continue
		}

		if c.ConfirmedPrice.Valid {
			total += c.ConfirmedPrice.Int64
		} else {
			total += c.Price
		}
	}

	fee := total * feeBasisPoints / basisPointsDivisor

	return model.BookingUpdate{
		TotalCost:  total,
		ServiceFee: fee,
		GrandTotal: total + fee,
	}
}

// Recompute returns the status and totals for a booking snapshot.
func Recompute(components []model.Component, cancelling bool, feeBasisPoints int64) model.BookingUpdate {
	update := Totals(components, feeBasisPoints)

	statuses := make([]model.ComponentStatus, len(components))
	for i, c := range components {
		statuses[i] = c.Status
	}

	update.Status = Aggregate(statuses, cancelling)

	return update
}
