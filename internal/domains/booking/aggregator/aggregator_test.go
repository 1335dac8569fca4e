package aggregator_test

import (
	"database/sql"
	"math/rand/v2"
	"testing"
	"tripbook/internal/domains/booking/aggregator"
	"tripbook/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []model.ComponentStatus
		cancelling bool
		want       model.Status
	}{
		{
			name:     "nothing started",
			statuses: []model.ComponentStatus{model.ComponentPending, model.ComponentPending},
			want:     model.StatusPending,
		},
		{
			name:     "one in progress",
			statuses: []model.ComponentStatus{model.ComponentPending, model.ComponentInProgress},
			want:     model.StatusInProgress,
		},
		{
			name:     "one finished one pending",
			statuses: []model.ComponentStatus{model.ComponentConfirmed, model.ComponentPending},
			want:     model.StatusInProgress,
		},
		{
			name:     "all confirmed",
			statuses: []model.ComponentStatus{model.ComponentConfirmed, model.ComponentConfirmed},
			want:     model.StatusConfirmed,
		},
		{
			name:     "all failed",
			statuses: []model.ComponentStatus{model.ComponentFailed, model.ComponentFailed},
			want:     model.StatusFailed,
		},
		{
			name:     "failed and cancelled",
			statuses: []model.ComponentStatus{model.ComponentFailed, model.ComponentCancelled},
			want:     model.StatusFailed,
		},
		{
			name:     "mixed",
			statuses: []model.ComponentStatus{model.ComponentConfirmed, model.ComponentFailed},
			want:     model.StatusPartial,
		},
		{
			name:       "cancelling with work left",
			statuses:   []model.ComponentStatus{model.ComponentConfirmed, model.ComponentInProgress},
			cancelling: true,
			want:       model.StatusCancelling,
		},
		{
			name:       "cancelling settled",
			statuses:   []model.ComponentStatus{model.ComponentCancelled, model.ComponentFailed},
			cancelling: true,
			want:       model.StatusCancelled,
		},
		{
			name:     "no components",
			statuses: nil,
			want:     model.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, aggregator.Aggregate(tt.statuses, tt.cancelling))
		})
	}
}

// Every arrival order of the same outcomes must settle on the same status, and every
// intermediate state must be non-terminal.
func TestAggregate_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	outcomes := []model.ComponentStatus{model.ComponentConfirmed, model.ComponentFailed}

	for run := range 500 {
		size := 1 + rng.IntN(model.MaxComponents)

		final := make([]model.ComponentStatus, size)
		for i := range final {
			final[i] = outcomes[rng.IntN(len(outcomes))]
		}

		expected := aggregator.Aggregate(final, false)

		for range 10 {
			current := make([]model.ComponentStatus, size)
			for i := range current {
				current[i] = model.ComponentInProgress
			}

			for step, idx := range rng.Perm(size) {
				current[idx] = final[idx]
				got := aggregator.Aggregate(current, false)

				if step < size-1 {
					assert.False(t, got.IsTerminal(), "run %d: intermediate status %s is terminal", run, got)
				} else {
					assert.Equal(t, expected, got, "run %d: order-dependent result", run)
				}
			}
		}
	}
}

func TestTotals(t *testing.T) {
	components := []model.Component{
		{Status: model.ComponentConfirmed, Price: 20000, ConfirmedPrice: sql.NullInt64{Int64: 20000, Valid: true}},
		{Status: model.ComponentConfirmed, Price: 15000},
		{Status: model.ComponentFailed, Price: 10000},
		{Status: model.ComponentCancelled, Price: 5000},
	}

	got := aggregator.Totals(components, 500)

	assert.Equal(t, int64(35000), got.TotalCost)
	assert.Equal(t, int64(1750), got.ServiceFee)
	assert.Equal(t, int64(36750), got.GrandTotal)
}

func TestRecompute(t *testing.T) {
	components := []model.Component{
		{Status: model.ComponentConfirmed, Price: 20000, ConfirmedPrice: sql.NullInt64{Int64: 19900, Valid: true}},
		{Status: model.ComponentFailed, Price: 10000},
	}

	got := aggregator.Recompute(components, false, 0)

	assert.Equal(t, model.StatusPartial, got.Status)
	assert.Equal(t, int64(19900), got.TotalCost)
	assert.Equal(t, got.TotalCost, got.GrandTotal)
}
