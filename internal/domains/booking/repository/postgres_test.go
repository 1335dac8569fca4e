package repository_test

import (
	"context"
	"testing"
	"tripbook/infras/otel/mocks"
	"tripbook/infras/postgres"
	"tripbook/internal/domains/booking/model"
	"tripbook/internal/domains/booking/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	selectBookingForUpdate   = `SELECT .+ FROM trip_bookings .+ FOR UPDATE`
	selectComponentForUpdate = `SELECT .+ FROM trip_booking_components .+ FOR UPDATE`
)

type sqlFixture struct {
	store   repository.Store
	primary sqlmock.Sqlmock
	replica sqlmock.Sqlmock
}

func newSQLFixture(t *testing.T) sqlFixture {
	t.Helper()

	writeDB, primary, err := sqlmock.New()
	require.NoError(t, err)

	readDB, replica, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, primary.ExpectationsWereMet())
		assert.NoError(t, replica.ExpectationsWereMet())

		_ = writeDB.Close()
		_ = readDB.Close()
	})

	conn := &postgres.Connection{
		Read:  sqlx.NewDb(readDB, "postgres"),
		Write: sqlx.NewDb(writeDB, "postgres"),
	}

	return sqlFixture{store: repository.New(conn, mocks.NewOtel()), primary: primary, replica: replica}
}

func bookingRow(status model.Status, version int64) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "status", "version"}).AddRow("b-1", "u-1", string(status), version)
}

func componentRow(status model.ComponentStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "booking_id", "type", "status", "attempt_count"}).
		AddRow("c-1", "b-1", string(model.ComponentCar), string(status), 1)
}

func TestPostgres_UpdateBookingStatus(t *testing.T) {
	update := model.BookingUpdate{Status: model.StatusConfirmed, TotalCost: 10000, ServiceFee: 500, GrandTotal: 10500}

	tests := []struct {
		name        string
		expect      func(m sqlmock.Sqlmock)
		wantErr     error
		wantVersion int64
	}{
		{
			name: "applied",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectPrepare(selectBookingForUpdate).ExpectQuery().WillReturnRows(bookingRow(model.StatusInProgress, 2))
				m.ExpectExec(`UPDATE trip_bookings SET .+ version = .+ WHERE`).WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectCommit()
			},
			wantVersion: 3,
		},
		{
			name: "stale version",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectPrepare(selectBookingForUpdate).ExpectQuery().WillReturnRows(bookingRow(model.StatusInProgress, 5))
				m.ExpectRollback()
			},
			wantErr: model.ErrConflict,
		},
		{
			name: "row changed under the filter",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectPrepare(selectBookingForUpdate).ExpectQuery().WillReturnRows(bookingRow(model.StatusInProgress, 2))
				m.ExpectExec(`UPDATE trip_bookings SET`).WillReturnResult(sqlmock.NewResult(0, 0))
				m.ExpectRollback()
			},
			wantErr: model.ErrConflict,
		},
		{
			name: "settled booking",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectPrepare(selectBookingForUpdate).ExpectQuery().WillReturnRows(bookingRow(model.StatusFailed, 2))
				m.ExpectRollback()
			},
			wantErr: model.ErrInvalidTransition,
		},
		{
			name: "missing booking",
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectPrepare(selectBookingForUpdate).ExpectQuery().WillReturnRows(sqlmock.NewRows([]string{"id"}))
				m.ExpectRollback()
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSQLFixture(t)
			tt.expect(f.primary)

			updated, err := f.store.UpdateBookingStatus(context.Background(), "b-1", 2, update)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, model.StatusConfirmed, updated.Status)
			assert.Equal(t, tt.wantVersion, updated.Version)
			assert.Equal(t, int64(10500), updated.GrandTotal)
		})
	}
}

func TestPostgres_CreateBookingDuplicateKey(t *testing.T) {
	f := newSQLFixture(t)

	f.primary.ExpectBegin()
	f.primary.ExpectExec(`INSERT INTO trip_bookings`).WillReturnError(&pq.Error{Code: "23505"})
	f.primary.ExpectRollback()

	err := f.store.CreateBookingWithComponents(context.Background(),
		model.Booking{ID: "b-1", UserID: "u-1", TripID: "trip-1", IdempotencyKey: model.NullString("k-1"), Status: model.StatusPending},
		[]model.Component{{ID: "c-1", BookingID: "b-1", Type: model.ComponentCar, Status: model.ComponentPending}},
	)

	assert.ErrorIs(t, err, model.ErrDuplicateKey)
}

func TestPostgres_CreateBookingWithoutKeyKeepsUniqueError(t *testing.T) {
	f := newSQLFixture(t)

	f.primary.ExpectBegin()
	f.primary.ExpectExec(`INSERT INTO trip_bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
	f.primary.ExpectExec(`INSERT INTO trip_booking_components`).WillReturnError(&pq.Error{Code: "23505"})
	f.primary.ExpectRollback()

	err := f.store.CreateBookingWithComponents(context.Background(),
		model.Booking{ID: "b-1", UserID: "u-1", TripID: "trip-1", Status: model.StatusPending},
		[]model.Component{
			{ID: "c-1", BookingID: "b-1", Type: model.ComponentCar, Status: model.ComponentPending},
			{ID: "c-2", BookingID: "b-1", Type: model.ComponentCar, Status: model.ComponentPending},
		},
	)

	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrDuplicateKey)
}

func TestPostgres_ComponentWritesLockTheRow(t *testing.T) {
	tests := []struct {
		name    string
		current model.ComponentStatus
		write   func(store repository.Store) error
		applied bool
	}{
		{
			name:    "in progress to confirmed",
			current: model.ComponentInProgress,
			write: func(store repository.Store) error {
				return store.UpdateComponentStatus(context.Background(), "c-1", model.ComponentConfirmed,
					model.ComponentPayload{AttemptCount: 1, ProviderReference: "rr-1", ConfirmedPrice: 8000})
			},
			applied: true,
		},
		{
			name:    "terminal component is frozen",
			current: model.ComponentFailed,
			write: func(store repository.Store) error {
				return store.UpdateComponentStatus(context.Background(), "c-1", model.ComponentInProgress, model.ComponentPayload{})
			},
		},
		{
			name:    "pending component cancelled",
			current: model.ComponentPending,
			write: func(store repository.Store) error {
				return store.CancelPendingComponent(context.Background(), "c-1")
			},
			applied: true,
		},
		{
			name:    "started component is not cancelled as pending",
			current: model.ComponentInProgress,
			write: func(store repository.Store) error {
				return store.CancelPendingComponent(context.Background(), "c-1")
			},
		},
		{
			name:    "only confirmed components are compensated",
			current: model.ComponentInProgress,
			write: func(store repository.Store) error {
				return store.CompensateComponent(context.Background(), "c-1", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSQLFixture(t)

			f.primary.ExpectBegin()
			f.primary.ExpectPrepare(selectComponentForUpdate).ExpectQuery().WillReturnRows(componentRow(tt.current))

			if tt.applied {
				f.primary.ExpectExec(`UPDATE trip_booking_components SET`).WillReturnResult(sqlmock.NewResult(0, 1))
				f.primary.ExpectCommit()
			} else {
				f.primary.ExpectRollback()
			}

			err := tt.write(f.store)
			if tt.applied {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, model.ErrInvalidTransition)
			}
		})
	}
}

func TestPostgres_FoldReadsComeFromPrimary(t *testing.T) {
	f := newSQLFixture(t)

	f.primary.ExpectPrepare(`SELECT .+ FROM trip_bookings`).ExpectQuery().WillReturnRows(bookingRow(model.StatusInProgress, 2))
	f.primary.ExpectPrepare(`SELECT .+ FROM trip_booking_components`).ExpectQuery().WillReturnRows(componentRow(model.ComponentConfirmed))

	booking, err := f.store.GetBooking(context.Background(), "b-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), booking.Version)

	components, err := f.store.ListComponents(context.Background(), "b-1")
	require.NoError(t, err)
	require.Len(t, components, 1)
	assert.Equal(t, model.ComponentConfirmed, components[0].Status)
}
