package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	otelMocks "tripbook/infras/otel/mocks"
	"tripbook/internal/domains/booking/mocks"
	"tripbook/internal/domains/booking/model"
	"tripbook/internal/domains/booking/model/dto"
	"tripbook/internal/handlers/booking"
	"tripbook/shared/constant"
	gDto "tripbook/shared/dto"
	"tripbook/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	userID    = "user-1"
	bookingID = "3f1c9a9e-5b1e-4c61-9d4c-5c2a3e0b8f10"
)

const flightBody = `{
	"trip_id": "trip-9",
	"selections": [{
		"type": "flight",
		"provider_id": "skyair",
		"price": 25000,
		"details": {
			"flight_number": "SA100",
			"origin": "CGK",
			"destination": "DPS",
			"departure_at": "2026-12-01T08:00:00Z",
			"passengers": 1
		}
	}]
}`

func newRouter(t *testing.T, svc *mocks.MockBooking, authenticated bool) http.Handler {
	t.Helper()

	handler := booking.New(svc, otelMocks.NewOtel())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if authenticated {
				req = req.WithContext(context.WithValue(req.Context(), constant.ContextKeyUserID, userID))
			}

			next.ServeHTTP(w, req)
		})
	})
	r.Route("/v1", handler.Router)

	return r
}

func serve(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var body struct {
		Data T `json:"data"`
	}

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body.Data
}

func TestHandler_CreateBooking(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockBooking(ctrl)

		svc.EXPECT().
			CreateBooking(gomock.Any(), userID, "trip-9", gomock.Len(1), "key-1").
			DoAndReturn(func(_ context.Context, _, _ string, selections []model.Selection, _ string) (string, error) {
				assert.Equal(t, model.ComponentFlight, selections[0].Type)
				assert.IsType(t, model.FlightDetails{}, selections[0].Details)

				return bookingID, nil
			})
		svc.EXPECT().GetBookingStatus(gomock.Any(), userID, bookingID).
			Return(model.Snapshot{Booking: model.Booking{ID: bookingID, Status: model.StatusInProgress}}, nil)

		rec := serve(newRouter(t, svc, true), http.MethodPost, "/v1/bookings", flightBody,
			map[string]string{constant.RequestHeaderIdempotencyKey: "key-1"})

		require.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, "/v1/bookings/"+bookingID, rec.Header().Get(constant.RequestHeaderLocation))

		res := decodeData[dto.CreateBookingResponse](t, rec)
		assert.Equal(t, bookingID, res.BookingID)
		assert.Equal(t, string(model.StatusInProgress), res.Status)
	})

	t.Run("header and body keys differ", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockBooking(ctrl)

		body := strings.Replace(flightBody, `"trip_id": "trip-9",`, `"trip_id": "trip-9", "idempotency_key": "key-2",`, 1)

		rec := serve(newRouter(t, svc, true), http.MethodPost, "/v1/bookings", body,
			map[string]string{constant.RequestHeaderIdempotencyKey: "key-1"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockBooking(ctrl)

		rec := serve(newRouter(t, svc, true), http.MethodPost, "/v1/bookings", `{"trip_id":`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("details do not match type", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockBooking(ctrl)

		body := strings.Replace(flightBody, `"type": "flight"`, `"type": "hotel"`, 1)

		rec := serve(newRouter(t, svc, true), http.MethodPost, "/v1/bookings", body, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage unavailable", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockBooking(ctrl)

		svc.EXPECT().CreateBooking(gomock.Any(), userID, "trip-9", gomock.Any(), "").
			Return("", failure.ServiceUnavailable("booking storage is unavailable"))

		rec := serve(newRouter(t, svc, true), http.MethodPost, "/v1/bookings", flightBody, nil)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockBooking(ctrl)

		rec := serve(newRouter(t, svc, false), http.MethodPost, "/v1/bookings", flightBody, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestHandler_GetBookingStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBooking(ctrl)

	snapshot := model.Snapshot{
		Booking: model.Booking{ID: bookingID, TripID: "trip-9", Status: model.StatusConfirmed, TotalCost: 25000, ServiceFee: 1250, GrandTotal: 26250},
		Components: []model.Component{{
			ID:         "c-1",
			BookingID:  bookingID,
			Type:       model.ComponentFlight,
			ProviderID: "skyair",
			Price:      25000,
			Status:     model.ComponentConfirmed,
		}},
	}

	svc.EXPECT().GetBookingStatus(gomock.Any(), userID, bookingID).Return(snapshot, nil)
	svc.EXPECT().GetBookingStatus(gomock.Any(), userID, "missing").Return(model.Snapshot{}, failure.NotFound("booking"))

	router := newRouter(t, svc, true)

	rec := serve(router, http.MethodGet, "/v1/bookings/"+bookingID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeData[dto.BookingResponse](t, rec)
	assert.Equal(t, "confirmed", res.Status)
	assert.Equal(t, int64(26250), res.GrandTotal)
	require.Len(t, res.Components, 1)
	assert.Equal(t, "flight", res.Components[0].Type)

	rec = serve(router, http.MethodGet, "/v1/bookings/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_GetBookings(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBooking(ctrl)

	svc.EXPECT().
		ListBookings(gomock.Any(), userID, gDto.QueryParams{Page: 2, Limit: 5}, model.StatusPartial).
		Return(dto.GetBookingsResponse{TotalData: 6, TotalPage: 2, Bookings: []dto.BookingResponse{{ID: bookingID}}}, nil)

	rec := serve(newRouter(t, svc, true), http.MethodGet, "/v1/bookings?page=2&limit=5&status=partial", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	res := decodeData[dto.GetBookingsResponse](t, rec)
	assert.Equal(t, 6, res.TotalData)
	assert.Len(t, res.Bookings, 1)
}

func TestHandler_CancelBooking(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockBooking(ctrl)

	svc.EXPECT().CancelBooking(gomock.Any(), userID, bookingID).Return(nil).Times(2)

	router := newRouter(t, svc, true)

	for range 2 {
		rec := serve(router, http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", "", nil)
		assert.Equal(t, http.StatusAccepted, rec.Code)
	}
}
