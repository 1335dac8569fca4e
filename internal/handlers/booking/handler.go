package booking

import (
	"net/http"
	"strings"
	"tripbook/infras/otel"
	"tripbook/internal/domains/booking/model"
	"tripbook/internal/domains/booking/model/dto"
	"tripbook/internal/domains/booking/service"
	"tripbook/shared/constant"
	gDto "tripbook/shared/dto"
	"tripbook/shared/failure"
	"tripbook/shared/validator"
	"tripbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/{id}", handler.GetBookingStatus)
		routerGroup.Post("/{id}/cancel", handler.CancelBooking)
	})
}

func userFromContext(r *http.Request) (string, error) {
	userID, ok := r.Context().Value(constant.ContextKeyUserID).(string)
	if !ok || userID == "" {
		return "", failure.Unauthorized("unauthorized") // nolint:wrapcheck
	}

	return userID, nil
}

// CreateBooking accepts a trip booking and starts booking its components in the background.
// @Summary Create a trip booking
// @Description Persists the booking and returns its id at once. Poll GET /v1/bookings/{id} for progress.
// @Description The idempotency key may be sent as the Idempotency-Key header or in the body.
// @Tags Booking
// @Accept json
// @Produce json
// @Param Idempotency-Key header string false "Idempotency key"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 202 {object} response.Data[dto.CreateBookingResponse]
// @Header 202 {string} Location "Booking status URL"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	userID, err := userFromContext(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	headerKey := r.Header.Get(constant.RequestHeaderIdempotencyKey)
	req := dto.CreateBookingRequest{IdempotencyKey: headerKey}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if headerKey != "" && req.IdempotencyKey != headerKey {
		err := failure.BadRequestFromString("idempotency key in header and body differ")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	selections, err := req.ToSelections()
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	bookingID, err := handler.service.CreateBooking(ctx, userID, req.TripID, selections, req.IdempotencyKey)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", userID).Msg("failed to create booking")

		response.WithError(w, err)

		return
	}

	res := dto.CreateBookingResponse{BookingID: bookingID, Status: string(model.StatusPending)}

	// a replayed key may point at a booking that already moved on
	if snapshot, err := handler.service.GetBookingStatus(ctx, userID, bookingID); err == nil {
		res.Status = string(snapshot.Booking.Status)
	}

	scope.AddEvent("Booking accepted " + bookingID)

	response.WithAccepted(w, strings.TrimSuffix(r.URL.Path, "/")+"/"+bookingID, res)
}

// GetBookings lists the caller's bookings.
// @Summary List my bookings
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status (pending, in_progress, partial, confirmed, failed, cancelling, cancelled)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	userID, err := userFromContext(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	status := model.Status(r.URL.Query().Get(constant.RequestParamStatus))

	bookings, err := handler.service.ListBookings(ctx, userID, queryParams, status)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("user_id", userID).Msg("failed to list bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingStatus returns the booking with every component. Clients poll it every few seconds.
// @Summary Get booking status
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingStatus")
	defer scope.End()

	userID, err := userFromContext(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	snapshot, err := handler.service.GetBookingStatus(ctx, userID, id)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	res := dto.BookingResponse{}
	res.FromSnapshot(snapshot)

	response.WithJSON(w, http.StatusOK, res)
}

// CancelBooking asks for the booking to be cancelled. Repeating it is harmless.
// @Summary Cancel a booking
// @Description Stops outstanding attempts and releases confirmed components. Settled bookings are left as they are.
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 202 {object} response.Message
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelBooking")
	defer scope.End()

	userID, err := userFromContext(r)
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.CancelBooking(ctx, userID, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("booking_id", id).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking cancellation requested by user " + userID)

	response.WithMessage(w, http.StatusAccepted, "Booking cancellation requested")
}
