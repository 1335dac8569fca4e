package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"tripbook/config"
	"tripbook/infras/jwt"
	otelMocks "tripbook/infras/otel/mocks"
	"tripbook/internal/domains/booking/mocks"
	bookingHandler "tripbook/internal/handlers/booking"
	cacheMocks "tripbook/shared/cache/mocks"
	"tripbook/shared/constant"
	transport "tripbook/transport/http"
	"tripbook/transport/http/middleware"
	"tripbook/transport/http/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newServer(t *testing.T) *transport.HTTP {
	t.Helper()

	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvDevelopment
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = "0"
	cfg.Server.Shutdown.CleanupPeriodSeconds = 1
	cfg.JWT.AccessSecret = "secret"

	otel := otelMocks.NewOtel()

	r := router.New(
		router.DomainHandlers{Booking: bookingHandler.New(mocks.NewMockBooking(ctrl), otel)},
		router.Middlewares{
			App:  middleware.NewAppMiddleware(otel, cfg, cacheMocks.NewMockRedisCache(ctrl)),
			Auth: middleware.NewAuthMiddleware(jwt.New(cfg), otel),
		},
	)

	return transport.New(cfg, r)
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHTTP_HealthBeforeServe(t *testing.T) {
	server := newServer(t)

	assert.Equal(t, transport.ServerStateStarting, server.State())
	assert.Equal(t, http.StatusServiceUnavailable, get(server, "/health").Code)
}

func TestHTTP_BookingRoutesRequireToken(t *testing.T) {
	server := newServer(t)

	rec := get(server, "/v1/bookings")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(constant.RequestHeaderContentType))
}

func TestHTTP_ServeAndShutdown(t *testing.T) {
	server := newServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- server.Serve(ctx) }()

	require.Eventually(t, func() bool {
		return server.State() == transport.ServerStateReady
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, http.StatusOK, get(server, "/health").Code)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.Equal(t, transport.ServerStateInCleanupPeriod, server.State())
}
