//go:build wireinject
// +build wireinject

package di

import (
	"tripbook/config"
	"tripbook/infras/jwt"
	"tripbook/infras/kafka"
	"tripbook/infras/otel"
	"tripbook/infras/postgres"
	"tripbook/infras/redis"
	"tripbook/infras/s3"
	"tripbook/internal/domains/booking/cancellation"
	"tripbook/internal/domains/booking/event"
	bookingRepository "tripbook/internal/domains/booking/repository"
	bookingService "tripbook/internal/domains/booking/service"
	"tripbook/internal/domains/provider"
	bookingHandler "tripbook/internal/handlers/booking"
	"tripbook/shared/cache"
	"tripbook/transport/http"
	"tripbook/transport/http/middleware"
	"tripbook/transport/http/router"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
	wire.Struct(new(router.Middlewares), "*"),
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	wire.Bind(new(cancellation.StatusReader), new(bookingRepository.Store)),
	cancellation.New,
	event.New,
	provider.NewStubRegistry,
	bookingService.New,
)

var domains = wire.NewSet(
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	router.New,
)

func InitializeService() (*App, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		wire.Struct(new(App), "*"),
	)

	return nil, nil, nil
}
