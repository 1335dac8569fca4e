package router

import (
	_ "tripbook/docs" // swagger spec
	"tripbook/internal/handlers/booking"
	"tripbook/transport/http/middleware"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type DomainHandlers struct {
	Booking booking.Handler
}

type Middlewares struct {
	App  middleware.AppMiddleware
	Auth middleware.Auth
}

type Router struct {
	DomainHandlers DomainHandlers
	Middlewares    Middlewares
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(
		chiMiddleware.RequestID,
		chiMiddleware.Recoverer,
		r.Middlewares.App.Tracing,
		r.Middlewares.App.CORS(),
		r.Middlewares.App.RateLimit(),
	)

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.Middlewares.Auth.Auth)

		r.DomainHandlers.Booking.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, middlewares Middlewares) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Middlewares:    middlewares,
	}
}
