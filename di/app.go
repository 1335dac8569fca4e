package di

import (
	"tripbook/config"
	"tripbook/infras/kafka"
	"tripbook/infras/otel"
	"tripbook/internal/domains/booking/service"
	"tripbook/transport/http"
)

// App is everything the process entrypoint starts and stops.
type App struct {
	Config  *config.Config
	HTTP    *http.HTTP
	Booking service.Booking
	Kafka   kafka.Client
	Otel    otel.Otel
}
