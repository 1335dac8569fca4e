package attempt

import (
	"time"
	"tripbook/config"
)

type Config struct {
	MaxAttempts        int
	BaseDelay          time.Duration
	MaxDelay           time.Duration
	ProviderTimeout    time.Duration
	PriceTolerance     int64
	PersistMaxAttempts int
}

func NewConfig(cfg *config.Config) Config {
	return Config{
		MaxAttempts:        max(cfg.Booking.MaxAttempts, 1),
		BaseDelay:          time.Duration(cfg.Booking.BaseDelayMs) * time.Millisecond,
		MaxDelay:           time.Duration(cfg.Booking.MaxDelayMs) * time.Millisecond,
		ProviderTimeout:    time.Duration(cfg.Booking.ProviderTimeoutSeconds) * time.Second,
		PriceTolerance:     cfg.Booking.PriceToleranceCents,
		PersistMaxAttempts: max(cfg.Booking.PersistMaxAttempts, 1),
	}
}
