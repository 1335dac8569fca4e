// Package event publishes booking status changes to kafka and archives the final
// itinerary of every settled booking to object storage. Both sinks are best-effort: a
// failure is logged and never affects the booking.
package event

//go:generate go run go.uber.org/mock/mockgen -source=./event.go -destination=../mocks/event_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"time"
	"tripbook/config"
	"tripbook/infras/kafka"
	"tripbook/infras/otel"
	"tripbook/infras/s3"
	"tripbook/internal/domains/booking/model"
	"tripbook/shared/constant"
	"tripbook/shared/timezone"

	"github.com/rs/zerolog/log"
)

const archiveDirectory = "itineraries"

type ComponentState struct {
	ID                string `json:"id"`
	Type              string `json:"type"`
	ProviderID        string `json:"provider_id"`
	Status            string `json:"status"`
	ProviderReference string `json:"provider_reference,omitempty"`
	LastError         string `json:"last_error,omitempty"`
}

// StatusChanged is the kafka payload, keyed by booking id.
type StatusChanged struct {
	BookingID      string           `json:"booking_id"`
	UserID         string           `json:"user_id"`
	TripID         string           `json:"trip_id"`
	Status         string           `json:"status"`
	PreviousStatus string           `json:"previous_status"`
	Version        int64            `json:"version"`
	TotalCost      int64            `json:"total_cost"`
	ServiceFee     int64            `json:"service_fee"`
	GrandTotal     int64            `json:"grand_total"`
	Components     []ComponentState `json:"components"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

func NewStatusChanged(previous model.Status, snapshot model.Snapshot) StatusChanged {
	b := snapshot.Booking

	evt := StatusChanged{
		BookingID:      b.ID,
		UserID:         b.UserID,
		TripID:         b.TripID,
		Status:         string(b.Status),
		PreviousStatus: string(previous),
		Version:        b.Version,
		TotalCost:      b.TotalCost,
		ServiceFee:     b.ServiceFee,
		GrandTotal:     b.GrandTotal,
		Components:     make([]ComponentState, len(snapshot.Components)),
		OccurredAt:     timezone.Now(),
	}

	for i, c := range snapshot.Components {
		evt.Components[i] = ComponentState{
			ID:                c.ID,
			Type:              string(c.Type),
			ProviderID:        c.ProviderID,
			Status:            string(c.Status),
			ProviderReference: c.ProviderReference.String,
			LastError:         c.LastError.String,
		}
	}

	return evt
}

type Notifier interface {
	// BookingChanged is called after every persisted booking status change.
	BookingChanged(ctx context.Context, previous model.Status, snapshot model.Snapshot)
}

type notifierImpl struct {
	kafka kafka.Client
	s3    s3.S3
	cfg   *config.Config
	otel  otel.Otel
}

func New(kafka kafka.Client, s3 s3.S3, cfg *config.Config, otel otel.Otel) Notifier {
	return &notifierImpl{
		kafka: kafka,
		s3:    s3,
		cfg:   cfg,
		otel:  otel,
	}
}

func (n *notifierImpl) BookingChanged(ctx context.Context, previous model.Status, snapshot model.Snapshot) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".BookingChanged")
	defer scope.End()

	evt := NewStatusChanged(previous, snapshot)

	scope.SetAttributes(map[string]any{
		"booking.id":     evt.BookingID,
		"booking.status": evt.Status,
	})

	if n.cfg.Kafka.Enable && n.kafka != nil {
		err := n.kafka.SendMessages(ctx, n.cfg.Kafka.Topics.BookingStatus, kafka.Message{Key: evt.BookingID, Value: evt})
		if err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("booking_id", evt.BookingID).Msg("failed to publish booking status event")
		}
	}

	if snapshot.Booking.Status.IsTerminal() && n.cfg.External.S3.Enable && n.s3 != nil {
		n.archive(ctx, evt)
	}
}

func (n *notifierImpl) archive(ctx context.Context, evt StatusChanged) {
	body, err := json.Marshal(evt)
	if err != nil {
		log.Error().Err(err).Str("booking_id", evt.BookingID).Msg("failed to encode itinerary")

		return
	}

	url, err := n.s3.UploadFileBytes(ctx, n.cfg.External.S3.BucketName, archiveDirectory+"/"+evt.UserID,
		evt.BookingID+".json", constant.ContentTypeJSON, body)
	if err != nil {
		log.Error().Err(err).Str("booking_id", evt.BookingID).Msg("failed to archive itinerary")

		return
	}

	log.Info().Str("booking_id", evt.BookingID).Str("url", url).Msg("itinerary archived")
}

type noop struct{}

// NoOp drops every notification.
func NoOp() Notifier {
	return noop{}
}

func (noop) BookingChanged(context.Context, model.Status, model.Snapshot) {}
