package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"tripbook/config"
	"tripbook/infras/kafka"
	kafkaMocks "tripbook/infras/kafka/mocks"
	otelMocks "tripbook/infras/otel/mocks"
	s3Mocks "tripbook/infras/s3/mocks"
	"tripbook/internal/domains/booking/event"
	"tripbook/internal/domains/booking/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func snapshot(status model.Status) model.Snapshot {
	return model.Snapshot{
		Booking: model.Booking{
			ID:         "b-1",
			UserID:     "u-1",
			TripID:     "trip-1",
			Status:     status,
			Version:    4,
			TotalCost:  20000,
			ServiceFee: 1000,
			GrandTotal: 21000,
		},
		Components: []model.Component{
			{ID: "c-1", Type: model.ComponentHotel, ProviderID: "staywell", Status: model.ComponentConfirmed, ProviderReference: model.NullString("SW-1")},
			{ID: "c-2", Type: model.ComponentFlight, ProviderID: "skyjet", Status: model.ComponentInProgress, LastError: model.NullString("timeout")},
		},
	}
}

func newConfig(kafkaOn, s3On bool) *config.Config {
	cfg := &config.Config{}
	cfg.Kafka.Enable = kafkaOn
	cfg.Kafka.Topics.BookingStatus = "booking.status"
	cfg.External.S3.Enable = s3On
	cfg.External.S3.BucketName = "archive"

	return cfg
}

func TestNewStatusChanged(t *testing.T) {
	evt := event.NewStatusChanged(model.StatusPending, snapshot(model.StatusInProgress))

	assert.Equal(t, "b-1", evt.BookingID)
	assert.Equal(t, "in_progress", evt.Status)
	assert.Equal(t, "pending", evt.PreviousStatus)
	assert.Equal(t, int64(21000), evt.GrandTotal)
	require.Len(t, evt.Components, 2)
	assert.Equal(t, "SW-1", evt.Components[0].ProviderReference)
	assert.Equal(t, "timeout", evt.Components[1].LastError)
	assert.False(t, evt.OccurredAt.IsZero())
}

func TestNotifier_BookingChanged(t *testing.T) {
	tests := []struct {
		name    string
		kafkaOn bool
		s3On    bool
		status  model.Status
		setup   func(k *kafkaMocks.MockClient, s *s3Mocks.MockS3)
	}{
		{
			name:    "publishes non-terminal change without archiving",
			kafkaOn: true,
			s3On:    true,
			status:  model.StatusInProgress,
			setup: func(k *kafkaMocks.MockClient, _ *s3Mocks.MockS3) {
				k.EXPECT().SendMessages(gomock.Any(), "booking.status", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, msgs ...kafka.Message) error {
						require.Len(t, msgs, 1)
						assert.Equal(t, "b-1", msgs[0].Key)
						assert.Equal(t, "in_progress", msgs[0].Value.(event.StatusChanged).Status)

						return nil
					})
			},
		},
		{
			name:    "archives terminal booking",
			kafkaOn: true,
			s3On:    true,
			status:  model.StatusPartial,
			setup: func(k *kafkaMocks.MockClient, s *s3Mocks.MockS3) {
				k.EXPECT().SendMessages(gomock.Any(), "booking.status", gomock.Any()).Return(nil)
				s.EXPECT().UploadFileBytes(gomock.Any(), "archive", "itineraries/u-1", "b-1.json", "application/json", gomock.Any()).
					DoAndReturn(func(_ context.Context, _, _, _, _ string, body []byte) (string, error) {
						var evt event.StatusChanged
						require.NoError(t, json.Unmarshal(body, &evt))
						assert.Equal(t, "partial", evt.Status)

						return "s3://archive/itineraries/u-1/b-1.json", nil
					})
			},
		},
		{
			name:    "sink failures are swallowed",
			kafkaOn: true,
			s3On:    true,
			status:  model.StatusFailed,
			setup: func(k *kafkaMocks.MockClient, s *s3Mocks.MockS3) {
				k.EXPECT().SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
				s.EXPECT().UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("bucket missing"))
			},
		},
		{
			name:   "disabled sinks are not called",
			status: model.StatusConfirmed,
			setup:  func(_ *kafkaMocks.MockClient, _ *s3Mocks.MockS3) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			k := kafkaMocks.NewMockClient(ctrl)
			s := s3Mocks.NewMockS3(ctrl)
			tt.setup(k, s)

			n := event.New(k, s, newConfig(tt.kafkaOn, tt.s3On), otelMocks.NewOtel())
			n.BookingChanged(context.Background(), model.StatusInProgress, snapshot(tt.status))
		})
	}
}

func TestNoOp(t *testing.T) {
	assert.NotPanics(t, func() {
		event.NoOp().BookingChanged(context.Background(), model.StatusPending, snapshot(model.StatusConfirmed))
	})
}
