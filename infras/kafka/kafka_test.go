package kafka_test

import (
	"context"
	"testing"
	"tripbook/config"
	"tripbook/infras/kafka"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessage_ToKafkaMessage(t *testing.T) {
	msg := kafka.Message{Key: "b-1", Value: map[string]string{"status": "confirmed"}}

	out, err := msg.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("b-1"), out.Key)
	assert.JSONEq(t, `{"status":"confirmed"}`, string(out.Value))

	_, err = (&kafka.Message{Key: "bad", Value: make(chan int)}).ToKafkaMessage()
	require.Error(t, err)
}

func TestClient_SendMessagesValidation(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"127.0.0.1:1"}

	client := kafka.New(cfg)

	err := client.SendMessages(context.Background(), "", kafka.Message{Key: "k", Value: 1})
	require.Error(t, err)

	err = client.SendMessages(context.Background(), "booking.status", kafka.Message{Key: "k", Value: make(chan int)})
	require.Error(t, err)

	assert.NoError(t, client.Close())
}
