package rabbitmq_test

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"cafepos/internal/logger"
	"cafepos/pkg/rabbitmq"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := rabbitmq.NewMessage("order.paid", []byte(`{"order_id":"o-1"}`), at)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "order.paid", msg.Type)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, at, msg.Timestamp)
	assert.JSONEq(t, `{"order_id":"o-1"}`, string(msg.Body))
}

func TestPublishAndConsume(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set")
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: url, Queue: "cafepos_test_events"}, logger.Nop())
	require.NoError(t, err)
	defer client.Close()

	received := make(chan amqp.Delivery, 1)
	require.NoError(t, client.ConsumeOrderEvents(func(msg amqp.Delivery) error {
		received <- msg
		return nil
	}))
	require.NoError(t, client.Publish("order.created", map[string]string{"order_id": "o-42"}))

	select {
	case msg := <-received:
		assert.Equal(t, "order.created", msg.Type)
		var body map[string]string
		require.NoError(t, json.Unmarshal(msg.Body, &body))
		assert.Equal(t, "o-42", body["order_id"])
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
