package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublish(t *testing.T) {
	ctx := context.Background()
	rmqContainer, cleanup := SetupRabbitMQContainer(ctx, t)
	defer cleanup()

	amqpURI, err := GetAmqpURI(ctx, rmqContainer)
	require.NoError(t, err)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := conn.Channel()
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	queueName := "publish-test"
	_, err = ch.QueueDeclare(queueName, false, false, false, false, nil)
	require.NoError(t, err)

	type TestMsg struct {
		OrderNo string `json:"order_no"`
		UserUID string `json:"user_uid"`
	}

	// Публикация в default exchange: ключ маршрутизации равен имени очереди
	pub := NewPublisher(ch, "")

	t.Run("success publish and consume", func(t *testing.T) {
		msg := TestMsg{OrderNo: "ord-1", UserUID: "user-1"}

		err = pub.Publish(queueName, msg)
		require.NoError(t, err)

		deliveries, err := ch.Consume(queueName, "test-consumer", true, false, false, false, nil)
		require.NoError(t, err)

		select {
		case d := <-deliveries:
			var got TestMsg
			err := json.Unmarshal(d.Body, &got)
			require.NoError(t, err)
			assert.Equal(t, msg, got)
			assert.Equal(t, "application/json", d.ContentType)
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for message")
		}
	})

	t.Run("marshal error", func(t *testing.T) {
		// В json marshal нельзя сериализовать канал
		badMsg := struct {
			Ch chan int `json:"ch"`
		}{
			Ch: make(chan int),
		}

		err := pub.Publish(queueName, badMsg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rabbitmq.Publish")
	})
}

func TestPublish_ToEventsExchange(t *testing.T) {
	ctx := context.Background()
	rmqContainer, cleanup := SetupRabbitMQContainer(ctx, t)
	defer cleanup()

	amqpURI, err := GetAmqpURI(ctx, rmqContainer)
	require.NoError(t, err)

	conn, err := Connect(amqpURI, 3, time.Second)
	require.NoError(t, err)
	defer func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close connection: %v", err)
		}
	}()

	ch, err := SetupChannel(conn, GetEventQueues())
	require.NoError(t, err)
	defer func() {
		if err := ch.Close(); err != nil {
			t.Errorf("failed to close channel: %v", err)
		}
	}()

	pub := NewPublisher(ch, Exchange)

	msg := map[string]any{"order_no": "ord-42", "course_code": "go-101"}
	err = pub.Publish("order.paid", msg)
	require.NoError(t, err)

	deliveries, err := ch.Consume("events.orders.paid", "test-consumer2", true, false, false, false, nil)
	require.NoError(t, err)

	select {
	case d := <-deliveries:
		var got map[string]any
		err := json.Unmarshal(d.Body, &got)
		require.NoError(t, err)
		assert.Equal(t, msg["order_no"], got["order_no"])
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message via exchange")
	}
}
