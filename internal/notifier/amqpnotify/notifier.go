// Package amqpnotify publishes domain events to a RabbitMQ exchange.
// Delivery is fire-and-forget: a failed publish is logged and swallowed so
// that a broken broker can never fail a financial operation.
package amqpnotify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/nexabank/corebanking/internal/core/ports/services"
	"github.com/nexabank/corebanking/internal/middleware"
)

// AMQPNotifier publishes events to a fanout exchange.
type AMQPNotifier struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

var _ services.Notifier = (*AMQPNotifier)(nil)

// NewAMQPNotifier dials the broker and declares the target exchange.
func NewAMQPNotifier(uri, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"fanout", // kind
		true,     // durable
		false,    // auto-delete
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &AMQPNotifier{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
	}, nil
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() error {
	if err := n.channel.Close(); err != nil {
		return err
	}
	return n.conn.Close()
}

// Notify publishes the event as JSON. Failures are logged, never returned.
func (n *AMQPNotifier) Notify(ctx context.Context, event services.Event) {
	logger := middleware.GetLoggerFromCtx(ctx)

	body, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event for publishing", "eventKind", event.Kind, "error", err)
		return
	}

	err = n.channel.Publish(
		n.exchange, // exchange
		event.Kind, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		})
	if err != nil {
		logger.Error("Failed to publish event", "eventKind", event.Kind, "entityID", event.EntityID, "error", err)
		return
	}

	logger.Debug("Published event", "eventKind", event.Kind, "entityID", event.EntityID)
}

// NoopNotifier discards every event. Used when no broker is configured.
type NoopNotifier struct{}

var _ services.Notifier = (*NoopNotifier)(nil)

// Notify does nothing.
func (NoopNotifier) Notify(ctx context.Context, event services.Event) {
	middleware.GetLoggerFromCtx(ctx).Debug("Event dropped (no notifier configured)", "eventKind", event.Kind, "entityID", event.EntityID)
}
