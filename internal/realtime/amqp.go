package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"catalog-chat-service/internal/models"
	"catalog-chat-service/internal/observability"
)

// AMQPChannel publishes room events on a topic exchange, one routing key
// per room.
type AMQPChannel struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewChannelPublisher builds an AMQP publisher or a noop publisher when the
// broker is unconfigured or unreachable. Chat still works without the
// broker, only cross-instance fanout is lost.
func NewChannelPublisher(amqpURL, exchange string) ChannelPublisher {
	if amqpURL == "" {
		log.Printf("realtime channel disabled, using noop: empty amqp url")
		return noopPublisher{reason: "empty amqp url"}
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Printf("realtime channel disabled, using noop: %v", err)
		return noopPublisher{reason: err.Error()}
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("realtime channel disabled, using noop: %v", err)
		_ = conn.Close()
		return noopPublisher{reason: err.Error()}
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		log.Printf("realtime channel disabled, using noop: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return noopPublisher{reason: err.Error()}
	}

	log.Printf("realtime channel connected exchange=%s", exchange)
	return &AMQPChannel{conn: conn, ch: ch, exchange: exchange}
}

// PublishMessage broadcasts one message event on the room's channel.
func (p *AMQPChannel) PublishMessage(ctx context.Context, roomID string, msg models.Message) error {
	return p.publish(ctx, roomID, models.RoomEvent{
		Type:    models.EventMessage,
		RoomID:  roomID,
		Message: &msg,
	})
}

// PublishClear broadcasts the clear event; the payload carries only the
// room identifier.
func (p *AMQPChannel) PublishClear(ctx context.Context, roomID string) error {
	return p.publish(ctx, roomID, models.RoomEvent{
		Type:   models.EventClear,
		RoomID: roomID,
	})
}

func (p *AMQPChannel) publish(ctx context.Context, roomID string, event models.RoomEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, p.exchange, ChannelName(roomID), false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now(),
		Body:        body,
	})
	if err != nil {
		observability.IncAMQPPublishError()
		log.Printf("realtime publish failed channel=%s: %v", ChannelName(roomID), err)
	}
	return err
}

// Close tears the channel and connection down.
func (p *AMQPChannel) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
