package realtime

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"catalog-chat-service/internal/models"
)

// Sink receives room events decoded off the realtime channel. The websocket
// hub implements it.
type Sink interface {
	BroadcastMessage(roomID string, msg models.Message)
	BroadcastClear(roomID string)
}

// Consumer bridges room events published by other instances into the local
// sink, so every connected client converges regardless of which instance
// accepted the write.
type Consumer struct {
	conn *amqp.Connection
	ch   *amqp.Channel
	sink Sink
}

// NewConsumer binds an exclusive queue to chat.* on the exchange and starts
// forwarding events. Returns nil when the broker is unconfigured; the
// service then runs single-instance.
func NewConsumer(amqpURL, exchange string, sink Sink) *Consumer {
	if amqpURL == "" {
		return nil
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		log.Printf("realtime consumer disabled: %v", err)
		return nil
	}

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("realtime consumer disabled: %v", err)
		_ = conn.Close()
		return nil
	}

	queue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		log.Printf("realtime consumer disabled: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return nil
	}

	if err := ch.QueueBind(queue.Name, "chat.*", exchange, false, nil); err != nil {
		log.Printf("realtime consumer disabled: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return nil
	}

	deliveries, err := ch.Consume(queue.Name, "", true, true, false, false, nil)
	if err != nil {
		log.Printf("realtime consumer disabled: %v", err)
		_ = ch.Close()
		_ = conn.Close()
		return nil
	}

	c := &Consumer{conn: conn, ch: ch, sink: sink}
	go c.run(deliveries)
	log.Printf("realtime consumer bound queue=%s exchange=%s", queue.Name, exchange)
	return c
}

func (c *Consumer) run(deliveries <-chan amqp.Delivery) {
	for d := range deliveries {
		var event models.RoomEvent
		if err := json.Unmarshal(d.Body, &event); err != nil {
			log.Printf("realtime consumer decode failed: %v", err)
			continue
		}

		switch event.Type {
		case models.EventMessage:
			if event.Message != nil {
				c.sink.BroadcastMessage(event.RoomID, *event.Message)
			}
		case models.EventClear:
			c.sink.BroadcastClear(event.RoomID)
		}
	}
}

// Close stops the consumer.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
