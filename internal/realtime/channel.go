package realtime

import (
	"context"
	"fmt"
	"log"

	"catalog-chat-service/internal/models"
	"catalog-chat-service/internal/store"
)

// ChannelPublisher publishes room events to the shared realtime channel.
type ChannelPublisher interface {
	PublishMessage(ctx context.Context, roomID string, msg models.Message) error
	PublishClear(ctx context.Context, roomID string) error
	Close() error
}

// ChannelName derives the routing key for a room deterministically from its
// identifier. One channel per room.
func ChannelName(roomID string) string {
	return fmt.Sprintf("chat.%s", store.SanitizeRoomID(roomID))
}

type noopPublisher struct {
	reason string
}

func (noopPublisher) PublishMessage(ctx context.Context, roomID string, msg models.Message) error {
	log.Printf("realtime noop publish channel=%s event=%s id=%s", ChannelName(roomID), models.EventMessage, msg.ID)
	return nil
}

func (noopPublisher) PublishClear(ctx context.Context, roomID string) error {
	log.Printf("realtime noop publish channel=%s event=%s", ChannelName(roomID), models.EventClear)
	return nil
}

func (noopPublisher) Close() error { return nil }

// PublisherMode reports the publisher mode for logging.
func PublisherMode(p ChannelPublisher) string {
	switch p.(type) {
	case *AMQPChannel:
		return "amqp"
	case noopPublisher, *noopPublisher:
		return "noop"
	default:
		return "unknown"
	}
}
