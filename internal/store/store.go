package store

import (
	"context"
	"strings"
	"time"

	"catalog-chat-service/internal/models"
)

// DefaultRoomID is used when callers pass a blank room identifier, so stray
// requests cannot fragment the room namespace.
const DefaultRoomID = "default"

// RoomStore is the key-value collaborator holding one message list per room
// plus the active-participant set. Entries expire after a TTL of no write
// or refresh activity; the TTL is the only cleanup mechanism.
type RoomStore interface {
	// GetMessages returns the persisted list for a room. A room with no
	// stored entry yields an empty slice, never an error.
	GetMessages(ctx context.Context, roomID string) ([]models.Message, error)
	// SetMessages replaces the persisted list and resets the TTL.
	SetMessages(ctx context.Context, roomID string, msgs []models.Message, ttl time.Duration) error
	// DeleteMessages removes the persisted list entirely.
	DeleteMessages(ctx context.Context, roomID string) error
	// RefreshTTL extends the entry lifetime without touching its contents.
	RefreshTTL(ctx context.Context, roomID string, ttl time.Duration) error

	AddParticipant(ctx context.Context, roomID, clientID string, ttl time.Duration) (int, error)
	RemoveParticipant(ctx context.Context, roomID, clientID string) (int, error)
	CountParticipants(ctx context.Context, roomID string) (int, error)

	Ping(ctx context.Context) error
	Close() error
}

// SanitizeRoomID maps blank or whitespace-only identifiers to the default
// room before any key construction.
func SanitizeRoomID(roomID string) string {
	if strings.TrimSpace(roomID) == "" {
		return DefaultRoomID
	}
	return roomID
}
