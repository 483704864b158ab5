package models

import "errors"

// Message kinds carried in a room.
const (
	KindText  = "text"
	KindImage = "image"
)

// MaxImageBytes bounds inline image payloads (8MB data-URL).
const MaxImageBytes = 8 * 1024 * 1024

var ErrInvalidMessage = errors.New("invalid message")

// Message is one unit of chat content. IDs are client-generated and stable
// across retransmission; Timestamp is sender-assigned Unix milliseconds and
// is only used for ordering.
type Message struct {
	ID           string `json:"id"`
	From         string `json:"from"`
	Kind         string `json:"type"`
	Text         string `json:"text,omitempty"`
	ImageDataURL string `json:"imageDataUrl,omitempty"`
	Timestamp    int64  `json:"ts"`
}

// Validate checks the required fields and the kind/content coherence rule:
// exactly one of Text/ImageDataURL is populated, matching Kind.
func (m Message) Validate() error {
	if m.ID == "" || m.From == "" || m.Timestamp == 0 {
		return ErrInvalidMessage
	}
	switch m.Kind {
	case KindText:
		if m.Text == "" || m.ImageDataURL != "" {
			return ErrInvalidMessage
		}
	case KindImage:
		if m.ImageDataURL == "" || m.Text != "" {
			return ErrInvalidMessage
		}
		if len(m.ImageDataURL) > MaxImageBytes {
			return ErrInvalidMessage
		}
	default:
		return ErrInvalidMessage
	}
	return nil
}

// RoomEvent is broadcast through websockets and the realtime channel.
type RoomEvent struct {
	Type    string   `json:"type"`
	RoomID  string   `json:"room_id"`
	Message *Message `json:"message,omitempty"`
}

// Event types on a room channel.
const (
	EventMessage = "msg"
	EventClear   = "clear"
)
