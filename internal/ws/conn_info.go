package ws

import (
	"time"

	"github.com/google/uuid"
)

// ConnInfo carries per-connection metadata for observability events.
type ConnInfo struct {
	ConnID      string
	ClientID    string
	DeviceID    string
	IP          string
	RequestID   string
	TraceID     string
	ConnectedAt time.Time
}

func newConnID() string {
	return uuid.NewString()
}
