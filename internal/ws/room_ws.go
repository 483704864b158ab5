package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"catalog-chat-service/internal/observability"
	"catalog-chat-service/internal/store"
	"catalog-chat-service/internal/token"
)

// RoomWebSocketHandler upgrades room subscriptions. Clients authenticate
// with the room-scoped credential from the token endpoint.
type RoomWebSocketHandler struct {
	hub    *Hub
	issuer *token.Issuer
}

// NewRoomWebSocketHandler constructs a RoomWebSocketHandler.
func NewRoomWebSocketHandler(hub *Hub, issuer *token.Issuer) *RoomWebSocketHandler {
	return &RoomWebSocketHandler{hub: hub, issuer: issuer}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handle upgrades the connection and registers the client in the room.
func (h *RoomWebSocketHandler) Handle(c *gin.Context) {
	roomID := store.SanitizeRoomID(c.Param("room_id"))

	ctx, span := otel.Tracer("catalog-chat-service/ws").Start(c.Request.Context(), "ws.handshake")
	defer span.End()
	c.Request = c.Request.WithContext(ctx)

	raw := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		raw = raw[len("bearer "):]
	}
	if raw == "" {
		raw = c.Query("token")
	}

	claims, err := h.issuer.Verify(raw, roomID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	traceID := span.SpanContext().TraceID().String()
	requestID := observability.RequestIDFromRequest(c.Request)
	info := ConnInfo{
		ConnID:      newConnID(),
		ClientID:    claims.Subject,
		DeviceID:    observability.DeviceIDFromRequest(c.Request),
		IP:          observability.IPFromRequest(c.Request),
		RequestID:   requestID,
		TraceID:     traceID,
		ConnectedAt: time.Now(),
	}
	h.hub.AddClient(roomID, conn, info)

	observability.IncWSActive()
	observability.IncWSEvent("ws_connect")
	_ = observability.PublishEvent(ctx, "ws_events.rooms", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_connect",
		Payload:   wsEventPayload(roomID, "ws_connect", info, 0, ""),
	}, observability.BuildHeaders(requestID, traceID))

	// Keep connection alive and clean up on close.
	go func() {
		var closeReason string
		defer func() {
			h.hub.RemoveClient(roomID, conn)
			observability.DecWSActive()
			observability.IncWSEvent("ws_disconnect")
			_ = observability.PublishEvent(ctx, "ws_events.rooms", observability.EventEnvelope{
				EventType: "ws_events",
				EventName: "ws_disconnect",
				Payload:   wsEventPayload(roomID, "ws_disconnect", info, time.Since(info.ConnectedAt).Milliseconds(), closeReason),
			}, observability.BuildHeaders(requestID, traceID))
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closeReason = err.Error()
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					observability.IncWSEvent("ws_error")
					_ = observability.PublishEvent(ctx, "ws_events.rooms", observability.EventEnvelope{
						EventType: "ws_events",
						EventName: "ws_error",
						Payload:   wsEventPayload(roomID, "ws_error", info, time.Since(info.ConnectedAt).Milliseconds(), closeReason),
					}, observability.BuildHeaders(requestID, traceID))
				}
				return
			}
		}
	}()
}

func wsEventPayload(roomID, event string, info ConnInfo, durationMS int64, reason string) map[string]interface{} {
	return map[string]interface{}{
		"ws": map[string]interface{}{
			"room_id":     roomID,
			"event":       event,
			"conn_id":     info.ConnID,
			"duration_ms": durationMS,
			"reason":      reason,
		},
		"identity": map[string]interface{}{
			"client_id": info.ClientID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}
}
