package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"catalog-chat-service/internal/models"
	"catalog-chat-service/internal/observability"
)

// Hub maintains active websocket connections per room.
type Hub struct {
	rooms    map[string]map[*websocket.Conn]bool
	connInfo map[string]map[*websocket.Conn]ConnInfo
	mu       sync.RWMutex
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[string]map[*websocket.Conn]bool),
		connInfo: make(map[string]map[*websocket.Conn]ConnInfo),
	}
}

// AddClient registers a websocket connection to a room.
func (h *Hub) AddClient(roomID string, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[*websocket.Conn]bool)
	}
	h.rooms[roomID][conn] = true
	if _, ok := h.connInfo[roomID]; !ok {
		h.connInfo[roomID] = make(map[*websocket.Conn]ConnInfo)
	}
	h.connInfo[roomID][conn] = info
}

// RemoveClient removes a websocket connection from a room.
func (h *Hub) RemoveClient(roomID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if infos, ok := h.connInfo[roomID]; ok {
		delete(infos, conn)
		if len(infos) == 0 {
			delete(h.connInfo, roomID)
		}
	}
}

// BroadcastMessage sends a message event to all clients in a room.
func (h *Hub) BroadcastMessage(roomID string, msg models.Message) {
	event := models.RoomEvent{Type: models.EventMessage, RoomID: roomID, Message: &msg}
	h.broadcast(roomID, event)
}

// BroadcastClear tells every client in a room to empty its local view.
func (h *Hub) BroadcastClear(roomID string) {
	event := models.RoomEvent{Type: models.EventClear, RoomID: roomID}
	h.broadcast(roomID, event)
}

func (h *Hub) broadcast(roomID string, event models.RoomEvent) {
	h.mu.RLock()
	conns := h.rooms[roomID]
	h.mu.RUnlock()

	payload, _ := json.Marshal(event)
	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("websocket write error: %v", err)
			conn.Close()
			h.RemoveClient(roomID, conn)
			h.publishWSError(roomID, conn, err)
		}
	}
}

func (h *Hub) publishWSError(roomID string, conn *websocket.Conn, err error) {
	info, ok := h.getConnInfo(roomID, conn)
	if !ok {
		return
	}

	payload := map[string]interface{}{
		"ws": map[string]interface{}{
			"room_id":     roomID,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]interface{}{
			"client_id": info.ClientID,
			"device_id": info.DeviceID,
			"ip":        info.IP,
		},
	}

	headers := observability.BuildHeaders(info.RequestID, info.TraceID)
	_ = observability.PublishEvent(context.Background(), "ws_events.rooms", observability.EventEnvelope{
		EventType: "ws_events",
		EventName: "ws_error",
		Payload:   payload,
	}, headers)
	observability.IncWSEvent("ws_error")
}

func (h *Hub) getConnInfo(roomID string, conn *websocket.Conn) (ConnInfo, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if infos, ok := h.connInfo[roomID]; ok {
		info, exists := infos[conn]
		return info, exists
	}
	return ConnInfo{}, false
}
