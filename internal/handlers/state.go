package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-chat-service/internal/models"
	"catalog-chat-service/internal/room"
	"catalog-chat-service/internal/telemetry"
)

// StateHandler exposes the room state endpoints backing the chat widget.
type StateHandler struct {
	reconciler *room.Reconciler
	audit      *telemetry.AuditEmitter
}

// NewStateHandler builds a StateHandler.
func NewStateHandler(reconciler *room.Reconciler, audit *telemetry.AuditEmitter) *StateHandler {
	return &StateHandler{reconciler: reconciler, audit: audit}
}

// GetState returns the room's current message list and participant count.
func (h *StateHandler) GetState(c *gin.Context) {
	roomID := c.Query("roomId")

	msgs, err := h.reconciler.History(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	active, err := h.reconciler.ActiveCount(c.Request.Context(), roomID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load room state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"messages":     msgs,
		"active_count": active,
	})
}

// MutateState dispatches join/leave/append/clear actions.
func (h *StateHandler) MutateState(c *gin.Context) {
	var req struct {
		Action   string          `json:"action" binding:"required"`
		RoomID   string          `json:"roomId"`
		ClientID string          `json:"clientId"`
		Message  *models.Message `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	switch req.Action {
	case "join":
		active, err := h.reconciler.Join(ctx, req.RoomID, req.ClientID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "join failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "active_count": active})

	case "leave":
		active, err := h.reconciler.Leave(ctx, req.RoomID, req.ClientID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "leave failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "active_count": active})

	case "append":
		if req.Message == nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "message required"})
			return
		}
		count, err := h.reconciler.Append(ctx, req.RoomID, *req.Message)
		if err != nil {
			if errors.Is(err, models.ErrInvalidMessage) {
				c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "append failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "count": count})

	case "clear":
		if err := h.reconciler.Clear(ctx, req.RoomID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "clear failed"})
			return
		}
		h.audit.Emit(ctx, "INFO", "room cleared", requestIDFromContext(c), req.ClientID)
		c.JSON(http.StatusOK, gin.H{"ok": true})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown action"})
	}
}
