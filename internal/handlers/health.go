package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"catalog-chat-service/internal/store"
)

// HealthHandler reports service liveness and store reachability.
type HealthHandler struct {
	store store.RoomStore
}

// NewHealthHandler builds a HealthHandler.
func NewHealthHandler(roomStore store.RoomStore) *HealthHandler {
	return &HealthHandler{store: roomStore}
}

// Check handles GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"store":  gin.H{"status": "fail", "message": err.Error()},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"store":  gin.H{"status": "pass", "latency": time.Since(start).String()},
	})
}
