package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-chat-service/internal/realtime"
	"catalog-chat-service/internal/store"
	"catalog-chat-service/internal/token"
)

// TokenHandler issues room-scoped realtime credentials.
type TokenHandler struct {
	issuer *token.Issuer
}

// NewTokenHandler builds a TokenHandler.
func NewTokenHandler(issuer *token.Issuer) *TokenHandler {
	return &TokenHandler{issuer: issuer}
}

// IssueToken returns a short-lived credential limited to publish+subscribe
// on exactly the requested room's channel.
func (h *TokenHandler) IssueToken(c *gin.Context) {
	roomID := store.SanitizeRoomID(c.Query("roomId"))
	clientID := c.Query("clientId")
	if clientID == "" {
		clientID = "anon"
	}

	signed, exp, err := h.issuer.Issue(roomID, clientID)
	if err != nil {
		if errors.Is(err, token.ErrNoSecret) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "realtime secret not configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      signed,
		"expires_at": exp.UnixMilli(),
		"client_id":  clientID,
		"channel":    realtime.ChannelName(roomID),
		"capability": token.Capability,
	})
}
