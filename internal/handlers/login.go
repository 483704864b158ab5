package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-chat-service/internal/telemetry"
)

const authCookieMaxAge = 60 * 60 * 24 * 14 // 14 days

// LoginHandler implements the shared-password gate in front of the catalog.
type LoginHandler struct {
	sharedPassword string
	cookieName     string
	audit          *telemetry.AuditEmitter
}

// NewLoginHandler builds a LoginHandler.
func NewLoginHandler(sharedPassword, cookieName string, audit *telemetry.AuditEmitter) *LoginHandler {
	return &LoginHandler{
		sharedPassword: sharedPassword,
		cookieName:     cookieName,
		audit:          audit,
	}
}

// Login checks the shared password and sets the auth cookie. An
// unconfigured password rejects everyone rather than letting everyone in.
func (h *LoginHandler) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
		Next     string `json:"next"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false})
		return
	}

	if h.sharedPassword == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.sharedPassword)) != 1 {
		h.audit.Emit(c.Request.Context(), "WARN", "login rejected", requestIDFromContext(c), "")
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false})
		return
	}

	next := req.Next
	if next == "" {
		next = "/catalog"
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookieName, "1", authCookieMaxAge, "/", "", true, true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "redirect_to": next})
}
