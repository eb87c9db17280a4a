// README: OTP login/logout handlers.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"courierd/internal/session"
)

type SessionHandler struct {
	sessions *session.Service
}

func NewSessionHandler(svc *session.Service) *SessionHandler {
	return &SessionHandler{sessions: svc}
}

type requestOTPReq struct {
	Phone string `json:"phone" binding:"required"`
}

func (h *SessionHandler) RequestOTP(c *gin.Context) {
	var req requestOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "phone is required")
		return
	}
	if err := h.sessions.RequestOTP(c.Request.Context(), req.Phone); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"sent": true})
}

type verifyOTPReq struct {
	Phone string `json:"phone" binding:"required"`
	OTP   string `json:"otp" binding:"required"`
}

func (h *SessionHandler) Verify(c *gin.Context) {
	var req verifyOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "phone and otp are required")
		return
	}
	token, profile, err := h.sessions.Login(c.Request.Context(), req.Phone, req.OTP)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"token": token,
		"staff": gin.H{"id": profile.ID, "name": profile.Name, "phone": profile.Phone},
	})
}

func (h *SessionHandler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" || token == header {
		writeError(c, http.StatusUnauthorized, "missing bearer token")
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), token); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"logged_out": true})
}
