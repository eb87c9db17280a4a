// README: Dashboard, availability and earnings handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courierd/internal/courier"
	"courierd/internal/earnings"
	"courierd/internal/http/middleware"
	"courierd/internal/views"
)

type CourierHandler struct {
	courier   *courier.Service
	earnings  *earnings.Service
	dashboard *views.DashboardView
}

func NewCourierHandler(svc *courier.Service, earn *earnings.Service, dashboard *views.DashboardView) *CourierHandler {
	return &CourierHandler{courier: svc, earnings: earn, dashboard: dashboard}
}

// Dashboard renders the home screen numbers plus the live wallet
// balance. A wallet fetch failure degrades to omitting the balance
// rather than failing the whole screen.
func (h *CourierHandler) Dashboard(c *gin.Context) {
	staff, ok := middleware.CallerStaff(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "not signed in")
		return
	}
	d := h.dashboard.Render()
	resp := gin.H{
		"online":            d.Online,
		"available_orders":  d.AvailableOrders,
		"active_deliveries": d.ActiveDeliveries,
		"delivered_today":   d.DeliveredToday,
	}
	if balance, err := h.earnings.Balance(c.Request.Context(), staff); err == nil {
		resp["wallet_balance"] = balance
	}
	writeJSON(c, http.StatusOK, resp)
}

type availabilityReq struct {
	Online *bool `json:"online" binding:"required"`
}

// SetAvailability flips the online toggle.
func (h *CourierHandler) SetAvailability(c *gin.Context) {
	staff, ok := middleware.CallerStaff(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "not signed in")
		return
	}
	var req availabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "online is required")
		return
	}
	if err := h.courier.SetOnline(c.Request.Context(), staff, *req.Online); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"online": h.courier.Online()})
}

// EarningsSummary lists per-day delivery totals for a trailing window.
func (h *CourierHandler) EarningsSummary(c *gin.Context) {
	days := 7
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(c, http.StatusBadRequest, "invalid days")
			return
		}
		days = parsed
	}
	summaries, err := h.earnings.Summary(c.Request.Context(), days)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"days": summaries})
}
