// README: Order list/details and transition handlers.
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"courierd/internal/http/middleware"
	"courierd/internal/nav"
	"courierd/internal/orders"
	"courierd/internal/status"
	"courierd/internal/views"
)

type OrderHandler struct {
	orders *orders.Service
	list   *views.OrderListView
	nav    nav.RouteEstimator
}

func NewOrderHandler(svc *orders.Service, list *views.OrderListView, estimator nav.RouteEstimator) *OrderHandler {
	return &OrderHandler{orders: svc, list: list, nav: estimator}
}

type orderSummary struct {
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	StatusID    int             `json:"status_id"`
	Total       decimal.Decimal `json:"total"`
	DropAddress string          `json:"drop_address"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
}

func summarize(list []orders.Order) []orderSummary {
	out := make([]orderSummary, 0, len(list))
	for _, o := range list {
		s := orderSummary{
			OrderID:     o.ID,
			OrderNumber: o.OrderNumber,
			Status:      o.Status,
			StatusID:    int(o.StatusID),
			Total:       o.Total,
			DropAddress: o.Drop.Address,
		}
		if !o.CreatedAt.IsZero() {
			t := o.CreatedAt
			s.CreatedAt = &t
		}
		out = append(out, s)
	}
	return out
}

// List renders the cached current/past split.
func (h *OrderHandler) List(c *gin.Context) {
	current, past := h.list.Orders()
	writeJSON(c, http.StatusOK, gin.H{
		"current": summarize(current),
		"past":    summarize(past),
	})
}

// nextStatusOptions lists the transitions the details screen may offer.
// At Reached both outcomes are presented; everywhere else the single
// progression successor, if any.
func nextStatusOptions(code status.Code) []int {
	if !status.CanDisplayStatusControl(code) {
		return nil
	}
	if code == status.Reached {
		opts := status.ReachedSuccessors()
		out := make([]int, len(opts))
		for i, s := range opts {
			out[i] = int(s)
		}
		return out
	}
	if next, ok := status.NextStatus(code); ok {
		return []int{int(next)}
	}
	return nil
}

// Get renders one order with transition options and a travel estimate.
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	o, err := h.orders.Get(id)
	if err != nil {
		writeOrderError(c, err)
		return
	}

	resp := gin.H{
		"order_id":       o.ID,
		"order_number":   o.OrderNumber,
		"status":         o.Status,
		"status_id":      int(o.StatusID),
		"customer_name":  o.CustomerName,
		"customer_phone": o.CustomerPhone,
		"pickup_address": o.Pickup.Address,
		"drop_address":   o.Drop.Address,
		"items":          o.Items,
		"subtotal":       o.Subtotal,
		"delivery_fee":   o.DeliveryFee,
		"total":          o.Total,
		"payment_method": o.PaymentMethod,
		"instructions":   o.Instructions,
		"can_update":     status.CanDisplayStatusControl(o.StatusID),
		"next_statuses":  nextStatusOptions(o.StatusID),
	}
	if est, err := h.nav.Estimate(c.Request.Context(), o.Pickup.Position, o.Drop.Position); err == nil {
		resp["eta_minutes"] = int(est.Duration.Minutes())
		resp["distance"] = est.Distance
	}
	writeJSON(c, http.StatusOK, resp)
}

// Accept claims an available order.
func (h *OrderHandler) Accept(c *gin.Context) {
	staff, ok := middleware.CallerStaff(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "not signed in")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	if err := h.orders.Accept(c.Request.Context(), staff, id); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "assigned", "status_id": int(status.Assigned)})
}

// Reject hides an available order from this courier's view.
func (h *OrderHandler) Reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	if err := h.orders.Reject(c.Request.Context(), id); err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"rejected": true})
}

type updateStatusReq struct {
	StatusID int `json:"status_id"`
}

// UpdateStatus performs a validated forward transition.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	staff, ok := middleware.CallerStaff(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "not signed in")
		return
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid order id")
		return
	}
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.orders.ApplyTransition(c.Request.Context(), staff, id, status.Code(req.StatusID)); err != nil {
		writeOrderError(c, err)
		return
	}
	o, err := h.orders.Get(id)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": o.Status, "status_id": int(o.StatusID)})
}

// Refresh is the pull-to-refresh entry point. A failed refresh with
// prior data keeps the stale view and is not an error to the client.
func (h *OrderHandler) Refresh(c *gin.Context) {
	staff, ok := middleware.CallerStaff(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, "not signed in")
		return
	}
	if err := h.orders.Refresh(c.Request.Context(), staff); err != nil {
		if !h.orders.Seeded() {
			writeOrderError(c, err)
			return
		}
		writeJSON(c, http.StatusOK, gin.H{"refreshed": false, "stale": true})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"refreshed": true})
}
