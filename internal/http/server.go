// README: Local API surface; registers routes and delegates to services.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"courierd/internal/courier"
	"courierd/internal/earnings"
	"courierd/internal/http/handlers"
	"courierd/internal/http/middleware"
	"courierd/internal/nav"
	"courierd/internal/orders"
	"courierd/internal/session"
	"courierd/internal/views"
)

type ServerDeps struct {
	Orders    *orders.Service
	Sessions  *session.Service
	Courier   *courier.Service
	Earnings  *earnings.Service
	Nav       nav.RouteEstimator
	Dashboard *views.DashboardView
	OrderList *views.OrderListView
	Log       *slog.Logger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Log == nil {
		deps.Log = slog.Default()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.Logging(s.deps.Log))

	sessionHandler := handlers.NewSessionHandler(s.deps.Sessions)
	orderHandler := handlers.NewOrderHandler(s.deps.Orders, s.deps.OrderList, s.deps.Nav)
	courierHandler := handlers.NewCourierHandler(s.deps.Courier, s.deps.Earnings, s.deps.Dashboard)

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	r.POST("/api/login/otp", sessionHandler.RequestOTP)
	r.POST("/api/login/verify", sessionHandler.Verify)

	auth := r.Group("/api", middleware.Auth(s.deps.Sessions))
	auth.POST("/logout", sessionHandler.Logout)

	auth.GET("/orders", orderHandler.List)
	auth.GET("/orders/:id", orderHandler.Get)
	auth.POST("/orders/:id/accept", orderHandler.Accept)
	auth.POST("/orders/:id/reject", orderHandler.Reject)
	auth.POST("/orders/:id/status", orderHandler.UpdateStatus)
	auth.POST("/refresh", orderHandler.Refresh)

	auth.GET("/dashboard", courierHandler.Dashboard)
	auth.POST("/availability", courierHandler.SetAvailability)
	auth.GET("/earnings", courierHandler.EarningsSummary)

	return r
}
