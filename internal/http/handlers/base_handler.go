// README: Shared handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"courierd/internal/orders"
	"courierd/internal/session"
	"courierd/internal/status"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, statusCode int, v any) {
	c.JSON(statusCode, v)
}

func writeError(c *gin.Context, statusCode int, msg string) {
	writeJSON(c, statusCode, errorResponse{Error: msg})
}

// writeOrderError maps the error taxonomy onto HTTP statuses. Anything
// unrecognized is assumed to be a backend/network failure.
func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, orders.ErrTransitionRejected):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, status.ErrUnknownStatus):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, err.Error())
	default:
		writeError(c, http.StatusBadGateway, "backend request failed")
	}
}
