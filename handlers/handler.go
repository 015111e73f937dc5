package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"food-ordering-api/logger"
	"food-ordering-api/orders"

	"github.com/gin-gonic/gin"
)

// IdempotencyStore is the optional Idempotency-Key backend for PlaceOrder
type IdempotencyStore interface {
	Reserve(ctx context.Context, userID uint, key string) (uint, error)
	Complete(ctx context.Context, userID uint, key string, orderID uint) error
	Release(ctx context.Context, userID uint, key string) error
}

type Handler struct {
	orders      *orders.Service
	idempotency IdempotencyStore
	log         *slog.Logger
}

// New builds the HTTP handlers. idem may be nil, in which case the
// Idempotency-Key header is ignored.
func New(svc *orders.Service, idem IdempotencyStore, log *slog.Logger) *Handler {
	return &Handler{orders: svc, idempotency: idem, log: log}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors onto HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	var denied *orders.DeniedError
	switch {
	case errors.As(err, &denied):
		c.JSON(http.StatusForbidden, gin.H{
			"error":             err.Error(),
			"reason":            denied.Reason,
			"valid_next_states": denied.ValidNext,
		})
	case errors.Is(err, orders.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrTransactionFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		logger.FromContext(c.Request.Context(), h.log).Error("unhandled error",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
