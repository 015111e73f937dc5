package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"food-ordering-api/idempotency"
	"food-ordering-api/logger"
	"food-ordering-api/middleware"
	"food-ordering-api/models"
	"food-ordering-api/orders"

	"github.com/gin-gonic/gin"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"

	idempotencySettleTimeout = 5 * time.Second
)

type PlaceOrderRequest struct {
	RestaurantID    uint   `json:"restaurant_id" binding:"required"`
	DeliveryAddress string `json:"delivery_address"`
	Notes           string `json:"notes"`
	Items           []struct {
		MenuItemID uint `json:"menu_item_id"`
		Quantity   int  `json:"quantity"`
	} `json:"items"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,order_status"`
	Note   string `json:"note"`
}

// PlaceOrder creates an order for the caller
func (h *Handler) PlaceOrder(c *gin.Context) {
	ctx := c.Request.Context()
	customerID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	key := c.GetHeader(IdempotencyKeyHeader)
	if key != "" && h.idempotency != nil {
		existing, err := h.idempotency.Reserve(ctx, customerID, key)
		switch {
		case errors.Is(err, idempotency.ErrInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		case err != nil:
			logger.FromContext(ctx, h.log).Error("idempotency store unavailable", slog.String("error", err.Error()))
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Idempotency store unavailable"})
			return
		case existing != 0:
			order, err := h.orders.GetOrder(ctx, existing)
			if err != nil {
				h.respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Order already placed", "order": order, "replayed": true})
			return
		}
	}

	in := orders.PlaceOrderInput{
		CustomerID:      customerID,
		RestaurantID:    req.RestaurantID,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}
	for _, item := range req.Items {
		in.Lines = append(in.Lines, orders.CartLine{MenuItemID: item.MenuItemID, Quantity: item.Quantity})
	}

	order, err := h.orders.PlaceOrder(ctx, in)

	// The key has to be settled even when the client has already gone away,
	// otherwise it stays pending until it expires.
	settleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), idempotencySettleTimeout)
	defer cancel()

	if err != nil {
		if key != "" && h.idempotency != nil {
			if relErr := h.idempotency.Release(settleCtx, customerID, key); relErr != nil {
				logger.FromContext(ctx, h.log).Warn("failed to release idempotency key", slog.String("error", relErr.Error()))
			}
		}
		h.respondError(c, err)
		return
	}
	if key != "" && h.idempotency != nil {
		if err := h.idempotency.Complete(settleCtx, customerID, key, order.ID); err != nil {
			logger.FromContext(ctx, h.log).Warn("failed to record idempotency key",
				slog.Uint64("order_id", uint64(order.ID)),
				slog.String("error", err.Error()),
			)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// UpdateOrderStatus moves an order on behalf of the caller
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), orders.UpdateStatusInput{
		OrderID:      orderID,
		Status:       status,
		ActingUserID: middleware.GetUserID(c),
		Note:         req.Note,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated to " + string(order.Status),
		"order":   order,
	})
}

func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// GetOrderHistory returns the status audit trail, oldest first
func (h *Handler) GetOrderHistory(c *gin.Context) {
	orderID, ok := parseID(c, "id")
	if !ok {
		return
	}
	history, err := h.orders.StatusHistory(c.Request.Context(), orderID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "history": history})
}

func (h *Handler) GetCustomerOrders(c *gin.Context) {
	customerID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.orders.OrdersByCustomer(c.Request.Context(), customerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

func (h *Handler) GetRestaurantOrders(c *gin.Context) {
	restaurantID, ok := parseID(c, "id")
	if !ok {
		return
	}
	list, err := h.orders.OrdersByRestaurant(c.Request.Context(), restaurantID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}
