package routes

import (
	"food-ordering-api/handlers"
	"food-ordering-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handler, jwtSecret string) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// State machine info
		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Order routes ───────────────────────────────────────────────
	// The acting user always comes from the token; what they may do is
	// decided by the orders service from their stored role.
	orders := r.Group("/api/orders")
	orders.Use(middleware.AuthRequired(jwtSecret))
	{
		orders.POST("", h.PlaceOrder)
		orders.GET("/:id", h.GetOrder)
		orders.GET("/:id/history", h.GetOrderHistory)
		orders.PUT("/:id/status", h.UpdateOrderStatus)
	}

	// ── Listing routes ─────────────────────────────────────────────
	lists := r.Group("/api")
	lists.Use(middleware.AuthRequired(jwtSecret))
	{
		lists.GET("/customers/:id/orders", h.GetCustomerOrders)
		lists.GET("/restaurants/:id/orders", h.GetRestaurantOrders)
	}
}
