// internal/app/router.go
package app

import (
	"net/http"

	adminHandler "grocer-service/internal/handlers/admin"
	orderHandler "grocer-service/internal/handlers/order"
	subscriptionHandler "grocer-service/internal/handlers/subscription"
	wsHandler "grocer-service/internal/handlers/websocket"
	"grocer-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
	OrderHandler        *orderHandler.OrderHandler
	AdminHandler        *adminHandler.AdminHandler
	WSHandler           *wsHandler.WebSocketHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, registry *prometheus.Registry, h *Handlers) {
	// ==================== Health Check ====================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== Metrics ====================
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.HandleConnection)

	api := r.Group("/api")

	// ==================== Subscriptions ====================
	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(h.AuthMiddleware.Auth())
	{
		subscriptions.GET("", h.SubscriptionHandler.ListSubscriptions)
		subscriptions.POST("", h.SubscriptionHandler.CreateSubscription)
		subscriptions.PUT("/:id", h.SubscriptionHandler.UpdateSubscription)
		subscriptions.DELETE("/:id", h.SubscriptionHandler.DeleteSubscription)
	}

	// ==================== Orders ====================
	orders := api.Group("/orders")
	orders.Use(h.AuthMiddleware.Auth())
	{
		orders.GET("", h.OrderHandler.ListOrders)
		orders.GET("/:id", h.OrderHandler.GetOrder)
		orders.POST("", h.OrderHandler.CreateOrder)
	}

	// ==================== Admin ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		admin.GET("/users", h.AdminHandler.ListUsers)
		admin.GET("/stats", h.AdminHandler.GetStats)
		admin.GET("/subscriptions", h.AdminHandler.ListSubscriptions)
		admin.GET("/orders", h.AdminHandler.ListOrders)
		admin.PUT("/orders/:id/status", h.AdminHandler.UpdateOrderStatus)
		admin.PUT("/subscriptions/:id/status", h.AdminHandler.UpdateSubscriptionStatus)
		admin.POST("/subscriptions/process", h.AdminHandler.ProcessSubscriptions)
		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}
}
