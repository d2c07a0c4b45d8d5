// internal/handlers/order/order_handler.go
package order

import (
	"context"
	"net/http"

	"grocer-service/internal/domain/order"
	"grocer-service/internal/middleware"
	"grocer-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Service interface {
	List(ctx context.Context, userID string) ([]*order.Order, error)
	Get(ctx context.Context, userID string, isAdmin bool, orderID string) (*order.Order, error)
	Create(ctx context.Context, userID string, req *order.CreateOrderRequest) (*order.Order, error)
}

type OrderHandler struct {
	orderService Service
}

func NewOrderHandler(orderService Service) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// ListOrders lists the caller's orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.orderService.List(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, "failed to list orders", err)
		return
	}

	response.Success(c, http.StatusOK, "orders retrieved successfully", result)
}

// GetOrder returns one order owned by the caller, or any order for admins
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.orderService.Get(c.Request.Context(), userID, middleware.IsAdmin(c), c.Param("id"))
	if err != nil {
		response.FromError(c, "order not found", err)
		return
	}

	response.Success(c, http.StatusOK, "order retrieved successfully", result)
}

// CreateOrder places a checkout order
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.orderService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.FromError(c, "failed to create order", err)
		return
	}

	response.Success(c, http.StatusCreated, "order created successfully", result)
}
