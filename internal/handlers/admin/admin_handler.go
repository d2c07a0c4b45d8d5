// internal/handlers/admin/admin_handler.go
package admin

import (
	"context"
	"net/http"

	"grocer-service/internal/domain/admin"
	"grocer-service/internal/domain/order"
	"grocer-service/internal/domain/subscription"
	"grocer-service/internal/domain/user"
	"grocer-service/internal/pkg/response"
	"grocer-service/internal/service/renewal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type StatsService interface {
	Stats(ctx context.Context) (*admin.Stats, error)
	ListUsers(ctx context.Context) ([]user.User, error)
}

type SubscriptionService interface {
	ListAll(ctx context.Context) ([]subscription.SubscriptionDetail, error)
	UpdateStatus(ctx context.Context, subscriptionID string, status subscription.Status) (*subscription.Subscription, error)
}

type OrderService interface {
	ListAll(ctx context.Context) ([]*order.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error)
}

// RenewalTrigger runs the subscription renewal on demand.
type RenewalTrigger interface {
	RunNow(ctx context.Context) (*renewal.Report, error)
}

type AdminHandler struct {
	stats         StatsService
	subscriptions SubscriptionService
	orders        OrderService
	renewals      RenewalTrigger
	logger        *zap.Logger
}

func NewAdminHandler(
	stats StatsService,
	subscriptions SubscriptionService,
	orders OrderService,
	renewals RenewalTrigger,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		stats:         stats,
		subscriptions: subscriptions,
		orders:        orders,
		renewals:      renewals,
		logger:        logger,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	result, err := h.stats.ListUsers(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list users", err)
		return
	}
	response.Success(c, http.StatusOK, "users retrieved successfully", result)
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	result, err := h.stats.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to load stats", err)
		return
	}
	response.Success(c, http.StatusOK, "stats retrieved successfully", result)
}

func (h *AdminHandler) ListSubscriptions(c *gin.Context) {
	result, err := h.subscriptions.ListAll(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list subscriptions", err)
		return
	}
	response.Success(c, http.StatusOK, "subscriptions retrieved successfully", result)
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	result, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to list orders", err)
		return
	}
	response.Success(c, http.StatusOK, "orders retrieved successfully", result)
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.FromError(c, "failed to update order status", err)
		return
	}
	response.Success(c, http.StatusOK, "order status updated", result)
}

func (h *AdminHandler) UpdateSubscriptionStatus(c *gin.Context) {
	var req subscription.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.subscriptions.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.FromError(c, "failed to update subscription status", err)
		return
	}
	response.Success(c, http.StatusOK, "subscription status updated", result)
}

// ProcessSubscriptions runs the renewal job now and returns its report.
func (h *AdminHandler) ProcessSubscriptions(c *gin.Context) {
	report, err := h.renewals.RunNow(c.Request.Context())
	if err != nil {
		h.logger.Error("manual renewal run failed", zap.Error(err))
		response.FromError(c, "failed to process subscriptions", err)
		return
	}

	h.logger.Info("manual renewal run finished",
		zap.Int("due", report.Due),
		zap.Int("renewed", report.Renewed),
		zap.Int("failed", report.Failed),
	)
	response.Success(c, http.StatusOK, "subscriptions processed", report)
}
