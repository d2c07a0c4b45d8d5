// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"context"
	"net/http"

	"grocer-service/internal/domain/subscription"
	"grocer-service/internal/middleware"
	"grocer-service/internal/pkg/response"
	service "grocer-service/internal/service/subscription"

	"github.com/gin-gonic/gin"
)

// Service is the subscription use case surface the handler calls.
type Service interface {
	List(ctx context.Context, userID string) ([]subscription.SubscriptionDetail, error)
	Create(ctx context.Context, userID string, req *subscription.CreateSubscriptionRequest) (*subscription.Subscription, error)
	Update(ctx context.Context, actor service.Actor, subscriptionID string, req *subscription.UpdateSubscriptionRequest) (*subscription.Subscription, error)
	Delete(ctx context.Context, actor service.Actor, subscriptionID string) error
}

type SubscriptionHandler struct {
	subscriptionService Service
}

func NewSubscriptionHandler(subscriptionService Service) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

func actor(c *gin.Context) service.Actor {
	return service.Actor{
		UserID: middleware.MustGetUserID(c),
		Role:   middleware.GetRole(c),
	}
}

// ListSubscriptions lists the caller's subscriptions
func (h *SubscriptionHandler) ListSubscriptions(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	result, err := h.subscriptionService.List(c.Request.Context(), userID)
	if err != nil {
		response.FromError(c, "failed to list subscriptions", err)
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved successfully", result)
}

// CreateSubscription subscribes the caller to a product
func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	userID := middleware.MustGetUserID(c)

	var req subscription.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.subscriptionService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		response.FromError(c, "failed to create subscription", err)
		return
	}

	response.Success(c, http.StatusCreated, "subscription created successfully", result)
}

// UpdateSubscription changes status, interval, quantity or auto-renew
func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	var req subscription.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.subscriptionService.Update(c.Request.Context(), actor(c), c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription updated successfully", result)
}

// DeleteSubscription removes a subscription
func (h *SubscriptionHandler) DeleteSubscription(c *gin.Context) {
	if err := h.subscriptionService.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.FromError(c, "failed to delete subscription", err)
		return
	}

	response.Success(c, http.StatusOK, "subscription removed", nil)
}
