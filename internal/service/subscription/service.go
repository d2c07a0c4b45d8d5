// internal/service/subscription/service.go
package subscription

import (
	"context"
	"fmt"
	"time"

	"grocer-service/internal/domain/notification"
	"grocer-service/internal/domain/product"
	"grocer-service/internal/domain/subscription"
	"grocer-service/internal/domain/user"
	xerrors "grocer-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Repository is the subscription persistence the service needs.
type Repository interface {
	Create(ctx context.Context, s *subscription.Subscription) error
	FindByID(ctx context.Context, subscriptionID string) (*subscription.Subscription, error)
	Update(ctx context.Context, s *subscription.Subscription, next *time.Time) error
	Delete(ctx context.Context, subscriptionID string) error
	ListDetails(ctx context.Context, userID string) ([]subscription.SubscriptionDetail, error)
}

type ProductFinder interface {
	FindByID(ctx context.Context, productID string) (*product.Product, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, userID string) (*user.User, error)
}

// Notifier sends subscription events to rooms.
type Notifier interface {
	NotifyAdmins(ctx context.Context, kind notification.Kind, payload map[string]interface{})
	NotifyUserAndAdmins(ctx context.Context, userID string, kind notification.Kind, payload map[string]interface{})
}

// Actor is the caller of an operation.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

type SubscriptionService struct {
	repo     Repository
	products ProductFinder
	users    UserFinder
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

func NewSubscriptionService(repo Repository, products ProductFinder, users UserFinder, notifier Notifier, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		products: products,
		users:    users,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// WithNow allows tests to inject a deterministic clock.
func (s *SubscriptionService) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// List returns the user's subscriptions, newest first
func (s *SubscriptionService) List(ctx context.Context, userID string) ([]subscription.SubscriptionDetail, error) {
	return s.repo.ListDetails(ctx, userID)
}

// ListAll returns every subscription with owner details
func (s *SubscriptionService) ListAll(ctx context.Context) ([]subscription.SubscriptionDetail, error) {
	return s.repo.ListDetails(ctx, "")
}

// Create subscribes the user to a product. The first delivery is one
// interval after the start date.
func (s *SubscriptionService) Create(ctx context.Context, userID string, req *subscription.CreateSubscriptionRequest) (*subscription.Subscription, error) {
	if req.Quantity < 1 || req.Interval < 1 {
		return nil, xerrors.Invalid("quantity and interval must be at least 1")
	}

	p, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !p.SubscriptionEligible {
		return nil, xerrors.ErrNotEligible
	}

	start := s.now()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	autoRenew := true
	if req.AutoRenew != nil {
		autoRenew = *req.AutoRenew
	}

	sub := &subscription.Subscription{
		UserID:    userID,
		ProductID: p.ID,
		Quantity:  req.Quantity,
		Interval:  req.Interval,
		Status:    subscription.StatusActive,
		AutoRenew: autoRenew,
		StartDate: start,
	}
	sub.NextDeliveryDate = sub.NextAfter(start)

	if err := s.repo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.logger.Info("subscription created",
		zap.String("subscription_id", sub.ID),
		zap.String("user_id", userID),
		zap.String("product_id", p.ID),
	)

	payload := map[string]interface{}{
		"subscription_id": sub.ID,
		"product_name":    p.Name,
		"type":            "subscription",
	}
	if owner, err := s.users.FindByID(ctx, userID); err == nil {
		payload["user_name"] = owner.Name
	}
	s.notifier.NotifyAdmins(ctx, notification.KindNewSubscription, payload)

	return sub, nil
}

// Update changes status, interval, quantity or auto-renew. Only the owner
// or an admin may update.
func (s *SubscriptionService) Update(ctx context.Context, actor Actor, subscriptionID string, req *subscription.UpdateSubscriptionRequest) (*subscription.Subscription, error) {
	sub, err := s.authorize(ctx, actor, subscriptionID)
	if err != nil {
		return nil, err
	}

	if req.Interval != nil {
		if *req.Interval < 1 {
			return nil, xerrors.Invalid("interval must be at least 1")
		}
		sub.Interval = *req.Interval
	}
	if req.Quantity != nil {
		if *req.Quantity < 1 {
			return nil, xerrors.Invalid("quantity must be at least 1")
		}
		sub.Quantity = *req.Quantity
	}
	if req.AutoRenew != nil {
		sub.AutoRenew = *req.AutoRenew
	}
	var next *time.Time
	if req.Status != nil {
		if next, err = s.applyStatus(sub, *req.Status); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, sub, next); err != nil {
		return nil, err
	}

	s.logger.Info("subscription updated",
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(sub.Status)),
	)
	return sub, nil
}

// UpdateStatus is the admin status change. Owner and admins are notified.
func (s *SubscriptionService) UpdateStatus(ctx context.Context, subscriptionID string, status subscription.Status) (*subscription.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	next, err := s.applyStatus(sub, status)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, sub, next); err != nil {
		return nil, err
	}

	s.logger.Info("subscription status changed by admin",
		zap.String("subscription_id", sub.ID),
		zap.String("status", string(status)),
	)

	payload := map[string]interface{}{
		"subscription_id": sub.ID,
		"status":          status,
		"message":         fmt.Sprintf("Your subscription status has been updated to %s", status),
	}
	if p, err := s.products.FindByID(ctx, sub.ProductID); err == nil {
		payload["product_name"] = p.Name
	}
	s.notifier.NotifyUserAndAdmins(ctx, sub.UserID, notification.KindSubscriptionStatusUpdated, payload)

	return sub, nil
}

// Delete removes a subscription. Only the owner or an admin may delete.
func (s *SubscriptionService) Delete(ctx context.Context, actor Actor, subscriptionID string) error {
	if _, err := s.authorize(ctx, actor, subscriptionID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, subscriptionID); err != nil {
		return err
	}
	s.logger.Info("subscription deleted", zap.String("subscription_id", subscriptionID))
	return nil
}

func (s *SubscriptionService) authorize(ctx context.Context, actor Actor, subscriptionID string) (*subscription.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != actor.UserID && !actor.IsAdmin() {
		return nil, xerrors.ErrForbidden
	}
	return sub, nil
}

// applyStatus sets the status. Resuming a paused subscription restarts the
// schedule one interval from now; the new date is returned so only that
// transition writes it.
func (s *SubscriptionService) applyStatus(sub *subscription.Subscription, status subscription.Status) (*time.Time, error) {
	if !status.Valid() {
		return nil, xerrors.Invalid("unknown subscription status %q", status)
	}
	var next *time.Time
	if status == subscription.StatusActive && sub.Status == subscription.StatusPaused {
		restart := sub.NextAfter(s.now())
		sub.NextDeliveryDate = restart
		next = &restart
	}
	sub.Status = status
	return next, nil
}
