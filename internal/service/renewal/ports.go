package renewal

import (
	"context"
	"time"

	"grocer-service/internal/domain/notification"
	"grocer-service/internal/domain/order"
	"grocer-service/internal/domain/product"
	"grocer-service/internal/domain/subscription"
	"grocer-service/internal/domain/user"
)

// SubscriptionStore is the part of the subscription repository the renewer uses.
type SubscriptionStore interface {
	FindDue(ctx context.Context, asOf time.Time) ([]subscription.Subscription, error)
	MarkRenewed(ctx context.Context, subscriptionID string, next time.Time) error
	UpdateStatus(ctx context.Context, subscriptionID string, status subscription.Status, next *time.Time) error
}

type ProductStore interface {
	FindByID(ctx context.Context, productID string) (*product.Product, error)
}

type UserStore interface {
	FindByID(ctx context.Context, userID string) (*user.User, error)
}

// OrderStore persists an order and fills in its ID.
type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
}

// Notifier delivers an event to a single user's room.
type Notifier interface {
	NotifyUser(ctx context.Context, userID string, kind notification.Kind, payload map[string]interface{})
}
