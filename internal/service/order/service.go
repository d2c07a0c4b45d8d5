// internal/service/order/service.go
package order

import (
	"context"
	"fmt"

	"grocer-service/internal/domain/notification"
	"grocer-service/internal/domain/order"
	"grocer-service/internal/domain/product"
	"grocer-service/internal/domain/user"
	xerrors "grocer-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type Repository interface {
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, orderID string) (*order.Order, error)
	List(ctx context.Context, userID string) ([]*order.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status order.Status) error
}

type ProductFinder interface {
	FindByID(ctx context.Context, productID string) (*product.Product, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, userID string) (*user.User, error)
}

type Notifier interface {
	NotifyAdmins(ctx context.Context, kind notification.Kind, payload map[string]interface{})
	NotifyUserAndAdmins(ctx context.Context, userID string, kind notification.Kind, payload map[string]interface{})
}

type OrderService struct {
	repo     Repository
	products ProductFinder
	users    UserFinder
	notifier Notifier
	logger   *zap.Logger
}

func NewOrderService(repo Repository, products ProductFinder, users UserFinder, notifier Notifier, logger *zap.Logger) *OrderService {
	return &OrderService{
		repo:     repo,
		products: products,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns the user's orders, newest first
func (s *OrderService) List(ctx context.Context, userID string) ([]*order.Order, error) {
	return s.repo.List(ctx, userID)
}

// ListAll returns every order, newest first
func (s *OrderService) ListAll(ctx context.Context) ([]*order.Order, error) {
	return s.repo.List(ctx, "")
}

// Get returns an order visible to the caller
func (s *OrderService) Get(ctx context.Context, userID string, isAdmin bool, orderID string) (*order.Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID && !isAdmin {
		return nil, xerrors.ErrForbidden
	}
	return o, nil
}

// Create places an order at current catalog prices. Without an explicit
// shipping address the user's default address is used.
func (s *OrderService) Create(ctx context.Context, userID string, req *order.CreateOrderRequest) (*order.Order, error) {
	if len(req.Items) == 0 {
		return nil, xerrors.ErrEmptyOrder
	}

	buyer, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(req.Items))
	for _, it := range req.Items {
		if it.Quantity < 1 {
			return nil, xerrors.Invalid("quantity for product %s must be at least 1", it.ProductID)
		}
		p, err := s.products.FindByID(ctx, it.ProductID)
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", it.ProductID, err)
		}
		items = append(items, order.Item{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
	}

	shipping := buyer.ShippingAddress()
	if req.ShippingAddress != nil {
		shipping = *req.ShippingAddress
	}

	o := order.New(buyer.ID, items, shipping, nil)
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", o.ID),
		zap.String("user_id", buyer.ID),
		zap.String("total", o.TotalAmount.StringFixed(2)),
	)

	s.notifier.NotifyAdmins(ctx, notification.KindNewOrder, map[string]interface{}{
		"order_id":     o.ID,
		"user_name":    buyer.Name,
		"total_amount": o.TotalAmount,
		"type":         "order",
	})

	return o, nil
}

// UpdateStatus is the admin status change. Owner and admins are notified.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status order.Status) (*order.Order, error) {
	if !status.Valid() {
		return nil, xerrors.Invalid("unknown order status %q", status)
	}

	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	o.Status = status

	s.logger.Info("order status changed",
		zap.String("order_id", orderID),
		zap.String("status", string(status)),
	)

	s.notifier.NotifyUserAndAdmins(ctx, o.UserID, notification.KindOrderStatusUpdated, map[string]interface{}{
		"order_id":     o.ID,
		"status":       status,
		"total_amount": o.TotalAmount,
		"message":      fmt.Sprintf("Your order status has been updated to %s", status),
	})

	return o, nil
}
