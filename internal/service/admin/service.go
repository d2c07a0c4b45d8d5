// internal/service/admin/service.go
package admin

import (
	"context"
	"fmt"

	"grocer-service/internal/domain/admin"
	"grocer-service/internal/domain/user"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type UserStore interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]user.User, error)
}

type ProductCounter interface {
	Count(ctx context.Context) (int64, error)
}

type OrderStats interface {
	Count(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (decimal.Decimal, error)
}

type SubscriptionCounter interface {
	CountActive(ctx context.Context) (int64, error)
}

type AdminService struct {
	users         UserStore
	products      ProductCounter
	orders        OrderStats
	subscriptions SubscriptionCounter
}

func NewAdminService(users UserStore, products ProductCounter, orders OrderStats, subscriptions SubscriptionCounter) *AdminService {
	return &AdminService{
		users:         users,
		products:      products,
		orders:        orders,
		subscriptions: subscriptions,
	}
}

// Stats gathers the dashboard counters concurrently.
func (s *AdminService) Stats(ctx context.Context) (*admin.Stats, error) {
	var stats admin.Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		stats.TotalUsers, err = s.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = s.products.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalOrders, err = s.orders.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSubscriptions, err = s.subscriptions.CountActive(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = s.orders.Revenue(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return &stats, nil
}

// ListUsers returns every user, newest first
func (s *AdminService) ListUsers(ctx context.Context) ([]user.User, error) {
	return s.users.List(ctx)
}
