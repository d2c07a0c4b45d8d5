package order

import (
	"context"
	"fmt"
	"testing"

	"grocer-service/internal/domain/notification"
	"grocer-service/internal/domain/order"
	"grocer-service/internal/domain/product"
	"grocer-service/internal/domain/user"
	xerrors "grocer-service/internal/pkg/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memRepo struct {
	orders map[string]*order.Order
}

func (m *memRepo) Create(_ context.Context, o *order.Order) error {
	o.ID = fmt.Sprintf("order-%d", len(m.orders)+1)
	m.orders[o.ID] = o
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id string) (*order.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, xerrors.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, userID string) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range m.orders {
		if userID == "" || o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id string, status order.Status) error {
	o, ok := m.orders[id]
	if !ok {
		return xerrors.ErrNotFound
	}
	o.Status = status
	return nil
}

type products map[string]*product.Product

func (p products) FindByID(_ context.Context, id string) (*product.Product, error) {
	if pr, ok := p[id]; ok {
		return pr, nil
	}
	return nil, xerrors.ErrNotFound
}

type users map[string]*user.User

func (u users) FindByID(_ context.Context, id string) (*user.User, error) {
	if usr, ok := u[id]; ok {
		return usr, nil
	}
	return nil, xerrors.ErrNotFound
}

type recorder struct {
	rooms []string
	kinds []notification.Kind
}

func (r *recorder) NotifyAdmins(_ context.Context, kind notification.Kind, _ map[string]interface{}) {
	r.rooms = append(r.rooms, notification.AdminRoom)
	r.kinds = append(r.kinds, kind)
}

func (r *recorder) NotifyUserAndAdmins(_ context.Context, userID string, kind notification.Kind, _ map[string]interface{}) {
	r.rooms = append(r.rooms, userID, notification.AdminRoom)
	r.kinds = append(r.kinds, kind, kind)
}

func newService() (*OrderService, *memRepo, *recorder) {
	repo := &memRepo{orders: map[string]*order.Order{}}
	rec := &recorder{}
	svc := NewOrderService(repo,
		products{
			"milk":  {ID: "milk", Price: decimal.NewFromInt(50)},
			"bread": {ID: "bread", Price: decimal.RequireFromString("45.50")},
		},
		users{"alice": {ID: "alice", Name: "Alice", Addresses: []user.Address{{City: "Pune", IsDefault: true}}}},
		rec, zap.NewNop())
	return svc, repo, rec
}

func TestCreateOrderUsesCatalogPrices(t *testing.T) {
	svc, _, rec := newService()

	o, err := svc.Create(context.Background(), "alice", &order.CreateOrderRequest{
		Items: []order.CreateItemRequest{
			{ProductID: "milk", Quantity: 2},
			{ProductID: "bread", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.Nil(t, o.SubscriptionID)
	assert.True(t, o.TotalAmount.Equal(decimal.RequireFromString("145.50")))
	assert.Equal(t, "Pune", o.ShippingAddress.City)

	assert.Equal(t, []string{notification.AdminRoom}, rec.rooms)
	assert.Equal(t, []notification.Kind{notification.KindNewOrder}, rec.kinds)
}

func TestCreateOrderWithExplicitAddress(t *testing.T) {
	svc, _, _ := newService()

	o, err := svc.Create(context.Background(), "alice", &order.CreateOrderRequest{
		Items:           []order.CreateItemRequest{{ProductID: "milk", Quantity: 1}},
		ShippingAddress: &user.Address{City: "Mumbai"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mumbai", o.ShippingAddress.City)
}

func TestCreateOrderRejections(t *testing.T) {
	svc, repo, rec := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", &order.CreateOrderRequest{})
	assert.ErrorIs(t, err, xerrors.ErrEmptyOrder)

	_, err = svc.Create(ctx, "alice", &order.CreateOrderRequest{Items: []order.CreateItemRequest{{ProductID: "caviar", Quantity: 1}}})
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	_, err = svc.Create(ctx, "alice", &order.CreateOrderRequest{Items: []order.CreateItemRequest{{ProductID: "milk", Quantity: 0}}})
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	assert.Empty(t, repo.orders)
	assert.Empty(t, rec.kinds)
}

func TestGetChecksOwnership(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	o, err := svc.Create(ctx, "alice", &order.CreateOrderRequest{Items: []order.CreateItemRequest{{ProductID: "milk", Quantity: 1}}})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", false, o.ID)
	assert.ErrorIs(t, err, xerrors.ErrForbidden)

	got, err := svc.Get(ctx, "root", true, o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.ID)

	_, err = svc.Get(ctx, "alice", false, "missing")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)
}

func TestUpdateStatus(t *testing.T) {
	svc, repo, rec := newService()
	ctx := context.Background()

	o, err := svc.Create(ctx, "alice", &order.CreateOrderRequest{Items: []order.CreateItemRequest{{ProductID: "milk", Quantity: 1}}})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, o.ID, "shipped")
	assert.ErrorIs(t, err, xerrors.ErrInvalidInput)

	updated, err := svc.UpdateStatus(ctx, o.ID, order.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, order.StatusDelivered, updated.Status)
	assert.Equal(t, order.StatusDelivered, repo.orders[o.ID].Status)

	assert.Equal(t, []string{notification.AdminRoom, "alice", notification.AdminRoom}, rec.rooms)
}
