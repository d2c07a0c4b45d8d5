package admin

import (
	"context"
	"errors"
	"testing"

	"grocer-service/internal/domain/user"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	n   int64
	err error
}

func (c counter) Count(context.Context) (int64, error)       { return c.n, c.err }
func (c counter) CountActive(context.Context) (int64, error) { return c.n, c.err }

type usersFake struct {
	counter
	list []user.User
}

func (u usersFake) List(context.Context) ([]user.User, error) { return u.list, nil }

type ordersFake struct {
	counter
	revenue decimal.Decimal
}

func (o ordersFake) Revenue(context.Context) (decimal.Decimal, error) { return o.revenue, nil }

func TestStats(t *testing.T) {
	svc := NewAdminService(
		usersFake{counter: counter{n: 4}},
		counter{n: 20},
		ordersFake{counter: counter{n: 9}, revenue: decimal.RequireFromString("1234.50")},
		counter{n: 3},
	)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalUsers)
	assert.Equal(t, int64(20), stats.TotalProducts)
	assert.Equal(t, int64(9), stats.TotalOrders)
	assert.Equal(t, int64(3), stats.TotalSubscriptions)
	assert.Equal(t, "1234.5", stats.TotalRevenue.String())
}

func TestStatsFailsWhenAnyCounterFails(t *testing.T) {
	boom := errors.New("boom")
	svc := NewAdminService(
		usersFake{},
		counter{err: boom},
		ordersFake{},
		counter{},
	)

	_, err := svc.Stats(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestListUsers(t *testing.T) {
	svc := NewAdminService(usersFake{list: []user.User{{ID: "a"}, {ID: "b"}}}, counter{}, ordersFake{}, counter{})
	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
