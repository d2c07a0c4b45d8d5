package catalog

import (
	"context"
	"errors"
	"testing"

	"grocer-service/internal/domain/product"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memProducts struct {
	byName map[string]product.Product
	err    error
}

func (m *memProducts) CreateIfMissing(_ context.Context, p *product.Product) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	if _, ok := m.byName[p.Name]; ok {
		return false, nil
	}
	m.byName[p.Name] = *p
	return true, nil
}

func (m *memProducts) Count(context.Context) (int64, error) {
	return int64(len(m.byName)), nil
}

func TestBaseCatalogParses(t *testing.T) {
	products, err := BaseCatalog()
	require.NoError(t, err)
	require.NotEmpty(t, products)

	names := map[string]bool{}
	eligible := 0
	for _, p := range products {
		assert.False(t, names[p.Name], "duplicate %s", p.Name)
		names[p.Name] = true
		assert.True(t, p.Price.IsPositive(), p.Name)
		if p.SubscriptionEligible {
			eligible++
		}
	}
	assert.Positive(t, eligible)

	assert.Equal(t, "Amul Taaza Toned Milk (1L)", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "4.6", products[0].Rating.String())
}

func TestParseRejectsBadEntries(t *testing.T) {
	_, err := Parse([]byte("- description: no name\n  price: 1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("- name: Refund\n  price: -5\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("not: [a list"))
	assert.Error(t, err)
}

func TestSeedCatalogIsIdempotent(t *testing.T) {
	store := &memProducts{byName: map[string]product.Product{}}
	svc := NewCatalogService(store, zap.NewNop())

	all, err := BaseCatalog()
	require.NoError(t, err)

	inserted, err := svc.SeedCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(all), inserted)

	inserted, err = svc.SeedCatalog(context.Background())
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestSeedSkipsExistingNames(t *testing.T) {
	store := &memProducts{byName: map[string]product.Product{
		"Fresh Bananas (1kg)": {Name: "Fresh Bananas (1kg)"},
	}}
	svc := NewCatalogService(store, zap.NewNop())

	inserted, err := svc.Seed(context.Background(), []product.Product{
		{Name: "Fresh Bananas (1kg)"},
		{Name: "Onions (5kg Pack)"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}

func TestSeedStopsOnStoreError(t *testing.T) {
	store := &memProducts{byName: map[string]product.Product{}, err: errors.New("db down")}
	_, err := NewCatalogService(store, zap.NewNop()).SeedCatalog(context.Background())
	assert.Error(t, err)
}
