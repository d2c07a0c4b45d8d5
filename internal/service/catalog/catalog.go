package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"grocer-service/internal/domain/product"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var baseCatalog []byte

// ProductStore inserts catalog rows keyed by name.
type ProductStore interface {
	CreateIfMissing(ctx context.Context, p *product.Product) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type seedProduct struct {
	Name                 string  `yaml:"name"`
	Description          string  `yaml:"description"`
	Price                float64 `yaml:"price"`
	Image                string  `yaml:"image"`
	Category             string  `yaml:"category"`
	SubscriptionEligible bool    `yaml:"subscription_eligible"`
	Stock                int     `yaml:"stock"`
	Rating               float64 `yaml:"rating"`
}

// Parse decodes a YAML product list.
func Parse(data []byte) ([]product.Product, error) {
	var seeds []seedProduct
	if err := yaml.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	products := make([]product.Product, 0, len(seeds))
	for i, s := range seeds {
		if s.Name == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", i)
		}
		if s.Price < 0 {
			return nil, fmt.Errorf("catalog entry %q has a negative price", s.Name)
		}
		products = append(products, product.Product{
			Name:                 s.Name,
			Description:          s.Description,
			Price:                decimal.NewFromFloat(s.Price),
			Image:                s.Image,
			Category:             s.Category,
			SubscriptionEligible: s.SubscriptionEligible,
			Stock:                s.Stock,
			Rating:               decimal.NewFromFloat(s.Rating),
		})
	}
	return products, nil
}

// BaseCatalog returns the built-in product list.
func BaseCatalog() ([]product.Product, error) {
	return Parse(baseCatalog)
}

type CatalogService struct {
	store  ProductStore
	logger *zap.Logger
}

func NewCatalogService(store ProductStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{store: store, logger: logger}
}

// SeedCatalog inserts every base product whose name is not in the store
// yet and returns how many were added.
func (s *CatalogService) SeedCatalog(ctx context.Context) (int, error) {
	products, err := BaseCatalog()
	if err != nil {
		return 0, err
	}
	return s.Seed(ctx, products)
}

func (s *CatalogService) Seed(ctx context.Context, products []product.Product) (int, error) {
	existing, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing == 0 {
		s.logger.Info("catalog is empty, seeding products", zap.Int("products", len(products)))
	} else {
		s.logger.Info("ensuring base catalog is present", zap.Int64("existing", existing))
	}

	inserted := 0
	for i := range products {
		ok, err := s.store.CreateIfMissing(ctx, &products[i])
		if err != nil {
			return inserted, err
		}
		if ok {
			inserted++
		}
	}

	if inserted > 0 {
		s.logger.Info("seeded catalog products", zap.Int("inserted", inserted))
	} else {
		s.logger.Info("catalog already contains all base products")
	}
	return inserted, nil
}
