// internal/repository/postgres/product_repo.go
package postgres

import (
	"context"
	"fmt"

	"grocer-service/internal/domain/product"
	"grocer-service/internal/pkg/id"
)

type ProductRepository struct {
	db Querier
}

func NewProductRepository(db Querier) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, description, price, image, category,
	subscription_eligible, stock, rating, created_at, updated_at`

// FindByID retrieves a product by ID
func (r *ProductRepository) FindByID(ctx context.Context, productID string) (*product.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p product.Product
	err := r.db.QueryRow(ctx, query, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Image, &p.Category,
		&p.SubscriptionEligible, &p.Stock, &p.Rating, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", productID, notFound(err))
	}

	return &p, nil
}

// CreateIfMissing inserts the product unless one with the same name exists.
// It reports whether a row was inserted.
func (r *ProductRepository) CreateIfMissing(ctx context.Context, p *product.Product) (bool, error) {
	if p.ID == "" {
		p.ID = id.New()
	}

	query := `
		INSERT INTO products (
			id, name, description, price, image, category,
			subscription_eligible, stock, rating
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO NOTHING
	`

	tag, err := r.db.Exec(
		ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Image, p.Category,
		p.SubscriptionEligible, p.Stock, p.Rating,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert product %q: %w", p.Name, err)
	}

	return tag.RowsAffected() == 1, nil
}

// Count returns the number of products in the catalog
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
