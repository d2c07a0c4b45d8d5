// internal/domain/product/entity.go
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                   string          `json:"id" db:"id"`
	Name                 string          `json:"name" db:"name"`
	Description          string          `json:"description" db:"description"`
	Price                decimal.Decimal `json:"price" db:"price"`
	Image                string          `json:"image" db:"image"`
	Category             string          `json:"category" db:"category"`
	SubscriptionEligible bool            `json:"subscription_eligible" db:"subscription_eligible"`
	Stock                int             `json:"stock" db:"stock"`
	Rating               decimal.Decimal `json:"rating" db:"rating"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
