// internal/domain/order/entity.go
package order

import (
	"time"

	"grocer-service/internal/domain/user"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Item is an order line. Price is the unit price captured when the order
// was created.
type Item struct {
	ProductID string          `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}

// Subtotal returns Price × Quantity.
func (i Item) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Order struct {
	ID              string          `json:"id" db:"id"`
	UserID          string          `json:"user_id" db:"user_id"`
	Items           []Item          `json:"items"`
	TotalAmount     decimal.Decimal `json:"total_amount" db:"total_amount"`
	ShippingAddress user.Address    `json:"shipping_address" db:"shipping_address"`
	SubscriptionID  *string         `json:"subscription_id,omitempty" db:"subscription_id"`
	Status          Status          `json:"status" db:"status"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Total sums the item subtotals.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// New builds a pending order whose total is computed from items.
func New(userID string, items []Item, shipping user.Address, subscriptionID *string) *Order {
	return &Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     Total(items),
		ShippingAddress: shipping,
		SubscriptionID:  subscriptionID,
		Status:          StatusPending,
	}
}
