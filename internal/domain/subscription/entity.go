// internal/domain/subscription/entity.go
package subscription

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusCancelled:
		return true
	}
	return false
}

// Subscription is a recurring delivery of one product at a fixed quantity
// every Interval days.
type Subscription struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"user_id" db:"user_id"`
	ProductID        string    `json:"product_id" db:"product_id"`
	Quantity         int       `json:"quantity" db:"quantity"`
	Interval         int       `json:"interval" db:"interval_days"`
	NextDeliveryDate time.Time `json:"next_delivery_date" db:"next_delivery_date"`
	Status           Status    `json:"status" db:"status"`
	AutoRenew        bool      `json:"auto_renew" db:"auto_renew"`
	StartDate        time.Time `json:"start_date" db:"start_date"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the subscription is eligible for renewal.
func (s *Subscription) IsActive() bool {
	return s.Status == StatusActive
}

// NextAfter returns the delivery date that follows from, Interval days later.
func (s *Subscription) NextAfter(from time.Time) time.Time {
	return from.AddDate(0, 0, s.Interval)
}

// SubscriptionDetail is a subscription joined with the display fields the
// storefront and admin console render next to it.
type SubscriptionDetail struct {
	Subscription
	ProductName string `json:"product_name"`
	UserName    string `json:"user_name,omitempty"`
	UserEmail   string `json:"user_email,omitempty"`
}
