// internal/domain/admin/entity.go
package admin

import "github.com/shopspring/decimal"

// Stats is the admin dashboard summary.
type Stats struct {
	TotalUsers         int64           `json:"total_users"`
	TotalProducts      int64           `json:"total_products"`
	TotalOrders        int64           `json:"total_orders"`
	TotalSubscriptions int64           `json:"total_subscriptions"` // active only
	TotalRevenue       decimal.Decimal `json:"total_revenue"`       // orders not cancelled
}
