// internal/domain/subscription/dto.go
package subscription

import "time"

type CreateSubscriptionRequest struct {
	ProductID string     `json:"product_id" binding:"required"`
	Quantity  int        `json:"quantity" binding:"required,min=1"`
	Interval  int        `json:"interval" binding:"required,min=1"`
	StartDate *time.Time `json:"start_date,omitempty"`
	AutoRenew *bool      `json:"auto_renew,omitempty"`
}

type UpdateSubscriptionRequest struct {
	Status    *Status `json:"status,omitempty"`
	Interval  *int    `json:"interval,omitempty" binding:"omitempty,min=1"`
	Quantity  *int    `json:"quantity,omitempty" binding:"omitempty,min=1"`
	AutoRenew *bool   `json:"auto_renew,omitempty"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}
