// internal/domain/order/dto.go
package order

import (
	"grocer-service/internal/domain/user"
)

type CreateItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Items           []CreateItemRequest `json:"items" binding:"required,min=1,dive"`
	ShippingAddress *user.Address       `json:"shipping_address,omitempty"`
}

type UpdateStatusRequest struct {
	Status Status `json:"status" binding:"required"`
}
