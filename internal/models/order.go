package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusInProgress OrderStatus = "En Cours"
	OrderStatusDelivered  OrderStatus = "Livrée"
)

// OrderItem is a denormalized point-in-time copy of a cart line and its
// product. ProductPrice and UnitPrice both carry the price captured when the
// item entered the cart; orders never reference live products.
type OrderItem struct {
	ProductTitle string  `json:"product_title"`
	ProductImage string  `json:"product_image"`
	ProductPrice float64 `json:"product_price"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price,omitempty"`
}

type Order struct {
	ID         uuid.UUID   `json:"id"`
	UserID     uuid.UUID   `json:"user_id"`
	OrderItems []OrderItem `json:"order_items"`
	Total      float64     `json:"total"`
	Address    string      `json:"address"`
	Status     OrderStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof='En Cours' 'Livrée'"`
}

type OrderListResponse struct {
	Orders []Order `json:"orders"`
	Count  int     `json:"count"`
}
