package models

import (
	"time"

	"github.com/google/uuid"
)

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusCompleted CartStatus = "completed"
	CartStatusCancelled CartStatus = "cancelled"
)

// CartItem is one line of a cart. UnitPrice is captured when the line is
// added and does not follow later catalog price changes.
type CartItem struct {
	ProductID uuid.UUID `json:"product_id"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	Product   *Product  `json:"product,omitempty"`
}

// Cart holds the items of a single user. At most one cart per user is in the
// "active" status at any time; items keep insertion order and hold at most
// one line per product.
type Cart struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"total_amount"`
	Status      CartStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// FindItem returns the line for productID, or -1 when the cart has none.
func (c *Cart) FindItem(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}

	return -1
}

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"required,min=1"`
}

type UpdateItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity"   validate:"required,min=1"`
}

type CheckoutRequest struct {
	Address string `json:"address"`
}
