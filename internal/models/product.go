package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is read-only from the cart's perspective; its lifecycle is owned by
// seeding and the admin endpoints.
type Product struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateProductRequest struct {
	Title string  `json:"title" validate:"required,min=1,max=200"`
	Image string  `json:"image" validate:"required,url"`
	Price float64 `json:"price" validate:"gte=0"`
	Stock int     `json:"stock" validate:"gte=0"`
}

type UpdateProductRequest struct {
	Title *string  `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Image *string  `json:"image,omitempty" validate:"omitempty,url"`
	Price *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
}
