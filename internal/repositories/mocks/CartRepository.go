package mocks

import (
	"context"

	"github.com/aymenbt/minishop/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartRepository struct {
	mock.Mock
}

func (m *CartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

func (m *CartRepository) GetActiveCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartRepository) UpdateCart(ctx context.Context, cart *models.Cart) error {
	args := m.Called(ctx, cart)

	return args.Error(0)
}

func (m *CartRepository) CompleteCart(ctx context.Context, cartID uuid.UUID) error {
	args := m.Called(ctx, cartID)

	return args.Error(0)
}
