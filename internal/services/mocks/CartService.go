package mocks

import (
	"context"

	"github.com/aymenbt/minishop/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type CartService struct {
	mock.Mock
}

func (m *CartService) GetActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *models.UpdateItemRequest) (*models.Cart, error) {
	args := m.Called(ctx, userID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID, productID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}

func (m *CartService) ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Cart), args.Error(1)
}
