package mocks

import (
	"context"

	"github.com/aymenbt/minishop/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderService struct {
	mock.Mock
}

func (m *OrderService) Checkout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error) {
	args := m.Called(ctx, userID, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}
