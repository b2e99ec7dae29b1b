package mocks

import (
	"context"

	"github.com/aymenbt/minishop/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)

	return args.Error(0)
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, userID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	args := m.Called(ctx, id, status)

	return args.Error(0)
}
