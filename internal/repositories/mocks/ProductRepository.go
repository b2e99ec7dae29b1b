package mocks

import (
	"context"

	"github.com/aymenbt/minishop/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *ProductRepository) CountProducts(ctx context.Context) (int, error) {
	args := m.Called(ctx)

	return args.Int(0), args.Error(1)
}
