package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

type Cache struct {
	mock.Mock
}

func (m *Cache) Get(ctx context.Context, key string, value any) (bool, error) {
	args := m.Called(ctx, key, value)

	return args.Bool(0), args.Error(1)
}

func (m *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)

	return args.Error(0)
}

func (m *Cache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)

	return args.Error(0)
}
