package mocks

import (
	"context"

	"github.com/aymenbt/minishop/internal/models"
	"github.com/stretchr/testify/mock"
)

type Emailer struct {
	mock.Mock
}

func (m *Emailer) SendOrderConfirmation(ctx context.Context, toEmail, toName string, order *models.Order) error {
	args := m.Called(ctx, toEmail, toName, order)

	return args.Error(0)
}
