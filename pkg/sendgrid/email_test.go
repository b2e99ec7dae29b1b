package sendgrid

import (
	"testing"

	"github.com/aymenbt/minishop/internal/config"
	"github.com/aymenbt/minishop/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewEmailService(t *testing.T) {
	svc := NewEmailService(&config.SendGrid{APIKey: "SG.test", FromEmail: "orders@minishop.dev", FromName: "minishop"})
	assert.NotNil(t, svc)
}

func TestOrderSummaries(t *testing.T) {
	order := &models.Order{
		ID: uuid.New(),
		OrderItems: []models.OrderItem{
			{ProductTitle: "Laptop hp", ProductPrice: 10000, Quantity: 2},
			{ProductTitle: "Dell hp", ProductPrice: 40000, Quantity: 1},
		},
		Total:   60000,
		Address: "12 rue de la Paix",
	}

	t.Run("Plain Text", func(t *testing.T) {
		text := orderSummaryText(order)

		assert.Contains(t, text, "Laptop hp x2")
		assert.Contains(t, text, "Dell hp x1")
		assert.Contains(t, text, "Total: 60000.00")
		assert.Contains(t, text, "12 rue de la Paix")
	})

	t.Run("HTML", func(t *testing.T) {
		html := orderSummaryHTML(order)

		assert.Contains(t, html, "<li>Laptop hp x2 (10000.00)</li>")
		assert.Contains(t, html, "Total: 60000.00")
	})
}
