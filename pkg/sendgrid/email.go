package sendgrid

import (
	"context"
	"fmt"
	"strings"

	"github.com/aymenbt/minishop/internal/config"
	"github.com/aymenbt/minishop/internal/models"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailService sends transactional mail through SendGrid.
type EmailService interface {
	SendOrderConfirmation(ctx context.Context, toEmail, toName string, order *models.Order) error
}

type emailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService(cfg *config.SendGrid) EmailService {
	return &emailService{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (e *emailService) SendOrderConfirmation(ctx context.Context, toEmail, toName string, order *models.Order) error {

	from := mail.NewEmail(e.fromName, e.fromEmail)
	to := mail.NewEmail(toName, toEmail)

	subject := fmt.Sprintf("Order confirmation %s", order.ID)

	message := mail.NewSingleEmail(from, subject, to, orderSummaryText(order), orderSummaryHTML(order))

	response, err := e.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	return nil
}

func orderSummaryText(order *models.Order) string {

	var b strings.Builder

	fmt.Fprintf(&b, "Thank you for your order.\n\n")

	for _, item := range order.OrderItems {
		fmt.Fprintf(&b, "- %s x%d (%.2f)\n", item.ProductTitle, item.Quantity, item.ProductPrice)
	}

	fmt.Fprintf(&b, "\nTotal: %.2f\nShipping to: %s\n", order.Total, order.Address)

	return b.String()
}

func orderSummaryHTML(order *models.Order) string {

	var b strings.Builder

	b.WriteString("<p>Thank you for your order.</p><ul>")

	for _, item := range order.OrderItems {
		fmt.Fprintf(&b, "<li>%s x%d (%.2f)</li>", item.ProductTitle, item.Quantity, item.ProductPrice)
	}

	fmt.Fprintf(&b, "</ul><p>Total: %.2f</p><p>Shipping to: %s</p>", order.Total, order.Address)

	return b.String()
}
