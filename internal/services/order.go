package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/aymenbt/minishop/internal/api/middleware"
	appErrors "github.com/aymenbt/minishop/internal/errors"
	"github.com/aymenbt/minishop/internal/models"
	repository "github.com/aymenbt/minishop/internal/repositories"
	"github.com/google/uuid"
)

// Emailer sends transactional mail. Failures never fail the triggering
// operation.
type Emailer interface {
	SendOrderConfirmation(ctx context.Context, toEmail, toName string, order *models.Order) error
}

type OrderService interface {
	Checkout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	cartService CartService
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	emailer     Emailer
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	cartService CartService,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	emailer Emailer,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		cartService: cartService,
		productRepo: productRepo,
		userRepo:    userRepo,
		emailer:     emailer,
	}
}

// Checkout turns the user's active cart into an order. Each line's product is
// resolved again for its current title and image, but the charged price stays
// the one captured when the line entered the cart. An empty cart checks out
// into an empty order; stock is not decremented.
func (s *orderService) Checkout(ctx context.Context, userID uuid.UUID, req *models.CheckoutRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Address) == "" {
		return nil, appErrors.AddressRequiredError("Shipping address is required")
	}

	cart, err := s.cartService.GetActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	orderItems := make([]models.OrderItem, 0, len(cart.Items))

	for _, item := range cart.Items {

		product, err := s.productRepo.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.ProductNotFoundError("Product not found")
			}

			return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
		}

		orderItems = append(orderItems, models.OrderItem{
			ProductTitle: product.Title,
			ProductImage: product.Image,
			ProductPrice: item.UnitPrice,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		})
	}

	order := &models.Order{
		ID:         uuid.New(),
		UserID:     userID,
		OrderItems: orderItems,
		Total:      cart.TotalAmount,
		Address:    req.Address,
		Status:     models.OrderStatusInProgress,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, appErrors.OrderCreationFailedError("Failed to create order").WithError(err)
	}

	// The cart is retired only after the order is durable. If this fails the
	// order still stands; the user keeps an already-converted cart.
	if err := s.cartRepo.CompleteCart(ctx, cart.ID); err != nil {
		logger.Error("Failed to complete cart after checkout",
			slog.String("cartId", cart.ID.String()),
			slog.String("orderId", order.ID.String()),
			slog.Any("error", err))
	}

	s.sendConfirmation(ctx, userID, order)

	return order, nil
}

func (s *orderService) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {

	orders, err := s.orderRepo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch order").WithError(err)
	}

	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	err := s.orderRepo.UpdateOrderStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found")
		}

		return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	return s.GetOrderByID(ctx, id)
}

func (s *orderService) sendConfirmation(ctx context.Context, userID uuid.UUID, order *models.Order) {

	if s.emailer == nil {
		return
	}

	logger := middleware.LoggerFromContext(ctx)

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Warn("Skipping order confirmation email, user lookup failed",
			slog.String("userId", userID.String()),
			slog.Any("error", err))

		return
	}

	name := strings.TrimSpace(user.FirstName + " " + user.LastName)

	if err := s.emailer.SendOrderConfirmation(ctx, user.Email, name, order); err != nil {
		logger.Warn("Failed to send order confirmation email",
			slog.String("orderId", order.ID.String()),
			slog.Any("error", err))
	}
}
