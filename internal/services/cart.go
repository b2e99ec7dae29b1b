package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/aymenbt/minishop/internal/api/middleware"
	appErrors "github.com/aymenbt/minishop/internal/errors"
	"github.com/aymenbt/minishop/internal/models"
	repository "github.com/aymenbt/minishop/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, req *models.UpdateItemRequest) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*models.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetActiveCart returns the user's active cart, creating an empty one when
// none exists. Creation goes through an insert that yields to a concurrent
// winner, so the follow-up fetch always converges on a single active cart.
func (s *cartService) GetActiveCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetActiveCartByUserID(ctx, userID)
	if err == nil {
		s.populateProducts(ctx, cart)
		return cart, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	newCart := &models.Cart{
		ID:          uuid.New(),
		UserID:      userID,
		Items:       []models.CartItem{},
		TotalAmount: 0,
		Status:      models.CartStatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.cartRepo.CreateCart(ctx, newCart); err != nil {
		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	cart, err = s.cartRepo.GetActiveCartByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	s.populateProducts(ctx, cart)

	return cart, nil
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddItemRequest) (*models.Cart, error) {

	cart, err := s.getActiveCartRaw(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Duplicate lines are rejected outright, before the product is even
	// resolved; the client is expected to update the existing line instead.
	if cart.FindItem(req.ProductID) != -1 {
		return nil, appErrors.DuplicateItemError("Item already exists in cart")
	}

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ProductNotFoundError("Product not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.Quantity > product.Stock {
		return nil, appErrors.InsufficientStockError("Low stock on item")
	}

	cart.Items = append(cart.Items, models.CartItem{
		ProductID: product.ID,
		UnitPrice: product.Price,
		Quantity:  req.Quantity,
	})

	// The line total is added on top of the running amount; only updates and
	// removals trigger a full recompute.
	cart.TotalAmount += product.Price * float64(req.Quantity)
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	s.populateProducts(ctx, cart)

	return cart, nil
}

func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, req *models.UpdateItemRequest) (*models.Cart, error) {

	cart, err := s.getActiveCartRaw(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(req.ProductID)
	if idx == -1 {
		return nil, appErrors.ItemNotFoundError("Item does not exist in cart")
	}

	product, err := s.productRepo.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ProductNotFoundError("Product not found")
		}

		return nil, appErrors.DatabaseError("Failed to fetch product").WithError(err)
	}

	if req.Quantity > product.Stock {
		return nil, appErrors.InsufficientStockError("Low stock on item")
	}

	cart.Items[idx].Quantity = req.Quantity
	cart.TotalAmount = calculateTotal(cart.Items)
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	s.populateProducts(ctx, cart)

	return cart, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*models.Cart, error) {

	cart, err := s.getActiveCartRaw(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := cart.FindItem(productID)
	if idx == -1 {
		return nil, appErrors.ItemNotFoundError("Item does not exist in cart")
	}

	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	cart.TotalAmount = calculateTotal(cart.Items)
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	s.populateProducts(ctx, cart)

	return cart, nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.getActiveCartRaw(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.Items = []models.CartItem{}
	cart.TotalAmount = 0
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return cart, nil
}

// getActiveCartRaw is GetActiveCart without product population, for the write
// paths that re-save the items right after.
func (s *cartService) getActiveCartRaw(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {

	cart, err := s.cartRepo.GetActiveCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}

	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	newCart := &models.Cart{
		ID:          uuid.New(),
		UserID:      userID,
		Items:       []models.CartItem{},
		TotalAmount: 0,
		Status:      models.CartStatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.cartRepo.CreateCart(ctx, newCart); err != nil {
		return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
	}

	cart, err = s.cartRepo.GetActiveCartByUserID(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to fetch cart").WithError(err)
	}

	return cart, nil
}

// populateProducts attaches the current catalog row to each line for display.
// Lookups are best effort; a vanished product just leaves the line bare.
func (s *cartService) populateProducts(ctx context.Context, cart *models.Cart) {

	logger := middleware.LoggerFromContext(ctx)

	for i := range cart.Items {

		product, err := s.productRepo.GetProductByID(ctx, cart.Items[i].ProductID)
		if err != nil {
			logger.Warn("Failed to resolve product for cart item",
				slog.String("productId", cart.Items[i].ProductID.String()),
				slog.Any("error", err))

			continue
		}

		cart.Items[i].Product = product
	}
}

// calculateTotal sums line totals from the captured unit prices, not the
// current catalog prices.
func calculateTotal(items []models.CartItem) float64 {

	var total float64

	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}

	return total
}
