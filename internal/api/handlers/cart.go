package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aymenbt/minishop/internal/api/middleware"
	"github.com/aymenbt/minishop/internal/errors"
	"github.com/aymenbt/minishop/internal/models"
	service "github.com/aymenbt/minishop/internal/services"
	"github.com/aymenbt/minishop/internal/utils"
	"github.com/aymenbt/minishop/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// CartHandler serves the cart endpoints and checkout, which converts the cart
// into an order.
type CartHandler struct {
	cartService  service.CartService
	orderService service.OrderService
	validator    *validator.Validate
}

func NewCartHandler(cartService service.CartService, orderService service.OrderService) *CartHandler {
	return &CartHandler{
		cartService:  cartService,
		orderService: orderService,
		validator:    validator.New(),
	}
}

// GetCart godoc
//	@Summary		Get the active cart
//	@Description	Returns the authenticated user's active cart, creating an empty one when none exists.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.Cart
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetActiveCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add an item to the cart
//	@Description	Adds a product line to the active cart. A product already in the cart is rejected.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddItemRequest	true	"Product and quantity"
//	@Success		200		{object}	models.Cart
//	@Failure		400		{object}	response.ErrorResponse	"Validation error, duplicate item or insufficient stock"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Product not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		logger = logger.With(slog.String("userId", claims.UserID.String()))

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.String("productId", req.ProductID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		logger = logger.With(slog.String("userId", claims.UserID.String()))

		var req models.UpdateItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update item input")
			return
		}

		cart, err := h.cartService.UpdateItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Failed to update cart item", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item updated", slog.String("productId", req.ProductID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		logger = logger.With(slog.String("userId", claims.UserID.String()))

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			logger.Warn("Invalid product id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), claims.UserID, productID)
		if err != nil {
			logger.Error("Failed to remove cart item", slog.String("productId", productID.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item removed", slog.String("productId", productID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.ClearCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared", slog.String("userId", claims.UserID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

// Checkout godoc
//	@Summary		Checkout the active cart
//	@Description	Converts the active cart into an order shipped to the given address and retires the cart.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			checkout	body		models.CheckoutRequest	true	"Shipping address"
//	@Success		201			{object}	models.Order			"Created order"
//	@Failure		400			{object}	response.ErrorResponse	"Missing shipping address"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse	"A cart product no longer exists"
//	@Failure		500			{object}	response.ErrorResponse	"Order creation failed"
//	@Security		BearerAuth
//	@Router			/cart/checkout [post]
func (h *CartHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized checkout attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		logger = logger.With(slog.String("userId", claims.UserID.String()))

		var req models.CheckoutRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			logger.Warn("Invalid checkout input", slog.Any("error", err))
			response.Error(w, errors.BadRequestError("Invalid request body").WithError(err))
			return
		}

		order, err := h.orderService.Checkout(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Error("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout completed", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusCreated, order)
	}
}
