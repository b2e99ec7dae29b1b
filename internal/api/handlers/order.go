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

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// ListOrders godoc
//	@Summary		List the user's orders
//	@Description	Returns the authenticated user's orders, most recent first.
//	@Tags			Orders
//	@Produce		json
//	@Success		200	{object}	models.OrderListResponse
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		orders, err := h.orderService.ListOrdersByUser(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.OrderListResponse{Orders: orders, Count: len(orders)})
	}
}

// GetOrder godoc
//	@Summary		Get an order by ID
//	@Description	Retrieves one of the authenticated user's orders.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Order belongs to another user"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get order", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if order.UserID != claims.UserID {
			logger.Warn("Attempted to access another user's order",
				slog.String("orderId", id.String()),
				slog.String("userId", claims.UserID.String()))
			response.Error(w, errors.ForbiddenError("You do not have access to this order"))
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// UpdateStatus moves an order between "En Cours" and "Livrée".
func (h *OrderHandler) UpdateStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized order access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid order id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid order status input")
			return
		}

		existing, err := h.orderService.GetOrderByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		if existing.UserID != claims.UserID {
			logger.Warn("Attempted to update another user's order", slog.String("orderId", id.String()))
			response.Error(w, errors.ForbiddenError("You do not have access to this order"))
			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Error("Failed to update order status", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order status updated", slog.String("orderId", id.String()), slog.String("status", string(req.Status)))
		response.Success(w, http.StatusOK, order)
	}
}
