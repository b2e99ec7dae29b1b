package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aymenbt/minishop/internal/api/middleware"
	"github.com/aymenbt/minishop/internal/models"
	service "github.com/aymenbt/minishop/internal/services"
	"github.com/aymenbt/minishop/internal/utils"
	"github.com/aymenbt/minishop/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

// ListProducts godoc
//	@Summary		List catalog products
//	@Description	Returns every product in the catalog.
//	@Tags			Products
//	@Produce		json
//	@Success		200	{array}		models.Product
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		products, err := h.productService.ListProducts(r.Context())
		if err != nil {
			logger.Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

// GetProduct godoc
//	@Summary		Get a product by ID
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string	true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Product
//	@Failure		400	{object}	response.ErrorResponse	"Invalid product ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			logger.Error("Failed to get product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusCreated, product)
	}
}

func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update product input")
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			logger.Error("Failed to update product", slog.String("productId", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Product updated", slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusOK, product)
	}
}
