package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aymenbt/minishop/internal/api/handlers"
	appErrors "github.com/aymenbt/minishop/internal/errors"
	"github.com/aymenbt/minishop/internal/models"
	"github.com/aymenbt/minishop/internal/services/mocks"
	"github.com/aymenbt/minishop/internal/testutils"
	"github.com/aymenbt/minishop/internal/utils/response"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCartHandlerTest() (*mocks.CartService, *mocks.OrderService, *handlers.CartHandler) {
	cartService := new(mocks.CartService)
	orderService := new(mocks.OrderService)

	return cartService, orderService, handlers.NewCartHandler(cartService, orderService)
}

func decodeAPIResponse(t *testing.T, recorder *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&resp))

	return resp
}

func TestGetCartHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		cartService, _, handler := setupCartHandlerTest()
		userID := uuid.New()
		cart := &models.Cart{ID: uuid.New(), UserID: userID, Items: []models.CartItem{}, Status: models.CartStatusActive}
		cartService.On("GetActiveCart", mock.Anything, userID).Return(cart, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/cart", nil, userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.True(t, resp.Success)
		cartService.AssertExpectations(t)
	})

	t.Run("Failure - Missing Claims", func(t *testing.T) {
		// Arrange
		cartService, _, handler := setupCartHandlerTest()
		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, resp.Error.Code)
		cartService.AssertNotCalled(t, "GetActiveCart", mock.Anything, mock.Anything)
	})
}

func TestAddItemHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		cartService, _, handler := setupCartHandlerTest()
		cart := &models.Cart{ID: uuid.New(), UserID: userID, Items: []models.CartItem{{ProductID: productID, UnitPrice: 10000, Quantity: 2}}, TotalAmount: 20000}
		cartService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddItemRequest")).Return(cart, nil).Once()

		body, _ := json.Marshal(models.AddItemRequest{ProductID: productID, Quantity: 2})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		cartService.AssertExpectations(t)
	})

	t.Run("Failure - Duplicate Item", func(t *testing.T) {
		// Arrange
		cartService, _, handler := setupCartHandlerTest()
		cartService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddItemRequest")).
			Return(nil, appErrors.DuplicateItemError("Item already exists in cart")).Once()

		body, _ := json.Marshal(models.AddItemRequest{ProductID: productID, Quantity: 1})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.Equal(t, appErrors.ErrCodeDuplicateItem, resp.Error.Code)
	})

	t.Run("Failure - Invalid Quantity", func(t *testing.T) {
		// Arrange
		cartService, _, handler := setupCartHandlerTest()

		body, _ := json.Marshal(map[string]any{"product_id": productID, "quantity": 0})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		cartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRemoveItemHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		cartService, _, handler := setupCartHandlerTest()
		cart := &models.Cart{ID: uuid.New(), UserID: userID, Items: []models.CartItem{}}
		cartService.On("RemoveItem", mock.Anything, userID, productID).Return(cart, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart/items/"+productID.String(), nil, userID,
			map[string]string{"productId": productID.String()})
		recorder := httptest.NewRecorder()

		// Act
		handler.RemoveItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		cartService.AssertExpectations(t)
	})

	t.Run("Failure - Invalid Product ID", func(t *testing.T) {
		// Arrange
		cartService, _, handler := setupCartHandlerTest()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart/items/not-a-uuid", nil, userID,
			map[string]string{"productId": "not-a-uuid"})
		recorder := httptest.NewRecorder()

		// Act
		handler.RemoveItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		cartService.AssertNotCalled(t, "RemoveItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Item Not Found", func(t *testing.T) {
		// Arrange
		cartService, _, handler := setupCartHandlerTest()
		cartService.On("RemoveItem", mock.Anything, userID, productID).
			Return(nil, appErrors.ItemNotFoundError("Item does not exist in cart")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart/items/"+productID.String(), nil, userID,
			map[string]string{"productId": productID.String()})
		recorder := httptest.NewRecorder()

		// Act
		handler.RemoveItem().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.Equal(t, appErrors.ErrCodeItemNotFound, resp.Error.Code)
	})
}

func TestCheckoutHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		_, orderService, handler := setupCartHandlerTest()
		order := &models.Order{ID: uuid.New(), UserID: userID, Status: models.OrderStatusInProgress, Address: "12 rue de la Paix"}
		orderService.On("Checkout", mock.Anything, userID, mock.AnythingOfType("*models.CheckoutRequest")).Return(order, nil).Once()

		body, _ := json.Marshal(models.CheckoutRequest{Address: "12 rue de la Paix"})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/checkout", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Checkout().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusCreated, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.True(t, resp.Success)
		orderService.AssertExpectations(t)
	})

	t.Run("Failure - Address Required", func(t *testing.T) {
		// Arrange
		_, orderService, handler := setupCartHandlerTest()
		orderService.On("Checkout", mock.Anything, userID, mock.AnythingOfType("*models.CheckoutRequest")).
			Return(nil, appErrors.AddressRequiredError("Shipping address is required")).Once()

		body, _ := json.Marshal(models.CheckoutRequest{Address: ""})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/checkout", bytes.NewBuffer(body), userID, nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Checkout().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		resp := decodeAPIResponse(t, recorder)
		assert.Equal(t, appErrors.ErrCodeAddressRequired, resp.Error.Code)
	})

	t.Run("Failure - Missing Claims", func(t *testing.T) {
		// Arrange
		_, orderService, handler := setupCartHandlerTest()

		body, _ := json.Marshal(models.CheckoutRequest{Address: "12 rue de la Paix"})
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/cart/checkout", bytes.NewBuffer(body), nil)
		recorder := httptest.NewRecorder()

		// Act
		handler.Checkout().ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		orderService.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
	})
}
