package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aymenbt/minishop/internal/api/middleware"
	"github.com/aymenbt/minishop/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWTKey = []byte("test-signing-key")

func signToken(t *testing.T, key []byte, expiresAt time.Time) (string, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	claims := &models.Claims{
		UserID: userID,
		Email:  "test@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	require.NoError(t, err)

	return tokenString, userID
}

func TestAuthenticate(t *testing.T) {
	authMiddleware := middleware.NewAuthMiddleware(testJWTKey)

	t.Run("Success - Valid Token", func(t *testing.T) {
		// Arrange
		tokenString, userID := signToken(t, testJWTKey, time.Now().Add(time.Hour))

		var gotClaims *models.Claims

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotClaims, _ = r.Context().Value(middleware.UserContextKey).(*models.Claims)
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		recorder := httptest.NewRecorder()

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, userID, gotClaims.UserID)
	})

	t.Run("Failure - Missing Header", func(t *testing.T) {
		// Arrange
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		recorder := httptest.NewRecorder()

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Failure - Malformed Header", func(t *testing.T) {
		// Arrange
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Token abc")
		recorder := httptest.NewRecorder()

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Failure - Wrong Signing Key", func(t *testing.T) {
		// Arrange
		tokenString, _ := signToken(t, []byte("some-other-key"), time.Now().Add(time.Hour))

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		recorder := httptest.NewRecorder()

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("Failure - Expired Token", func(t *testing.T) {
		// Arrange
		tokenString, _ := signToken(t, testJWTKey, time.Now().Add(-time.Hour))

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		req.Header.Set("Authorization", "Bearer "+tokenString)
		recorder := httptest.NewRecorder()

		// Act
		authMiddleware.Authenticate(next).ServeHTTP(recorder, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
