package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/aymenbt/minishop/internal/api/middleware"
	"github.com/aymenbt/minishop/internal/models"
	"github.com/google/uuid"
)

// CreateTestRequestWithContext builds a request carrying authenticated user
// claims and a discard logger, the way the middleware chain would.
func CreateTestRequestWithContext(method, target string, body io.Reader, userID uuid.UUID, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	claims := &models.Claims{UserID: userID, Email: "test@example.com"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)
	ctx = context.WithValue(ctx, middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}

// CreateTestRequestWithoutContext builds a request with only a discard
// logger, for exercising the unauthenticated paths.
func CreateTestRequestWithoutContext(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.WithValue(req.Context(), middleware.LoggerKey, logger)

	return req.WithContext(ctx)
}
