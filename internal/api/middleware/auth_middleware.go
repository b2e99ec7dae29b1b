package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aymenbt/minishop/internal/errors"
	"github.com/aymenbt/minishop/internal/models"
	"github.com/aymenbt/minishop/internal/utils/response"
	"github.com/golang-jwt/jwt/v5"
)

type userContextKey string

// UserContextKey is the context key under which the authenticated user's
// claims live.
const UserContextKey = userContextKey("user")

type AuthMiddleware struct {
	jwtKey []byte
}

func NewAuthMiddleware(jwtKey []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtKey: jwtKey}
}

// Authenticate validates the bearer token and injects the claims plus a
// user-scoped logger into the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := LoggerFromContext(r.Context())

		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			logger.Warn("Missing authorization header")
			response.Error(w, errors.UnauthorizedError("Authorization header is required"))
			return
		}

		// Token is of format : "Bearer <token>"
		tokenParts := strings.Split(authHeader, " ")

		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			logger.Warn("Invalid authorization header format")
			response.Error(w, errors.UnauthorizedError("Invalid authorization format"))
			return
		}

		tokenString := tokenParts[1]

		claims := &models.Claims{}

		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				logger.Error("Unexpected signing method used in JWT", slog.Any("alg", t.Header["alg"]))
				return nil, errors.BadRequestError("unexpected signing method")
			}
			return m.jwtKey, nil
		})

		if err != nil {
			logger.Warn("JWT parsing failed", slog.String("error", err.Error()))
			response.Error(w, errors.UnauthorizedError("Invalid or expired token"))
			return
		}

		if !token.Valid {
			logger.Warn("Invalid token")
			response.Error(w, errors.UnauthorizedError("Invalid token"))
			return
		}

		if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(time.Now()) {
			logger.Warn("Expired token", slog.String("userId", claims.UserID.String()))
			response.Error(w, errors.UnauthorizedError("Token expired"))
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)

		requestScopedLogger := logger.With(slog.String("userId", claims.UserID.String()))
		ctx = context.WithValue(ctx, LoggerKey, requestScopedLogger)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
