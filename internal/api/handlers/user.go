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

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

// Register godoc
//	@Summary		Register a new user
//	@Description	Creates a user account with a hashed password.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			user	body		models.RegisterRequest	true	"Registration details"
//	@Success		201		{object}	models.User				"Successfully registered user"
//	@Failure		400		{object}	response.ErrorResponse	"Validation error"
//	@Failure		409		{object}	response.ErrorResponse	"Email already registered"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/users/register [post]
func (h *UserHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.RegisterRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid registration input")
			return
		}

		user, err := h.userService.Register(r.Context(), &req)
		if err != nil {
			logger.Error("User registration failed", slog.String("email", req.Email), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("User registered", slog.String("userId", user.ID.String()))
		response.Success(w, http.StatusCreated, user)
	}
}

// Login godoc
//	@Summary		Authenticate a user
//	@Description	Verifies credentials and returns a signed JWT. Login attempts are rate limited per email.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		models.LoginRequest		true	"Login credentials"
//	@Success		200			{object}	models.LoginResponse	"Token issued"
//	@Failure		400			{object}	response.ErrorResponse	"Validation error"
//	@Failure		401			{object}	models.LoginResponse	"Invalid credentials"
//	@Failure		429			{object}	models.LoginResponse	"Too many attempts"
//	@Router			/users/login [post]
func (h *UserHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.LoginRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid login input")
			return
		}

		resp, err := h.userService.Login(r.Context(), &req)
		if err != nil {
			logger.Error("Login failed", slog.String("email", req.Email), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if !resp.Success {
			status := http.StatusUnauthorized
			if resp.RetryAfter > 0 {
				status = http.StatusTooManyRequests
			}

			logger.Warn("Login rejected", slog.String("email", req.Email))
			response.WriteJson(w, status, resp)
			return
		}

		logger.Info("User logged in", slog.String("email", req.Email))
		response.Success(w, http.StatusOK, resp)
	}
}

// Profile returns the authenticated user's account.
func (h *UserHandler) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized profile access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		user, err := h.userService.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			logger.Warn("User not found", slog.String("userId", claims.UserID.String()))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, user)
	}
}
