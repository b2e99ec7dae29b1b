package service

import (
	"context"
	"time"

	"github.com/aymenbt/minishop/internal/config"
	appErrors "github.com/aymenbt/minishop/internal/errors"
	"github.com/aymenbt/minishop/internal/models"
	repository "github.com/aymenbt/minishop/internal/repositories"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userService struct {
	repo        repository.UserRepository
	rateLimiter repository.RateLimitRepository
	jwtKey      []byte
	tokenTTL    time.Duration
}

func NewUserService(repo repository.UserRepository, rateLimiter repository.RateLimitRepository, security *config.Security) UserService {
	return &userService{
		repo:        repo,
		rateLimiter: rateLimiter,
		jwtKey:      []byte(security.JWTKey),
		tokenTTL:    security.TokenTTL,
	}
}

func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {

	existingUser, _ := s.repo.GetUserByEmail(ctx, req.Email)
	if existingUser != nil {
		return nil, appErrors.DuplicateEntryError("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.InternalError("Failed to secure password").WithError(err)
	}

	user := &models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  string(hashedPassword),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, appErrors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	allowed, remaining, retryAfter, err := s.rateLimiter.CheckLoginRateLimit(ctx, req.Email)
	if err != nil {
		return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return &models.LoginResponse{
			Success:    false,
			Message:    "Too many login attempts. Please try again later.",
			RetryAfter: retryAfter,
		}, nil
	}

	// Same response for a missing user and a wrong password.
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return &models.LoginResponse{
			Success:        false,
			Message:        "Invalid email or password",
			RemainingTries: remaining,
		}, nil
	}

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.jwtKey)
	if err != nil {
		return nil, appErrors.InternalError("Failed to generate authentication token").WithError(err)
	}

	return &models.LoginResponse{
		Success:   true,
		Token:     tokenString,
		ExpiresIn: int(time.Until(claims.ExpiresAt.Time).Seconds()),
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, appErrors.NotFoundError("User not found").WithError(err)
	}

	return user, nil
}
