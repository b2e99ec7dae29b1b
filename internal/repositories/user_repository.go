package repository

import (
	"context"
	"database/sql"

	"github.com/aymenbt/minishop/internal/models"
	"github.com/aymenbt/minishop/internal/utils"
	"github.com/google/uuid"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepo(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO users (first_name, last_name, email, password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	return r.DB.QueryRowContext(dbCtx, query, user.FirstName, user.LastName, user.Email, user.Password).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	query := `
		SELECT id, first_name, last_name, email, password, created_at, updated_at
		FROM users
		WHERE email = $1`

	err := r.DB.QueryRowContext(dbCtx, query, email).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.Password, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil

}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	user := &models.User{}

	query := `
		SELECT id, first_name, last_name, email, created_at, updated_at
		FROM users
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return user, nil

}
