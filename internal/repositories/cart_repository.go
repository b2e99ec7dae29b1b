package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aymenbt/minishop/internal/models"
	"github.com/aymenbt/minishop/internal/utils"
	"github.com/google/uuid"
)

type CartRepository interface {
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetActiveCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	UpdateCart(ctx context.Context, cart *models.Cart) error
	CompleteCart(ctx context.Context, cartID uuid.UUID) error
}

type cartRepository struct {
	DB *sql.DB
}

func NewCartRepo(db *sql.DB) CartRepository {
	return &cartRepository{DB: db}
}

// CreateCart inserts a new active cart. A concurrent insert for the same user
// loses against the partial unique index and is silently dropped; callers
// re-fetch to pick up the winning row.
func (r *cartRepository) CreateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart items: %w", err)
	}

	query := `
		INSERT INTO carts (id, user_id, items, total_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'active', NOW(), NOW())
		ON CONFLICT (user_id) WHERE status = 'active' DO NOTHING
	`

	_, err = r.DB.ExecContext(dbCtx, query, cart.ID, cart.UserID, itemsJSON, cart.TotalAmount)
	if err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}

	return nil
}

func (r *cartRepository) GetActiveCartByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, items, total_amount, status, created_at, updated_at
		FROM carts
		WHERE user_id = $1 AND status = 'active'
	`

	cart := &models.Cart{}

	var itemsJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, userID).
		Scan(&cart.ID, &cart.UserID, &itemsJSON, &cart.TotalAmount, &cart.Status, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &cart.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart items: %w", err)
	}

	return cart, nil
}

func (r *cartRepository) UpdateCart(ctx context.Context, cart *models.Cart) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(cart.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal cart items: %w", err)
	}

	query := `
		UPDATE carts
		SET items = $1, total_amount = $2, updated_at = $3
		WHERE id = $4 AND status = 'active'
	`

	result, err := r.DB.ExecContext(dbCtx, query, itemsJSON, cart.TotalAmount, time.Now(), cart.ID)
	if err != nil {
		return fmt.Errorf("failed to update the cart: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

// CompleteCart retires an active cart after its order has been persisted.
func (r *cartRepository) CompleteCart(ctx context.Context, cartID uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE carts
		SET status = 'completed', updated_at = $1
		WHERE id = $2 AND status = 'active'
	`

	result, err := r.DB.ExecContext(dbCtx, query, time.Now(), cartID)
	if err != nil {
		return fmt.Errorf("failed to complete the cart: %w", err)
	}

	updatedRows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get updated rows: %w", err)
	}

	if updatedRows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
