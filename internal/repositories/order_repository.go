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

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	itemsJSON, err := json.Marshal(order.OrderItems)
	if err != nil {
		return fmt.Errorf("failed to marshal order items: %w", err)
	}

	query := `
		INSERT INTO orders (id, user_id, order_items, total, address, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query, order.ID, order.UserID, itemsJSON, order.Total, order.Address, order.Status).
		Scan(&order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{}

	query := `
		SELECT id, user_id, order_items, total, address, status, created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var itemsJSON []byte

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&order.ID, &order.UserID, &itemsJSON, &order.Total, &order.Address, &order.Status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	if err := json.Unmarshal(itemsJSON, &order.OrderItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
	}

	return order, nil
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, user_id, order_items, total, address, status, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	defer rows.Close()

	var orders []models.Order

	for rows.Next() {

		var order models.Order

		var itemsJSON []byte

		err := rows.Scan(&order.ID, &order.UserID, &itemsJSON, &order.Total, &order.Address, &order.Status, &order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if err := json.Unmarshal(itemsJSON, &order.OrderItems); err != nil {
			return nil, fmt.Errorf("failed to unmarshal order items: %w", err)
		}

		orders = append(orders, order)

	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3
	`

	result, err := r.DB.ExecContext(dbCtx, query, status, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
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
