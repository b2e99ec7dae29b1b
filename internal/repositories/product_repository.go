package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/aymenbt/minishop/internal/models"
	"github.com/aymenbt/minishop/internal/utils"
	"github.com/google/uuid"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	CountProducts(ctx context.Context) (int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (title, image, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	return r.DB.QueryRowContext(dbCtx, query, product.Title, product.Image, product.Price, product.Stock).
		Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	product := &models.Product{}

	query := `
		SELECT id, title, image, price, stock, created_at, updated_at
		FROM products
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).
		Scan(&product.ID, &product.Title, &product.Image, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return product, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products SET title = $1, image = $2, price = $3, stock = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`

	return r.DB.QueryRowContext(dbCtx, query, product.Title, product.Image, product.Price, product.Stock, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) ListProducts(ctx context.Context) ([]models.Product, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, title, image, price, stock, created_at, updated_at
		FROM products
		ORDER BY created_at`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	defer rows.Close()

	var products []models.Product

	for rows.Next() {
		var product models.Product

		err := rows.Scan(&product.ID, &product.Title, &product.Image, &product.Price, &product.Stock, &product.CreatedAt, &product.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) CountProducts(ctx context.Context) (int, error) {

	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM products`).Scan(&total)
	if err != nil {
		return 0, err
	}

	return total, nil
}
