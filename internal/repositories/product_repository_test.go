package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aymenbt/minishop/internal/models"
	repository "github.com/aymenbt/minishop/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupProductRepoTest(t *testing.T) (repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewProductRepo(db), mock
}

func TestProductRepository(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()

	productID := uuid.New()
	now := time.Now()

	t.Run("Create Product", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`INSERT INTO products (title, image, price, stock, created_at, updated_at)`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			product := &models.Product{Title: "Laptop hp", Image: "https://example.com/laptop.jpg", Price: 10000, Stock: 10}
			mock.ExpectQuery(expectedSQL).
				WithArgs(product.Title, product.Image, product.Price, product.Stock).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(productID, now, now))

			// Act
			err := repo.CreateProduct(ctx, product)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, productID, product.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Get Product By ID", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT id, title, image, price, stock, created_at, updated_at`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			rows := sqlmock.NewRows([]string{"id", "title", "image", "price", "stock", "created_at", "updated_at"}).
				AddRow(productID, "Laptop hp", "https://example.com/laptop.jpg", float64(10000), 10, now, now)
			mock.ExpectQuery(expectedSQL).WithArgs(productID).WillReturnRows(rows)

			// Act
			product, err := repo.GetProductByID(ctx, productID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, "Laptop hp", product.Title)
			assert.Equal(t, 10, product.Stock)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			mock.ExpectQuery(expectedSQL).WithArgs(productID).WillReturnError(sql.ErrNoRows)

			product, err := repo.GetProductByID(ctx, productID)

			assert.Nil(t, product)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("List Products", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT id, title, image, price, stock, created_at, updated_at`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			rows := sqlmock.NewRows([]string{"id", "title", "image", "price", "stock", "created_at", "updated_at"}).
				AddRow(uuid.New(), "Laptop hp", "a", float64(10000), 10, now, now).
				AddRow(uuid.New(), "Dell hp", "b", float64(40000), 4, now, now)
			mock.ExpectQuery(expectedSQL).WillReturnRows(rows)

			// Act
			products, err := repo.ListProducts(ctx)

			// Assert
			require.NoError(t, err)
			assert.Len(t, products, 2)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Database Error", func(t *testing.T) {
			mock.ExpectQuery(expectedSQL).WillReturnError(errors.New("query failed"))

			products, err := repo.ListProducts(ctx)

			assert.Nil(t, products)
			assert.Error(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Count Products", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

			// Act
			count, err := repo.CountProducts(ctx)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 3, count)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("Update Product", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`UPDATE products SET title`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			product := &models.Product{ID: productID, Title: "Laptop hp", Image: "a", Price: 12000, Stock: 8}
			mock.ExpectQuery(expectedSQL).
				WithArgs(product.Title, product.Image, product.Price, product.Stock, product.ID).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

			// Act
			err := repo.UpdateProduct(ctx, product)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	})
}
