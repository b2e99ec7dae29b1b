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

func setupUserRepoTest(t *testing.T) (repository.UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	return repository.NewUserRepo(db), mock
}

func TestUserRepository(t *testing.T) {
	repo, mock := setupUserRepoTest(t)
	ctx := t.Context()

	userID := uuid.New()
	now := time.Now()

	t.Run("Create User", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`INSERT INTO users (first_name, last_name, email, password, created_at, updated_at)`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			user := &models.User{FirstName: "Test", LastName: "User", Email: "test@example.com", Password: "hashed"}
			mock.ExpectQuery(expectedSQL).
				WithArgs(user.FirstName, user.LastName, user.Email, user.Password).
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(userID, now, now))

			// Act
			err := repo.CreateUser(ctx, user)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, userID, user.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Database Error", func(t *testing.T) {
			// Arrange
			user := &models.User{FirstName: "Test", LastName: "User", Email: "test@example.com", Password: "hashed"}
			mock.ExpectQuery(expectedSQL).
				WithArgs(user.FirstName, user.LastName, user.Email, user.Password).
				WillReturnError(errors.New("connection refused"))

			// Act
			err := repo.CreateUser(ctx, user)

			// Assert
			assert.Error(t, err)
		})
	})

	t.Run("Get User By Email", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT id, first_name, last_name, email, password, created_at, updated_at`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "password", "created_at", "updated_at"}).
				AddRow(userID, "Test", "User", "test@example.com", "hashed", now, now)
			mock.ExpectQuery(expectedSQL).WithArgs("test@example.com").WillReturnRows(rows)

			// Act
			user, err := repo.GetUserByEmail(ctx, "test@example.com")

			// Assert
			require.NoError(t, err)
			assert.Equal(t, userID, user.ID)
			assert.Equal(t, "hashed", user.Password)
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).WithArgs("nobody@example.com").WillReturnError(sql.ErrNoRows)

			// Act
			user, err := repo.GetUserByEmail(ctx, "nobody@example.com")

			// Assert
			assert.ErrorIs(t, err, sql.ErrNoRows)
			assert.Nil(t, user)
		})
	})

	t.Run("Get User By ID", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`SELECT id, first_name, last_name, email, created_at, updated_at`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			rows := sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "created_at", "updated_at"}).
				AddRow(userID, "Test", "User", "test@example.com", now, now)
			mock.ExpectQuery(expectedSQL).WithArgs(userID).WillReturnRows(rows)

			// Act
			user, err := repo.GetUserByID(ctx, userID)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, "test@example.com", user.Email)
			assert.Empty(t, user.Password, "password is not selected by id lookups")
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			missingID := uuid.New()
			mock.ExpectQuery(expectedSQL).WithArgs(missingID).WillReturnError(sql.ErrNoRows)

			// Act
			user, err := repo.GetUserByID(ctx, missingID)

			// Assert
			assert.ErrorIs(t, err, sql.ErrNoRows)
			assert.Nil(t, user)
		})
	})
}
