package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aymenbt/minishop/internal/cache"
	"github.com/aymenbt/minishop/internal/config"
	"github.com/aymenbt/minishop/internal/models"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCacheTest(t *testing.T) (cache.Cache, redismock.ClientMock, *config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{
		DefaultTTL: 10 * time.Minute,
	}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func TestCacheGet(t *testing.T) {
	ctx := t.Context()
	testKey := "product:" + uuid.NewString()
	testValue := models.Product{ID: uuid.New(), Title: "Laptop hp", Price: 10000, Stock: 10}
	jsonData, err := json.Marshal(testValue)
	require.NoError(t, err)

	t.Run("Success - Key Found", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupCacheTest(t)

		var result models.Product

		mock.ExpectGet(testKey).SetVal(string(jsonData))

		// Act
		found, err := redisCache.Get(ctx, testKey, &result)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, testValue.Title, result.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Cache Miss", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupCacheTest(t)

		var result models.Product

		mock.ExpectGet(testKey).RedisNil()

		// Act
		found, err := redisCache.Get(ctx, testKey, &result)

		// Assert
		require.NoError(t, err, "a miss is not an error")
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupCacheTest(t)

		var result models.Product

		mock.ExpectGet(testKey).SetErr(errors.New("connection lost"))

		// Act
		found, err := redisCache.Get(ctx, testKey, &result)

		// Assert
		assert.Error(t, err)
		assert.False(t, found)
	})

	t.Run("Failure - Corrupt Payload", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupCacheTest(t)

		var result models.Product

		mock.ExpectGet(testKey).SetVal("{not json")

		// Act
		found, err := redisCache.Get(ctx, testKey, &result)

		// Assert
		assert.Error(t, err)
		assert.False(t, found)
	})
}

func TestCacheSet(t *testing.T) {
	ctx := t.Context()
	testKey := "products:all"
	testValue := []models.Product{{ID: uuid.New(), Title: "Laptop hp"}}
	jsonData, err := json.Marshal(testValue)
	require.NoError(t, err)

	t.Run("Success - Explicit TTL", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupCacheTest(t)
		mock.ExpectSet(testKey, jsonData, time.Minute).SetVal("OK")

		// Act
		err := redisCache.Set(ctx, testKey, testValue, time.Minute)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Zero TTL Uses Default", func(t *testing.T) {
		// Arrange
		redisCache, mock, cfg := setupCacheTest(t)
		mock.ExpectSet(testKey, jsonData, cfg.DefaultTTL).SetVal("OK")

		// Act
		err := redisCache.Set(ctx, testKey, testValue, 0)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupCacheTest(t)
		mock.ExpectSet(testKey, jsonData, time.Minute).SetErr(errors.New("connection lost"))

		// Act
		err := redisCache.Set(ctx, testKey, testValue, time.Minute)

		// Assert
		assert.Error(t, err)
	})
}

func TestCacheDelete(t *testing.T) {
	ctx := t.Context()
	testKey := "products:all"

	t.Run("Success", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupCacheTest(t)
		mock.ExpectDel(testKey).SetVal(1)

		// Act
		err := redisCache.Delete(ctx, testKey)

		// Assert
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis Error", func(t *testing.T) {
		// Arrange
		redisCache, mock, _ := setupCacheTest(t)
		mock.ExpectDel(testKey).SetErr(errors.New("connection lost"))

		// Act
		err := redisCache.Delete(ctx, testKey)

		// Assert
		assert.Error(t, err)
	})
}
