package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aymenbt/minishop/internal/api/middleware"
	"github.com/aymenbt/minishop/internal/config"
	"github.com/redis/go-redis/v9"
)

type RateLimitRepository interface {
	CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error)
}

type redisRepository struct {
	client *redis.Client
	cfg    *config.Config
}

func NewRedisClient(cfg *config.Config) (*redis.Client, error) {

	opt, err := redis.ParseURL(cfg.RedisConnect.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opt.DB = cfg.RedisConnect.DB

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Test the connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil

}

func NewRateLimitRepo(client *redis.Client, cfg *config.Config) RateLimitRepository {
	return &redisRepository{client: client, cfg: cfg}
}

// CheckLoginRateLimit implements a sliding window over a sorted set of
// attempt timestamps. Returns isAllowed, attempts left, seconds to wait.
func (r *redisRepository) CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error) {

	logger := middleware.LoggerFromContext(ctx)

	key := fmt.Sprintf("login_attempts:%s", username)

	now := time.Now().Unix()

	// Only login attempts after this time are counted.
	windowStart := now - int64(r.cfg.RateConfig.WindowSize.Seconds())

	pipe := r.client.Pipeline()

	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", windowStart))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: now})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, r.cfg.RateConfig.WindowSize)

	_, err := pipe.Exec(ctx)
	if err != nil {
		logger.Error("Redis pipeline execution failed for rate limit", slog.String("key", key), slog.Any("error", err))
		return false, 0, 0, fmt.Errorf("redis pipeline error for rate limit check: %w", err)
	}

	attempts := count.Val()
	remaining := r.cfg.RateConfig.MaxAttempts - attempts

	if attempts >= r.cfg.RateConfig.MaxAttempts {

		oldestScoreCmd := r.client.ZRangeArgsWithScores(ctx, redis.ZRangeArgs{
			Key: key, Start: 0, Stop: 0,
		})

		scores, err := oldestScoreCmd.Result()
		if err != nil || len(scores) == 0 {
			logger.Error("Failed to get oldest attempt time for rate limit", slog.String("key", key), slog.Any("error", err))
			return false, 0, int(r.cfg.RateConfig.WindowSize.Seconds()), fmt.Errorf("failed to get oldest attempt time: %w", err)
		}

		oldestTimestamp := int64(scores[0].Score)

		retryAfter := max((oldestTimestamp+int64(r.cfg.RateConfig.WindowSize.Seconds()))-now, 0)

		logger.Warn("Rate limit exceeded for user", slog.String("username", username), slog.Int64("attempts", attempts))
		return false, 0, int(retryAfter), nil
	}

	logger.Debug("Rate limit check passed", slog.String("username", username), slog.Int64("attempts", attempts), slog.Int64("remaining", remaining))
	return true, int(remaining), 0, nil
}
