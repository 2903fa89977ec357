package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storyforge/internal/interfaces"
	"storyforge/internal/models"
)

// Compile-time check to ensure redisTokenRepository implements TokenRepository
var _ interfaces.TokenRepository = (*redisTokenRepository)(nil)

type redisTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenRepository creates a new Redis-backed TokenRepository.
func NewRedisTokenRepository(client *redis.Client, logger *zap.Logger) interfaces.TokenRepository {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

func accessKey(accessUUID string) string   { return "access_uuid:" + accessUUID }
func refreshKey(refreshUUID string) string { return "refresh_uuid:" + refreshUUID }

// SetToken stores a token pair in Redis: AccessUUID -> AccountID with the
// access TTL and RefreshUUID -> AccountID with the refresh TTL.
func (r *redisTokenRepository) SetToken(ctx context.Context, accountID int64, td *models.TokenDetails) error {
	now := time.Now()
	accessTTL := time.Unix(td.AtExpires, 0).Sub(now)
	refreshTTL := time.Unix(td.RtExpires, 0).Sub(now)
	accountIDStr := strconv.FormatInt(accountID, 10)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, accessKey(td.AccessUUID), accountIDStr, accessTTL)
	pipe.Set(ctx, refreshKey(td.RefreshUUID), accountIDStr, refreshTTL)

	r.logger.Debug("Setting token pair in Redis",
		zap.Int64("accountID", accountID),
		zap.String("accessUUID", td.AccessUUID),
		zap.String("refreshUUID", td.RefreshUUID),
		zap.Duration("accessTTL", accessTTL),
		zap.Duration("refreshTTL", refreshTTL),
	)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to set token details in redis", zap.Error(err), zap.Int64("accountID", accountID))
		return fmt.Errorf("failed to set token details in redis: %w", err)
	}
	return nil
}

// GetAccountIDByAccessUUID resolves an access token UUID to the account that
// owns it, or ErrTokenNotFound when the token was revoked or expired.
func (r *redisTokenRepository) GetAccountIDByAccessUUID(ctx context.Context, accessUUID string) (int64, error) {
	return r.getAccountID(ctx, accessKey(accessUUID))
}

// GetAccountIDByRefreshUUID resolves a refresh token UUID to the account that
// owns it, or ErrTokenNotFound when the token was revoked or expired.
func (r *redisTokenRepository) GetAccountIDByRefreshUUID(ctx context.Context, refreshUUID string) (int64, error) {
	return r.getAccountID(ctx, refreshKey(refreshUUID))
}

func (r *redisTokenRepository) getAccountID(ctx context.Context, key string) (int64, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Token not found in redis", zap.String("key", key))
			return 0, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get token from redis", zap.Error(err), zap.String("key", key))
		return 0, fmt.Errorf("failed to get token from redis: %w", err)
	}

	accountID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.logger.Error("Corrupt account ID stored for token", zap.String("key", key), zap.String("value", value))
		return 0, models.ErrTokenInvalid
	}
	return accountID, nil
}

// DeleteTokens removes the given token UUIDs (access and/or refresh) from
// Redis and reports how many keys were actually deleted.
func (r *redisTokenRepository) DeleteTokens(ctx context.Context, uuids ...string) (int64, error) {
	keys := make([]string, 0, len(uuids)*2)
	for _, id := range uuids {
		if id == "" {
			continue
		}
		keys = append(keys, accessKey(id), refreshKey(id))
	}
	if len(keys) == 0 {
		return 0, nil
	}

	deleted, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		r.logger.Error("Failed to delete tokens from redis", zap.Error(err), zap.Strings("uuids", uuids))
		return 0, fmt.Errorf("failed to delete tokens from redis: %w", err)
	}

	r.logger.Debug("Deleted tokens from redis", zap.Int64("deletedCount", deleted), zap.Strings("uuids", uuids))
	return deleted, nil
}
