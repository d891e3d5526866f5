package utils

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sharath018/temple-directory-backend/config"
)

var redisClient *redis.Client

var (
	ErrCacheMiss        = errors.New("cache miss")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

// InitRedis connects the shared redis client. Must run before any token or
// cache helper is used.
func InitRedis(cfg *config.Config) error {
	redisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		redisClient = nil
		return err
	}
	return nil
}

// ===== Reset token helpers =====

func SetToken(key, value string, ttl time.Duration) error {
	if redisClient == nil {
		return ErrRedisUnavailable
	}
	return redisClient.Set(context.Background(), key, value, ttl).Err()
}

func GetToken(key string) (string, error) {
	if redisClient == nil {
		return "", ErrRedisUnavailable
	}
	val, err := redisClient.Get(context.Background(), key).Result()
	if err == redis.Nil {
		return "", errors.New("token not found or expired")
	}
	return val, err
}

func DeleteToken(key string) error {
	if redisClient == nil {
		return ErrRedisUnavailable
	}
	return redisClient.Del(context.Background(), key).Err()
}

// ===== TTL cache helpers =====
//
// Used for the tag vocabulary (distinct deities/architectures). Writes to the
// places collection invalidate the keys explicitly, so a stale read window is
// bounded by the TTL even if an invalidation is lost.

func CacheGet(ctx context.Context, key string) (string, error) {
	if redisClient == nil {
		return "", ErrCacheMiss
	}
	val, err := redisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	return val, err
}

func CacheSet(ctx context.Context, key, value string, ttl time.Duration) error {
	if redisClient == nil {
		return nil
	}
	return redisClient.Set(ctx, key, value, ttl).Err()
}

func CacheInvalidate(ctx context.Context, keys ...string) error {
	if redisClient == nil || len(keys) == 0 {
		return nil
	}
	return redisClient.Del(ctx, keys...).Err()
}
