package redis

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured はRedisのアドレスが設定されていないことを示します。
var ErrNotConfigured = errors.New("redis address is not configured")

// NewRedisClient は接続を確認したRedisクライアントを返します。
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		return nil, ErrNotConfigured
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", addr)
	return rdb, nil
}
