// Package di はアプリケーションのコンポーネントを組み立てるファクトリを提供します。
package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"logoscan/internal/feature/logodetection/adapters"
	"logoscan/internal/feature/logodetection/adapters/gemini"
	"logoscan/internal/feature/logodetection/adapters/vision"
	"logoscan/internal/feature/logodetection/transport/handler"
	"logoscan/internal/feature/logodetection/usecase"
	"logoscan/internal/platform/cache"
	"logoscan/internal/platform/config"
	"logoscan/internal/platform/db"
	infrahttp "logoscan/internal/platform/http"
	"logoscan/internal/platform/metrics"
	platformredis "logoscan/internal/platform/redis"
	"logoscan/internal/shared/ratelimiter"
)

// Version はUser-Agentとヘルスチェックに使われるバージョン文字列です。
// ビルド時に -ldflags "-X logoscan/internal/app/di.Version=..." で上書きできます。
var Version = "dev"

// Components は組み立て済みのユースケースと、その後始末に必要なリソースです。
type Components struct {
	Usecase  handler.LogoDetectionUsecase
	Registry *prometheus.Registry

	closers []func() error
}

// Close は保持しているクライアントを逆順に閉じます。
func (c *Components) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			slog.Warn("failed to close resource", "error", err)
		}
	}
	c.closers = nil
}

// Build は設定に従ってロゴ検出ユースケースを組み立てます。
// 検出クライアントの生成に失敗した場合のみエラーを返します。
// Redisや履歴DBが利用できない場合は警告を出して該当機能を無効にします。
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	c := &Components{Registry: prometheus.NewRegistry()}
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	detector, err := c.newLogoDetector(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	recorders, err := c.newRecorders(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	rl := ratelimiter.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	c.Usecase = usecase.NewLogoDetectionUsecase(detector, rl, recorders...)
	return c, nil
}

// newLogoDetector は設定された検出サービスのクライアントを生成し、
// Redisが利用可能ならキャッシュでラップします。
func (c *Components) newLogoDetector(ctx context.Context, cfg *config.Config) (usecase.LogoDetector, error) {
	var detector usecase.LogoDetector
	switch cfg.Detector {
	case config.DetectorGemini:
		httpClient := infrahttp.NewHTTPClient(time.Duration(cfg.HTTPTimeoutSeconds)*time.Second, "logoscan/"+Version)
		g, err := gemini.NewGeminiLogoDetector(ctx, cfg.GeminiModel, httpClient)
		if err != nil {
			return nil, err
		}
		detector = g
	case config.DetectorVision:
		v, err := vision.NewVisionLogoDetector(ctx)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, v.Close)
		detector = v
	default:
		return nil, fmt.Errorf("%w: unknown detector %q", config.ErrInvalidConfig, cfg.Detector)
	}

	rdb := c.newRedis(ctx, cfg)
	if rdb == nil {
		return detector, nil
	}
	return withCache(ctx, cfg, rdb, detector), nil
}

// withCache は検出器をRedisキャッシュでラップします。
// cache_flush_on_start が設定されていれば、既存のキャッシュを削除してから使います。
func withCache(ctx context.Context, cfg *config.Config, rdb *redis.Client, detector usecase.LogoDetector) *cache.CachingLogoDetector {
	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	cached := cache.NewCachingLogoDetector(rdb, ttl, detector, "logos:"+cfg.Detector)
	if cfg.CacheFlushOnStart {
		if err := cached.Invalidate(ctx); err != nil {
			slog.Warn("failed to flush logo cache", "error", err)
		} else {
			slog.Info("logo cache flushed", "detector", cfg.Detector)
		}
	}
	return cached
}

// newRedis はRedisクライアントを返します。未設定または接続できない場合はnilです。
func (c *Components) newRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	rdb, err := platformredis.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		if !errors.Is(err, platformredis.ErrNotConfigured) {
			slog.Warn("Redis unavailable, result cache disabled", "error", err)
		}
		return nil
	}
	c.closers = append(c.closers, rdb.Close)
	return rdb
}

// newRecorders はメトリクスと（設定されていれば）スキャン履歴のレコーダーを生成します。
func (c *Components) newRecorders(cfg *config.Config) ([]usecase.OutcomeRecorder, error) {
	m, err := metrics.NewScanMetrics(c.Registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	recorders := []usecase.OutcomeRecorder{m}

	if cfg.HistoryDriver == "" {
		return recorders, nil
	}
	gdb, err := db.OpenDB(db.Config{Driver: cfg.HistoryDriver, DSN: cfg.HistoryDSN}, &adapters.ScanRecordModel{})
	if err != nil {
		slog.Warn("scan history unavailable, recording disabled", "driver", cfg.HistoryDriver, "error", err)
		return recorders, nil
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	c.closers = append(c.closers, sqlDB.Close)
	return append(recorders, adapters.NewScanHistoryRepository(gdb)), nil
}
