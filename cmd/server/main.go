// Command server はロゴ検出をHTTP APIとして公開します。
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"logoscan/internal/app/di"
	"logoscan/internal/app/router"
	"logoscan/internal/feature/logodetection/transport/handler"
	"logoscan/internal/platform/config"
	"logoscan/internal/platform/logging"
)

func main() {
	// .env は無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	logging.Setup(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := di.Build(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize logo detector", "detector", cfg.Detector, "error", err)
		os.Exit(1)
	}
	defer components.Close()

	// Handler
	logoH := handler.NewLogoDetectionHandler(components.Usecase)
	metricsH := promhttp.HandlerFor(components.Registry, promhttp.HandlerOpts{})

	// ルータ生成
	r := router.NewRouter(logoH, metricsH, cfg.JWTSecret, di.Version)

	// JWT_SECRETチェック（開発中の注意喚起）
	if cfg.JWTSecret == "" {
		slog.Warn("LOGOSCAN_JWT_SECRET is not set. /v1 routes are unauthenticated.")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
		}
	}()

	slog.Info("listening", "addr", cfg.Addr, "detector", cfg.Detector)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		stop()
		components.Close()
		os.Exit(1)
	}
}
