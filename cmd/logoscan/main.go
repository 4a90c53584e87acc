// Command logoscan は画像の一覧に対してロゴ検出を行い、結果を標準出力に書き出します。
//
//	logoscan [file ...]
//
// 引数が無い場合は設定の files、それも無ければ既定の3ファイルを対象にします。
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"logoscan/internal/app/di"
	"logoscan/internal/feature/logodetection/transport/handler"
	"logoscan/internal/platform/config"
	"logoscan/internal/platform/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// .env は無くてもよい
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintln(stderr, "config:", err)
		return 2
	}
	logging.Setup(stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := di.Build(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize logo detector", "detector", cfg.Detector, "error", err)
		return 1
	}
	defer components.Close()

	scan(ctx, components.Usecase, cfg.Mode, cfg.ScanFiles(args), stdout)
	return 0
}

// scan はmodeに従って識別子をスキャンします。
// both の場合は並行版を実行し、完了後に逐次版を実行します。
func scan(ctx context.Context, uc handler.LogoDetectionUsecase, mode string, files []string, w io.Writer) {
	switch mode {
	case config.ModeConcurrent:
		runID := uc.RunConcurrent(ctx, w, files)
		slog.Debug("concurrent scan finished", "run_id", runID, "files", len(files))
	case config.ModeBoth:
		runID := uc.RunConcurrent(ctx, w, files)
		slog.Debug("concurrent scan finished", "run_id", runID, "files", len(files))
		runID = uc.RunSequential(ctx, w, files)
		slog.Debug("sequential scan finished", "run_id", runID, "files", len(files))
	default:
		runID := uc.RunSequential(ctx, w, files)
		slog.Debug("sequential scan finished", "run_id", runID, "files", len(files))
	}
}
