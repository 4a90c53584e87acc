// Package logging はslogのデフォルトロガーを設定します。
package logging

import (
	"io"
	"log/slog"
	"strings"
)

var levelVar slog.LevelVar

// ParseLevel はレベル名をslog.Levelに変換します。未知の値はinfoとして扱います。
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup はwへ出力するテキストハンドラーをデフォルトロガーに設定します。
// 標準出力はスキャン結果専用のため、通常は標準エラー出力を渡します。
func Setup(w io.Writer, level string) *slog.Logger {
	levelVar.Set(ParseLevel(level))
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &levelVar}))
	slog.SetDefault(logger)
	return logger
}
