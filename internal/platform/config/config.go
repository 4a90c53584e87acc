// Package config はlogoscanの設定を読み込みます。
//
// 優先順位（低 -> 高）:
//  1. デフォルト値（New）
//  2. LOGOSCAN_CONFIG で指定されたYAMLファイル
//  3. LOGOSCAN_ で始まる環境変数（例: LOGOSCAN_DETECTOR=gemini）
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "LOGOSCAN_"
	envConfigFile = "LOGOSCAN_CONFIG"

	DetectorVision = "vision"
	DetectorGemini = "gemini"

	ModeSequential = "sequential"
	ModeConcurrent = "concurrent"
	ModeBoth       = "both"
)

// ErrInvalidConfig は設定値が不正であることを示します。
var ErrInvalidConfig = errors.New("invalid config")

// DefaultFiles は識別子が指定されなかった場合のスキャン対象です。
var DefaultFiles = []string{
	"./images/cmu.jpg",
	"./images/logo-types-collection.jpg",
	"./images/not-a-file.jpg",
}

// Config はプロセス全体の設定です。
type Config struct {
	LogLevel string `koanf:"log_level"`

	// Detector は使用する検出サービス（vision または gemini）です。
	Detector    string `koanf:"detector"`
	GeminiModel string `koanf:"gemini_model"`

	// Mode はCLIの実行方式です（sequential, concurrent, both）。
	Mode string `koanf:"mode"`
	// Files はCLIで引数が無い場合のスキャン対象です（YAMLのみ）。空の場合はDefaultFilesを使用します。
	Files []string `koanf:"files"`

	// Addr はHTTPサーバーのリッスンアドレスです。
	Addr string `koanf:"addr"`

	RedisAddr       string `koanf:"redis_addr"`
	RedisPassword   string `koanf:"redis_password"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`
	// CacheFlushOnStart が true の場合、起動時に検出器のキャッシュを全削除します。
	CacheFlushOnStart bool `koanf:"cache_flush_on_start"`

	// HTTPTimeoutSeconds はhttp(s)画像のダウンロードのタイムアウトです（gemini使用時）。
	HTTPTimeoutSeconds int `koanf:"http_timeout_seconds"`

	// HistoryDriver が空の場合、スキャン履歴は保存しません。
	HistoryDriver string `koanf:"history_driver"`
	HistoryDSN    string `koanf:"history_dsn"`

	// RateLimitPerMinute が0の場合、検出APIの呼び出しを制限しません。
	RateLimitPerMinute int `koanf:"rate_limit_per_minute"`

	// JWTSecret が設定されている場合、/v1 のルートはBearerトークンを要求します。
	JWTSecret string `koanf:"jwt_secret"`
}

// New はデフォルト値を持つConfigを生成します。
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Detector:           DetectorVision,
		Mode:               ModeSequential,
		Addr:               ":8080",
		CacheTTLSeconds:    300,
		HTTPTimeoutSeconds: 30,
	}
}

// Load はデフォルト値、YAMLファイル、環境変数を順に重ねてConfigを構築します。
func Load() (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// LOGOSCAN_REDIS_ADDR -> redis_addr
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load env config: %w", err)
	}
	// LOGOSCAN_CONFIG 自体は設定キーではない
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ScanFiles はargsが空でなければargsを、そうでなければ設定されたスキャン対象を返します。
func (c *Config) ScanFiles(args []string) []string {
	if len(args) > 0 {
		return args
	}
	if len(c.Files) > 0 {
		return c.Files
	}
	return DefaultFiles
}

// Validate は設定値の整合性を検証します。
func (c *Config) Validate() error {
	switch c.Detector {
	case DetectorVision, DetectorGemini:
	default:
		return fmt.Errorf("%w: unknown detector %q", ErrInvalidConfig, c.Detector)
	}
	switch c.Mode {
	case ModeSequential, ModeConcurrent, ModeBoth:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	if c.HistoryDriver != "" && c.HistoryDSN == "" {
		return fmt.Errorf("%w: history_dsn is required when history_driver is set", ErrInvalidConfig)
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("%w: rate_limit_per_minute must not be negative", ErrInvalidConfig)
	}
	if c.CacheTTLSeconds < 0 || c.HTTPTimeoutSeconds < 0 {
		return fmt.Errorf("%w: timeouts must not be negative", ErrInvalidConfig)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	return nil
}
