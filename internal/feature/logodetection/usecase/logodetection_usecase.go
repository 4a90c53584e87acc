// Package usecase はlogodetectionフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"logoscan/internal/feature/logodetection/domain"
	"logoscan/internal/feature/logodetection/domain/entity"
	"logoscan/internal/shared/ratelimiter"
)

const (
	// MaxImageSize は画像アップロードの最大サイズ（10MB）です。
	MaxImageSize = 10 * 1024 * 1024
	// MaxFilesPerRun はAPIから1回に指定できる識別子の最大数です。
	MaxFilesPerRun = 50
)

// LogoDetector は画像からロゴを検出するリポジトリインターフェースです。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type LogoDetector interface {
	// DetectLogos はファイル識別子（パスまたはURI）が指す画像からロゴを検出します。
	DetectLogos(ctx context.Context, fileName string) (entity.DetectionResult, error)
}

// OutcomeRecorder はスキャン結果を記録する観測者です（メトリクス、履歴など）。
// 記録の失敗はスキャン結果や出力に影響しません。
type OutcomeRecorder interface {
	Record(ctx context.Context, runID string, outcome entity.ScanOutcome, elapsed time.Duration) error
}

// logodetectionUsecase はロゴ検出とスキャン結果の集計を提供します。
type logodetectionUsecase struct {
	logoDetector LogoDetector
	rateLimiter  ratelimiter.RateLimiterInterface
	recorders    []OutcomeRecorder
	newRunID     func() string
}

// NewLogoDetectionUsecase はlogodetectionUsecaseの新しいインスタンスを生成します。
// rlがnilの場合はレート制限を行いません。
func NewLogoDetectionUsecase(ld LogoDetector, rl ratelimiter.RateLimiterInterface, recorders ...OutcomeRecorder) *logodetectionUsecase {
	return &logodetectionUsecase{
		logoDetector: ld,
		rateLimiter:  rl,
		recorders:    recorders,
		newRunID:     uuid.NewString,
	}
}

// ScanOne は1つの識別子を検出し、結果を集計して返します。
// 失敗はScanOutcomeの種別として表現され、エラーとしては返りません。
func (u *logodetectionUsecase) ScanOne(ctx context.Context, fileName string) entity.ScanOutcome {
	return u.scanOne(ctx, u.newRunID(), fileName)
}

func (u *logodetectionUsecase) scanOne(ctx context.Context, runID, fileName string) entity.ScanOutcome {
	start := time.Now()
	result, err := u.detect(ctx, fileName)
	outcome := Summarize(fileName, result, err)
	elapsed := time.Since(start)

	for _, r := range u.recorders {
		if rerr := r.Record(ctx, runID, outcome, elapsed); rerr != nil {
			slog.Warn("failed to record scan outcome", "run_id", runID, "file", fileName, "error", rerr)
		}
	}
	return outcome
}

func (u *logodetectionUsecase) detect(ctx context.Context, fileName string) (entity.DetectionResult, error) {
	if strings.TrimSpace(fileName) == "" {
		return entity.DetectionResult{}, domain.ErrEmptyFileName
	}
	if u.rateLimiter != nil {
		u.rateLimiter.WaitIfNeeded()
	}
	return u.logoDetector.DetectLogos(ctx, fileName)
}

// Summarize は検出結果（またはエラー）からScanOutcomeを導出します。
// スコアが1件もない場合は平均を計算せず、OutcomeNoScoreを返します。
func Summarize(fileName string, result entity.DetectionResult, err error) entity.ScanOutcome {
	outcome := entity.ScanOutcome{FileName: fileName}
	if err != nil {
		if domain.IsNotFound(err) {
			outcome.Kind = entity.OutcomeNotFound
		} else {
			outcome.Kind = entity.OutcomeError
			outcome.Message = err.Error()
		}
		return outcome
	}

	outcome.Logos = result.Logos
	for _, l := range result.Logos {
		if l.Description != "" {
			outcome.Descriptions = append(outcome.Descriptions, l.Description)
		}
	}

	scores := result.Scores()
	if len(scores) == 0 {
		outcome.Kind = entity.OutcomeNoScore
		return outcome
	}

	var sum float64
	for _, s := range scores {
		sum += float64(s)
	}
	outcome.Kind = entity.OutcomeScored
	outcome.Average = sum / float64(len(scores))
	return outcome
}
