// Package adapters はlogodetectionフィーチャーの永続化実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"logoscan/internal/feature/logodetection/domain/entity"
	"logoscan/internal/feature/logodetection/usecase"
)

// ScanRecordModel はscan_recordsテーブルの行です。
type ScanRecordModel struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"size:36;not null;index"`
	FileName  string `gorm:"size:1024;not null"`
	Outcome   string `gorm:"size:16;not null"`
	Average   *float64
	LogoCount int       `gorm:"not null;default:0"`
	Message   string    `gorm:"size:2048"`
	ElapsedMS int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (ScanRecordModel) TableName() string {
	return "scan_records"
}

// scanHistoryGorm はスキャン結果をgorm経由で保存するOutcomeRecorderです。
type scanHistoryGorm struct {
	db *gorm.DB
}

var _ usecase.OutcomeRecorder = (*scanHistoryGorm)(nil)

// NewScanHistoryRepository は指定されたDB接続でscanHistoryGormの新しいインスタンスを生成します。
func NewScanHistoryRepository(db *gorm.DB) *scanHistoryGorm {
	return &scanHistoryGorm{db: db}
}

func toModel(runID string, o entity.ScanOutcome, elapsed time.Duration) ScanRecordModel {
	m := ScanRecordModel{
		RunID:     runID,
		FileName:  o.FileName,
		Outcome:   o.Kind.String(),
		LogoCount: len(o.Logos),
		Message:   o.Message,
		ElapsedMS: elapsed.Milliseconds(),
	}
	if o.Kind == entity.OutcomeScored {
		avg := o.Average
		m.Average = &avg
	}
	return m
}

// Record はスキャン結果を1行として保存します。
func (r *scanHistoryGorm) Record(ctx context.Context, runID string, outcome entity.ScanOutcome, elapsed time.Duration) error {
	m := toModel(runID, outcome, elapsed)
	return r.db.WithContext(ctx).Create(&m).Error
}

// ListByRun は実行IDに紐づく履歴を保存順に返します。
func (r *scanHistoryGorm) ListByRun(ctx context.Context, runID string) ([]entity.ScanRecord, error) {
	var rows []ScanRecordModel
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.ScanRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.ScanRecord{
			RunID:     m.RunID,
			FileName:  m.FileName,
			Outcome:   m.Outcome,
			Average:   m.Average,
			LogoCount: m.LogoCount,
			Message:   m.Message,
			Elapsed:   time.Duration(m.ElapsedMS) * time.Millisecond,
			CreatedAt: m.CreatedAt,
		})
	}
	return out, nil
}
