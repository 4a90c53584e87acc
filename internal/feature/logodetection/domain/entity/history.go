package entity

import "time"

// ScanRecord はスキャン履歴の1行です。
type ScanRecord struct {
	RunID     string
	FileName  string
	Outcome   string
	Average   *float64
	LogoCount int
	Message   string
	Elapsed   time.Duration
	CreatedAt time.Time
}
