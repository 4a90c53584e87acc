// Package dto はlogodetectionフィーチャーのHTTPリクエスト・レスポンスを定義します。
package dto

// ErrorResponse はエラー時のレスポンスです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// LogoResponse は検出されたロゴ1件です。scoreが無い場合は省略されます。
type LogoResponse struct {
	Description string   `json:"description"`
	Score       *float32 `json:"score,omitempty"`
}

// DetectResponse は POST /v1/logo/detect のレスポンスです。
// averageはoutcomeが"scored"の場合のみ含まれます。
type DetectResponse struct {
	File    string         `json:"file"`
	Outcome string         `json:"outcome"`
	Logos   []LogoResponse `json:"logos"`
	Average *float64       `json:"average,omitempty"`
	Message string         `json:"message,omitempty"`
}

// ScanRequest は POST /v1/logo/scan のリクエストです。
// modeの値は config.ModeSequential / config.ModeConcurrent と一致させること。
type ScanRequest struct {
	Files []string `json:"files" binding:"required,min=1,dive,required"`
	Mode  string   `json:"mode" binding:"omitempty,oneof=sequential concurrent"`
}

// ScanResponse は POST /v1/logo/scan のレスポンスです。
type ScanResponse struct {
	RunID string   `json:"run_id"`
	Lines []string `json:"lines"`
}
