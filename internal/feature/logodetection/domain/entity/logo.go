// Package entity はlogodetectionフィーチャーのドメインモデルを定義します。
package entity

// LogoAnnotation は検出サービスが返したロゴ1件を表します。
type LogoAnnotation struct {
	Description string   // ロゴの説明（空文字は「説明なし」）
	Score       *float32 // 信頼度スコア（0.0 ~ 1.0）。nilはスコアなし
}

// HasScore はスコアが付与されているかどうかを返します。
func (a LogoAnnotation) HasScore() bool {
	return a.Score != nil
}

// DetectionResult は1つの入力に対する検出結果です。
type DetectionResult struct {
	FileName string
	Logos    []LogoAnnotation
}

// Scores は存在するスコアのみを入力順で返します。
func (r DetectionResult) Scores() []float32 {
	scores := make([]float32, 0, len(r.Logos))
	for _, l := range r.Logos {
		if l.HasScore() {
			scores = append(scores, *l.Score)
		}
	}
	return scores
}

// Float32 はスコア用のポインタを生成するヘルパーです。
func Float32(v float32) *float32 {
	return &v
}
