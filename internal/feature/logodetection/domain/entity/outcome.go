package entity

import (
	"fmt"
	"strconv"
)

// OutcomeKind はスキャン結果の種別です。
type OutcomeKind int

const (
	OutcomeScored   OutcomeKind = iota // 平均スコアを算出できた
	OutcomeNoScore                     // スコア付きのロゴが1件もない
	OutcomeNotFound                    // 入力ファイルが存在しない
	OutcomeError                       // その他の検出失敗
)

// String は種別の識別名を返します。メトリクスのラベルや履歴の保存に使用します。
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeScored:
		return "scored"
	case OutcomeNoScore:
		return "no_score"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// ScanOutcome は1つの入力に対する最終的な結果です。
// Average は Kind が OutcomeScored の場合のみ意味を持ちます。
type ScanOutcome struct {
	FileName     string
	Kind         OutcomeKind
	Descriptions []string
	Logos        []LogoAnnotation
	Average      float64
	Message      string
}

// FormatScore はスコアをfloat32精度で往復可能な最短の10進表記に整形します。
func FormatScore(v float64) string {
	return strconv.FormatFloat(float64(float32(v)), 'f', -1, 32)
}

// StatusLine は検出開始時に出力する行です。
func StatusLine(fileName string) string {
	return fmt.Sprintf("Running logo detection on %s", fileName)
}

// Lines は結果を出力行に変換します。ステータス行は含みません。
func (o ScanOutcome) Lines() []string {
	switch o.Kind {
	case OutcomeNotFound:
		return []string{fmt.Sprintf("File %s not found", o.FileName)}
	case OutcomeError:
		return []string{fmt.Sprintf("Error processing %s: %s", o.FileName, o.Message)}
	}

	lines := make([]string, 0, len(o.Descriptions)+1)
	for _, d := range o.Descriptions {
		lines = append(lines, fmt.Sprintf(`"%s" found in file %s`, d, o.FileName))
	}
	if o.Kind == OutcomeScored {
		lines = append(lines, fmt.Sprintf("Average score for %s: %s", o.FileName, FormatScore(o.Average)))
	} else {
		lines = append(lines, fmt.Sprintf("No logos with a score found for %s", o.FileName))
	}
	return lines
}
