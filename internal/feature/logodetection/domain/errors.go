// Package domain はlogodetectionフィーチャーのドメインエラーを定義します。
package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound は入力の識別子が存在するファイル（またはオブジェクト）に解決できないことを示します。
	ErrFileNotFound = errors.New("file not found")

	// ErrEmptyFileName は空の識別子が渡されたことを示します。
	ErrEmptyFileName = errors.New("file name is empty")
)

// DetectionError は検出サービスから返された分類コード付きのエラーです。
// Error() はサービスが返した人間向けのメッセージを返します。
// メッセージが無い場合は原因エラー、それも無い場合は分類コードを返します。
type DetectionError struct {
	Code    string // サービス側の分類コード（例: "RESOURCE_EXHAUSTED"）
	Message string
	Cause   error
}

func (e *DetectionError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Cause != nil:
		return e.Cause.Error()
	case e.Code != "":
		return e.Code
	default:
		return "detection failed"
	}
}

func (e *DetectionError) Unwrap() error { return e.Cause }

// NewDetectionError はDetectionErrorを生成します。
func NewDetectionError(code, format string, args ...any) *DetectionError {
	return &DetectionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsNotFound はerrがファイル未検出を示すかどうかを返します。
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}
