// Package handler はlogodetectionフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"logoscan/internal/feature/logodetection/adapters/imagesource"
	"logoscan/internal/feature/logodetection/domain/entity"
	"logoscan/internal/feature/logodetection/transport/http/dto"
	"logoscan/internal/feature/logodetection/usecase"
	"logoscan/internal/platform/config"
)

// LogoDetectionUsecase はロゴ検出のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type LogoDetectionUsecase interface {
	ScanOne(ctx context.Context, fileName string) entity.ScanOutcome
	RunSequential(ctx context.Context, w io.Writer, fileNames []string) string
	RunConcurrent(ctx context.Context, w io.Writer, fileNames []string) string
}

// LogoDetectionHandler はロゴ検出のHTTPリクエストを処理します。
type LogoDetectionHandler struct {
	uc LogoDetectionUsecase
}

// NewLogoDetectionHandler はLogoDetectionHandlerの新しいインスタンスを生成します。
func NewLogoDetectionHandler(uc LogoDetectionUsecase) *LogoDetectionHandler {
	return &LogoDetectionHandler{uc: uc}
}

// DetectLogos は画像をアップロードしてロゴを検出します。
//
// エンドポイント: POST /v1/logo/detect
// Content-Type: multipart/form-data
// フィールド: image（画像ファイル、最大10MB）
func (h *LogoDetectionHandler) DetectLogos(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		slog.Warn("画像ファイルの取得に失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "画像ファイルが必要です"})
		return
	}
	if file.Size == 0 || file.Size > usecase.MaxImageSize {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: fmt.Sprintf("画像サイズは1〜%dバイトである必要があります", usecase.MaxImageSize)})
		return
	}

	tmpPath, err := saveTemp(c, file)
	if err != nil {
		slog.Error("画像の一時保存に失敗", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			slog.Warn("一時ファイルの削除に失敗", "error", err, "path", tmpPath)
		}
	}()

	outcome := h.uc.ScanOne(c.Request.Context(), tmpPath)
	outcome.FileName = file.Filename

	switch outcome.Kind {
	case entity.OutcomeError:
		slog.Error("ロゴ検出に失敗", "error", outcome.Message, "file", file.Filename)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "ロゴ検出に失敗しました"})
		return
	case entity.OutcomeNotFound:
		slog.Error("アップロードされた画像が見つかりません", "path", tmpPath)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "画像の読み込みに失敗しました"})
		return
	}

	c.JSON(http.StatusOK, toDetectResponse(outcome))
}

// ScanFiles はリモートURIのリストをスキャンし、CLIと同じ出力行を返します。
//
// エンドポイント: POST /v1/logo/scan
// Content-Type: application/json
func (h *LogoDetectionHandler) ScanFiles(c *gin.Context) {
	var req dto.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("スキャンリクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "filesが必要です"})
		return
	}
	if len(req.Files) > usecase.MaxFilesPerRun {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "files は" + strconv.Itoa(usecase.MaxFilesPerRun) + "件以下である必要があります"})
		return
	}
	// サーバー上のローカルファイルは読ませない
	for _, f := range req.Files {
		if !imagesource.IsRemote(f) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "files には gs:// または http(s):// のURIを指定してください"})
			return
		}
	}

	var buf bytes.Buffer
	var runID string
	if req.Mode == config.ModeConcurrent {
		runID = h.uc.RunConcurrent(c.Request.Context(), &buf, req.Files)
	} else {
		runID = h.uc.RunSequential(c.Request.Context(), &buf, req.Files)
	}

	c.JSON(http.StatusOK, dto.ScanResponse{
		RunID: runID,
		Lines: strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"),
	})
}

// saveTemp はアップロードを拡張子付きの一時ファイルに保存します。拡張子はMIME推定に使われます。
func saveTemp(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "logoscan-*"+strings.ToLower(filepath.Ext(fh.Filename)))
	if err != nil {
		return "", err
	}
	path := tmp.Name()
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := c.SaveUploadedFile(fh, path); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func toDetectResponse(o entity.ScanOutcome) dto.DetectResponse {
	out := dto.DetectResponse{
		File:    o.FileName,
		Outcome: o.Kind.String(),
		Logos:   make([]dto.LogoResponse, 0, len(o.Logos)),
		Message: o.Message,
	}
	for _, l := range o.Logos {
		out.Logos = append(out.Logos, dto.LogoResponse{Description: l.Description, Score: l.Score})
	}
	if o.Kind == entity.OutcomeScored {
		avg := o.Average
		out.Average = &avg
	}
	return out
}
