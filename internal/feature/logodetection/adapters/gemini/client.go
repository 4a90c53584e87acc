// Package gemini はGoogle Gemini APIを使用したロゴ検出クライアントを提供します。
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"logoscan/internal/feature/logodetection/adapters/imagesource"
	"logoscan/internal/feature/logodetection/domain"
	"logoscan/internal/feature/logodetection/domain/entity"
	"logoscan/internal/feature/logodetection/usecase"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// DetectionPrompt はロゴ検出用のプロンプトです。
	DetectionPrompt = `List every brand or organization logo visible in this image. ` +
		`Respond with a JSON array of objects with keys "description" (the brand name) ` +
		`and "score" (your confidence between 0 and 1). Respond with [] if there are none.`
)

// contentGenerator はgenai.Modelsのうち本パッケージが使用するメソッドです。
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiLogoDetector はGoogle Gemini APIを使用してロゴを検出します。
type GeminiLogoDetector struct {
	models contentGenerator
	model  string
	http   *http.Client
}

// GeminiLogoDetectorがLogoDetectorを実装していることをコンパイル時に検証します。
var _ usecase.LogoDetector = (*GeminiLogoDetector)(nil)

// NewGeminiLogoDetector はADCを使用してGeminiLogoDetectorの新しいインスタンスを生成します。
// 環境変数 GOOGLE_GENAI_USE_VERTEXAI, GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION が必要です。
// httpClient はhttp(s)の画像をダウンロードする際に使用されます。
func NewGeminiLogoDetector(ctx context.Context, model string, httpClient *http.Client) (*GeminiLogoDetector, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiLogoDetector{models: client.Models, model: model, http: httpClient}, nil
}

// geminiLogo はモデルが返すJSONの1要素です。
type geminiLogo struct {
	Description string   `json:"description"`
	Score       *float32 `json:"score"`
}

// DetectLogos はファイル識別子が指す画像からロゴを検出します。
func (g *GeminiLogoDetector) DetectLogos(ctx context.Context, fileName string) (entity.DetectionResult, error) {
	part, err := g.imagePart(ctx, fileName)
	if err != nil {
		return entity.DetectionResult{}, err
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(DetectionPrompt), part}, genai.RoleUser),
	}
	config := &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}

	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return entity.DetectionResult{}, &domain.DetectionError{Code: "GEMINI_REQUEST_FAILED", Message: err.Error(), Cause: err}
	}

	logos, err := parseLogos(resp.Text())
	if err != nil {
		return entity.DetectionResult{}, err
	}
	return entity.DetectionResult{FileName: fileName, Logos: logos}, nil
}

// imagePart は識別子をgenaiのPartに変換します。
// gs:// はURIのまま渡し、http(s)はダウンロードしてインラインで送ります。
func (g *GeminiLogoDetector) imagePart(ctx context.Context, fileName string) (*genai.Part, error) {
	if imagesource.IsHTTP(fileName) {
		client := g.http
		if client == nil {
			client = http.DefaultClient
		}
		data, err := imagesource.Fetch(ctx, client, fileName)
		if err != nil {
			return nil, err
		}
		return genai.NewPartFromBytes(data, imagesource.MIMEType(fileName, data)), nil
	}
	if imagesource.IsRemote(fileName) {
		return genai.NewPartFromURI(fileName, imagesource.MIMEType(fileName, nil)), nil
	}
	data, err := imagesource.ReadLocal(fileName)
	if err != nil {
		return nil, err
	}
	return genai.NewPartFromBytes(data, imagesource.MIMEType(fileName, data)), nil
}

// parseLogos はモデルの応答テキストをLogoAnnotationに変換します。
// コードフェンスで囲まれた応答も受け付けます。範囲外のスコアは「スコアなし」として扱います。
func parseLogos(text string) ([]entity.LogoAnnotation, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var raw []geminiLogo
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, &domain.DetectionError{Code: "GEMINI_MALFORMED_RESPONSE", Message: fmt.Sprintf("malformed gemini response: %v", err), Cause: err}
	}

	logos := make([]entity.LogoAnnotation, 0, len(raw))
	for _, r := range raw {
		a := entity.LogoAnnotation{Description: strings.TrimSpace(r.Description)}
		if r.Score != nil && *r.Score > 0 && *r.Score <= 1 {
			a.Score = entity.Float32(*r.Score)
		}
		logos = append(logos, a)
	}
	return logos, nil
}
