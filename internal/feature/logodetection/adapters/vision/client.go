// Package vision はGoogle Cloud Vision APIを使用したロゴ検出クライアントを提供します。
package vision

import (
	"context"
	"fmt"

	gvision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"logoscan/internal/feature/logodetection/adapters/imagesource"
	"logoscan/internal/feature/logodetection/domain"
	"logoscan/internal/feature/logodetection/domain/entity"
	"logoscan/internal/feature/logodetection/usecase"
)

// annotator はImageAnnotatorClientのうち本パッケージが使用するメソッドです。
type annotator interface {
	BatchAnnotateImages(ctx context.Context, req *visionpb.BatchAnnotateImagesRequest, opts ...gax.CallOption) (*visionpb.BatchAnnotateImagesResponse, error)
	Close() error
}

// VisionLogoDetector はGoogle Cloud Vision APIを使用してロゴを検出します。
type VisionLogoDetector struct {
	client annotator
}

// VisionLogoDetectorがLogoDetectorを実装していることをコンパイル時に検証します。
var _ usecase.LogoDetector = (*VisionLogoDetector)(nil)

// NewVisionLogoDetector はADCを使用してVisionLogoDetectorの新しいインスタンスを生成します。
func NewVisionLogoDetector(ctx context.Context) (*VisionLogoDetector, error) {
	client, err := gvision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create vision client: %w", err)
	}
	return &VisionLogoDetector{client: client}, nil
}

// Close はVision APIクライアントを解放します。
func (v *VisionLogoDetector) Close() error {
	return v.client.Close()
}

// DetectLogos はファイル識別子が指す画像からロゴを検出します。
// ローカルパスは読み込んでバイト列として送信し、gs:// や http(s):// はURIとして送信します。
func (v *VisionLogoDetector) DetectLogos(ctx context.Context, fileName string) (entity.DetectionResult, error) {
	image, err := buildImage(fileName)
	if err != nil {
		return entity.DetectionResult{}, err
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: image,
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_LOGO_DETECTION},
				},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		st, ok := status.FromError(err)
		if !ok {
			return entity.DetectionResult{}, &domain.DetectionError{Code: codes.Unknown.String(), Message: err.Error(), Cause: err}
		}
		return entity.DetectionResult{}, classify(fileName, st.Code(), st.Message(), err)
	}

	result := entity.DetectionResult{FileName: fileName}
	if len(resp.GetResponses()) == 0 {
		return result, nil
	}

	first := resp.GetResponses()[0]
	if e := first.GetError(); e != nil && e.GetCode() != int32(codes.OK) {
		return entity.DetectionResult{}, classify(fileName, codes.Code(e.GetCode()), e.GetMessage(), nil)
	}

	result.Logos = make([]entity.LogoAnnotation, 0, len(first.GetLogoAnnotations()))
	for _, logo := range first.GetLogoAnnotations() {
		a := entity.LogoAnnotation{Description: logo.GetDescription()}
		// proto3 のfloatは存在を区別できないため、0は「スコアなし」として扱う
		if s := logo.GetScore(); s != 0 {
			a.Score = entity.Float32(s)
		}
		result.Logos = append(result.Logos, a)
	}
	return result, nil
}

func buildImage(fileName string) (*visionpb.Image, error) {
	if imagesource.IsRemote(fileName) {
		return &visionpb.Image{Source: &visionpb.ImageSource{ImageUri: fileName}}, nil
	}
	data, err := imagesource.ReadLocal(fileName)
	if err != nil {
		return nil, err
	}
	return &visionpb.Image{Content: data}, nil
}

// classify はVision APIのステータスコードをドメインエラーに変換します。
func classify(fileName string, code codes.Code, message string, cause error) error {
	if code == codes.NotFound {
		return fmt.Errorf("%s: %s: %w", fileName, message, domain.ErrFileNotFound)
	}
	return &domain.DetectionError{Code: code.String(), Message: message, Cause: cause}
}
