package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	logohandler "logoscan/internal/feature/logodetection/transport/handler"
	platformhandler "logoscan/internal/platform/http/handler"
	jwtmw "logoscan/internal/platform/jwt"
)

// NewRouter はHTTPルートを登録したgin.Engineを返します。
// jwtSecretが空の場合、/v1 のルートは認証なしで公開されます。
func NewRouter(logo *logohandler.LogoDetectionHandler, metrics http.Handler, jwtSecret, version string) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	health := platformhandler.NewHealth("logoscan", version)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)
	// Prometheus
	r.GET("/metrics", gin.WrapH(metrics))

	v1 := r.Group("/v1")
	if jwtSecret != "" {
		// → リクエストヘッダーに JWT が必要になる
		v1.Use(jwtmw.AuthRequired(jwtSecret))
	}
	{
		v1.POST("/logo/detect", logo.DetectLogos)
		v1.POST("/logo/scan", logo.ScanFiles)
	}

	return r
}
