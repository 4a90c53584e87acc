// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewHealth はサービスヘルスチェック用の /healthz ハンドラーを返します。
// レスポンスにはサービス名と起動時に決めたバージョンが含まれます。
func NewHealth(service, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 明示的にキャッシュを防止
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Header("Allow", "GET, HEAD, OPTIONS")
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, gin.H{"status": "ok", "service": service, "version": version})
		}
	}
}
