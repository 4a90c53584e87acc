// Package http は外部への画像取得に使うHTTPクライアントを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// DefaultTimeout は画像ダウンロード1件あたりのデフォルトタイムアウトです。
const DefaultTimeout = 30 * time.Second

// NewHTTPClient はリモート画像の取得用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - TLSHandshakeTimeout: HTTPSハンドシェイクの最大時間
//   - Client.Timeout: リクエスト全体のタイムアウト（0以下ならDefaultTimeout）
//   - すべてのリクエストに User-Agent を付与
//
// http.DefaultClientにはタイムアウトがないため、常にこちらを使用すること。
func NewHTTPClient(timeout time.Duration, userAgent string) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: &userAgentTransport{base: t, userAgent: userAgent}}
}

// userAgentTransport はリクエストにUser-Agentヘッダーを付与します。
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (u *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if u.userAgent == "" || req.Header.Get("User-Agent") != "" {
		return u.base.RoundTrip(req)
	}
	// RoundTripperは元のリクエストを変更してはならない
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", u.userAgent)
	return u.base.RoundTrip(r)
}
