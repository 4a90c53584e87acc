// Package imagesource は検出対象の識別子（ローカルパスまたはURI）を解決します。
package imagesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"logoscan/internal/feature/logodetection/domain"
)

// remoteSchemes は検出サービスにそのまま渡せるURIスキームです。
var remoteSchemes = []string{"gs://", "http://", "https://"}

// IsRemote はfileNameがリモートURIかどうかを返します。
func IsRemote(fileName string) bool {
	lower := strings.ToLower(fileName)
	for _, s := range remoteSchemes {
		if strings.HasPrefix(lower, s) {
			return true
		}
	}
	return false
}

// ReadLocal はローカルファイルを読み込みます。
// ファイルが存在しない場合は domain.ErrFileNotFound をラップしたエラーを返します。
func ReadLocal(fileName string) ([]byte, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", fileName, domain.ErrFileNotFound)
		}
		return nil, fmt.Errorf("failed to read image %s: %w", fileName, err)
	}
	return data, nil
}

// MIMEType は画像のMIMEタイプを推定します。dataが空の場合は拡張子から推定します。
func MIMEType(fileName string, data []byte) string {
	if len(data) > 0 {
		return http.DetectContentType(data)
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName))); t != "" {
		return t
	}
	return "image/jpeg"
}

// MaxRemoteSize はFetchが読み込むリモート画像の最大サイズ（10MB）です。
const MaxRemoteSize = 10 * 1024 * 1024

// IsHTTP はfileNameがhttp(s)のURLかどうかを返します。
func IsHTTP(fileName string) bool {
	lower := strings.ToLower(fileName)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Fetch はhttp(s)のURLから画像をダウンロードします。
// 404/410 は domain.ErrFileNotFound として扱います。
func Fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, fmt.Errorf("%s: %w", url, domain.ErrFileNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxRemoteSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}
	if len(data) > MaxRemoteSize {
		return nil, fmt.Errorf("image %s exceeds %d bytes", url, MaxRemoteSize)
	}
	return data, nil
}
