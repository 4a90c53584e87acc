package imagesource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logoscan/internal/feature/logodetection/domain"
)

func TestIsRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bool
	}{
		{"gs://bucket/logo.png", true},
		{"https://example.com/logo.png", true},
		{"HTTP://example.com/logo.png", true},
		{"./images/cmu.jpg", false},
		{"/abs/path.jpg", false},
		{"gs:/missing-slash.png", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsRemote(tt.input))
		})
	}
}

func TestReadLocal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	data, err := ReadLocal(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	_, err = ReadLocal(filepath.Join(dir, "not-a-file.jpg"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFileNotFound), "expected ErrFileNotFound, got %v", err)

	// ディレクトリの読み込みは未検出ではなく通常のエラー
	_, err = ReadLocal(dir)
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrFileNotFound))
}

func TestMIMEType(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\n0000")
	assert.Equal(t, "image/png", MIMEType("whatever", png))
	assert.Equal(t, "image/png", MIMEType("gs://bucket/logo.png", nil))
	assert.Equal(t, "image/jpeg", MIMEType("gs://bucket/logo", nil))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.jpg":
			_, _ = w.Write([]byte("jpeg-bytes"))
		case "/gone.jpg":
			w.WriteHeader(http.StatusGone)
		case "/big.jpg":
			_, _ = w.Write(make([]byte, MaxRemoteSize+1))
		case "/boom.jpg":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	data, err := Fetch(ctx, srv.Client(), srv.URL+"/ok.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	for _, path := range []string{"/missing.jpg", "/gone.jpg"} {
		_, err = Fetch(ctx, srv.Client(), srv.URL+path)
		assert.ErrorIs(t, err, domain.ErrFileNotFound, path)
	}

	_, err = Fetch(ctx, srv.Client(), srv.URL+"/boom.jpg")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrFileNotFound)
	assert.Contains(t, err.Error(), "500")

	_, err = Fetch(ctx, srv.Client(), srv.URL+"/big.jpg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestIsHTTP(t *testing.T) {
	assert.True(t, IsHTTP("HTTPS://example.com/a.png"))
	assert.True(t, IsHTTP("http://example.com/a.png"))
	assert.False(t, IsHTTP("gs://bucket/a.png"))
	assert.False(t, IsHTTP("./images/a.png"))
}
