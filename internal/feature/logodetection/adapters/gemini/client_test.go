package gemini

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
	"google.golang.org/genai"

	"logoscan/internal/feature/logodetection/domain"
)

// mockGenerator はcontentGeneratorインターフェースのモック実装です。
type mockGenerator struct {
	GenerateContentFunc  func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	GenerateContentCalls int
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.GenerateContentCalls++
	return m.GenerateContentFunc(ctx, model, contents, config)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestParseLogos(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		wantLen    int
		wantScored []bool
		wantErr    bool
	}{
		{name: "plain array", text: `[{"description":"Acme","score":0.8},{"description":"Globex"}]`, wantLen: 2, wantScored: []bool{true, false}},
		{name: "fenced", text: "```json\n[{\"description\":\"Acme\",\"score\":0.8}]\n```", wantLen: 1, wantScored: []bool{true}},
		{name: "empty text", text: "   ", wantLen: 0},
		{name: "empty array", text: "[]", wantLen: 0},
		{name: "out of range score dropped", text: `[{"description":"Acme","score":7}]`, wantLen: 1, wantScored: []bool{false}},
		{name: "malformed", text: `{"oops"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logos, err := parseLogos(tt.text)
			if tt.wantErr {
				var de *domain.DetectionError
				require.ErrorAs(t, err, &de)
				assert.Equal(t, "GEMINI_MALFORMED_RESPONSE", de.Code)
				return
			}
			require.NoError(t, err)
			require.Len(t, logos, tt.wantLen)
			for i, scored := range tt.wantScored {
				assert.Equal(t, scored, logos[i].HasScore(), "logo %d", i)
			}
		})
	}
}

func TestGeminiLogoDetector_DetectLogos(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nrest"), 0o600))

	mock := &mockGenerator{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			assert.Equal(t, DefaultModel, model)
			assert.Equal(t, "application/json", config.ResponseMIMEType)
			require.Len(t, contents, 1)
			require.Len(t, contents[0].Parts, 2)
			assert.Equal(t, DetectionPrompt, contents[0].Parts[0].Text)
			require.NotNil(t, contents[0].Parts[1].InlineData)
			assert.Equal(t, "image/png", contents[0].Parts[1].InlineData.MIMEType)
			return textResponse(`[{"description":"Acme","score":0.75}]`), nil
		},
	}
	d := &GeminiLogoDetector{models: mock, model: DefaultModel}

	result, err := d.DetectLogos(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, result.FileName)
	require.Len(t, result.Logos, 1)
	assert.Equal(t, "Acme", result.Logos[0].Description)
	assert.InDelta(t, 0.75, *result.Logos[0].Score, 1e-6)
}

func TestGeminiLogoDetector_DetectLogos_RemoteURI(t *testing.T) {
	mock := &mockGenerator{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			fd := contents[0].Parts[1].FileData
			require.NotNil(t, fd)
			assert.Equal(t, "gs://bucket/logo.png", fd.FileURI)
			return textResponse(`[]`), nil
		},
	}
	d := &GeminiLogoDetector{models: mock, model: DefaultModel}

	result, err := d.DetectLogos(context.Background(), "gs://bucket/logo.png")
	require.NoError(t, err)
	assert.Empty(t, result.Logos)
}

func TestGeminiLogoDetector_DetectLogos_HTTPImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n0000")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	mock := &mockGenerator{
		GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
			blob := contents[0].Parts[1].InlineData
			require.NotNil(t, blob)
			assert.Equal(t, png, blob.Data)
			assert.Equal(t, "image/png", blob.MIMEType)
			return textResponse(`[]`), nil
		},
	}
	d := &GeminiLogoDetector{models: mock, model: DefaultModel, http: srv.Client()}

	_, err := d.DetectLogos(context.Background(), srv.URL+"/logo.png")
	require.NoError(t, err)

	_, err = d.DetectLogos(context.Background(), srv.URL+"/missing.png")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
	assert.Equal(t, 1, mock.GenerateContentCalls)
}

func TestGeminiLogoDetector_DetectLogos_Errors(t *testing.T) {
	t.Run("missing file does not call the API", func(t *testing.T) {
		mock := &mockGenerator{}
		d := &GeminiLogoDetector{models: mock, model: DefaultModel}

		_, err := d.DetectLogos(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
		assert.ErrorIs(t, err, domain.ErrFileNotFound)
		assert.Equal(t, 0, mock.GenerateContentCalls)
	})

	t.Run("api error is wrapped", func(t *testing.T) {
		apiErr := errors.New("quota exceeded")
		mock := &mockGenerator{
			GenerateContentFunc: func(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
				return nil, apiErr
			},
		}
		d := &GeminiLogoDetector{models: mock, model: DefaultModel}

		_, err := d.DetectLogos(context.Background(), "gs://bucket/logo.png")
		assert.ErrorIs(t, err, apiErr)
		assert.Equal(t, "quota exceeded", err.Error())
	})
}
