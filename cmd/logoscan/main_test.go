package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"logoscan/internal/feature/logodetection/domain/entity"
	"logoscan/internal/platform/config"
)

// recordingUsecase は呼ばれた実行方式の順序を記録します。
type recordingUsecase struct {
	calls []string
}

func (r *recordingUsecase) ScanOne(_ context.Context, fileName string) entity.ScanOutcome {
	return entity.ScanOutcome{FileName: fileName}
}

func (r *recordingUsecase) RunSequential(_ context.Context, w io.Writer, fileNames []string) string {
	r.calls = append(r.calls, "sequential")
	_, _ = io.WriteString(w, "seq "+strings.Join(fileNames, ",")+"\n")
	return "run"
}

func (r *recordingUsecase) RunConcurrent(_ context.Context, w io.Writer, fileNames []string) string {
	r.calls = append(r.calls, "concurrent")
	_, _ = io.WriteString(w, "con "+strings.Join(fileNames, ",")+"\n")
	return "run"
}

func TestScan_Modes(t *testing.T) {
	tests := []struct {
		mode      string
		wantCalls []string
		wantOut   string
	}{
		{config.ModeSequential, []string{"sequential"}, "seq a,b\n"},
		{config.ModeConcurrent, []string{"concurrent"}, "con a,b\n"},
		{config.ModeBoth, []string{"concurrent", "sequential"}, "con a,b\nseq a,b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			uc := &recordingUsecase{}
			var out bytes.Buffer

			scan(context.Background(), uc, tt.mode, []string{"a", "b"}, &out)

			assert.Equal(t, tt.wantCalls, uc.calls)
			assert.Equal(t, tt.wantOut, out.String())
		})
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("LOGOSCAN_CONFIG", "")
	t.Setenv("LOGOSCAN_DETECTOR", "rekognition")

	var stdout, stderr bytes.Buffer
	code := run(nil, &stdout, &stderr)

	assert.Equal(t, 2, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "unknown detector")
}
