package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"logoscan/internal/feature/logodetection/domain"
)

func TestDetectionError_Error(t *testing.T) {
	t.Parallel()

	cause := errors.New("rpc error: code = Unavailable")

	tests := []struct {
		name string
		err  *domain.DetectionError
		want string
	}{
		{"message wins", &domain.DetectionError{Code: "RESOURCE_EXHAUSTED", Message: "quota exceeded", Cause: cause}, "quota exceeded"},
		{"cause when message is empty", &domain.DetectionError{Code: "Unavailable", Cause: cause}, cause.Error()},
		{"code when message and cause are empty", &domain.DetectionError{Code: "INTERNAL"}, "INTERNAL"},
		{"never empty", &domain.DetectionError{}, "detection failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectionError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", &domain.DetectionError{Code: "Unknown", Cause: cause})

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is should reach the cause through DetectionError")
	}
	var de *domain.DetectionError
	if !errors.As(err, &de) || de.Code != "Unknown" {
		t.Errorf("errors.As failed: %v", err)
	}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"sentinel", domain.ErrFileNotFound, true},
		{"wrapped", fmt.Errorf("./images/x.jpg: %w", domain.ErrFileNotFound), true},
		{"detection error", domain.NewDetectionError("NOT_FOUND_LIKE", "not found"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := domain.IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
