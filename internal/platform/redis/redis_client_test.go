package redis

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewRedisClient_NotConfigured(t *testing.T) {
	t.Parallel()

	_, err := NewRedisClient(context.Background(), "", "")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	// 127.0.0.1:1 は通常リッスンされていない
	rdb, err := NewRedisClient(ctx, "127.0.0.1:1", "")
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	if rdb != nil {
		t.Error("expected nil client on failure")
	}
}
