package cache

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kapu/osint-footprint-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func TestResultKey(t *testing.T) {
	tests := []struct {
		platform, handle, want string
	}{
		{"tiktok", "jane", "osint:result:tiktok:jane"},
		{"TikTok", "@Jane ", "osint:result:tiktok:jane"},
		{"instagram", "jane.doe", "osint:result:instagram:jane.doe"},
	}
	for _, tt := range tests {
		if got := ResultKey(tt.platform, tt.handle); got != tt.want {
			t.Errorf("ResultKey(%q, %q) = %q, want %q", tt.platform, tt.handle, got, tt.want)
		}
	}
}

func TestWaitUntilReadyTimesOut(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 50 * time.Millisecond,
	})
	defer client.Close()
	svc := &CacheService{client: client, logger: zap.NewNop()}

	start := time.Now()
	err := svc.WaitUntilReady(context.Background(), 200*time.Millisecond)

	var cacheErr *errors.CacheError
	if !stderrors.As(err, &cacheErr) || cacheErr.Operation != "ping" {
		t.Fatalf("WaitUntilReady() error = %v, want a ping CacheError", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("WaitUntilReady() took %v", elapsed)
	}
}
