package llm

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterNilNeverBlocks(t *testing.T) {
	var rl *RateLimiter
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("nil limiter: %v", err)
	}
	if NewRateLimiter(0) != nil {
		t.Error("zero rate should disable limiting")
	}
}

func TestRateLimiterBurstThenWait(t *testing.T) {
	now := time.Unix(0, 0)
	rl := NewRateLimiter(2)
	rl.now = func() time.Time { return now }
	rl.lastRefill = now

	if rl.reserve() != 0 || rl.reserve() != 0 {
		t.Fatal("burst of two should be immediate")
	}
	if wait := rl.reserve(); wait != 30*time.Second {
		t.Fatalf("wait = %s, want 30s", wait)
	}

	now = now.Add(30 * time.Second)
	if rl.reserve() != 0 {
		t.Error("token should be available after refill interval")
	}
}

func TestRateLimiterHonoursContext(t *testing.T) {
	rl := NewRateLimiter(1)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Fatal("expected context error while bucket is empty")
	}
}
