package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		if !rl.Allow() {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	if rl.Allow() {
		t.Error("6th request should be denied")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(10, 100*time.Millisecond)

	for i := 0; i < 10; i++ {
		rl.Allow()
	}
	if rl.Allow() {
		t.Error("should be blocked with no tokens left")
	}

	// 等待足夠的補充時間
	time.Sleep(60 * time.Millisecond)

	if !rl.Allow() {
		t.Error("should be allowed after refill")
	}
}

func TestRateLimiterCapacityCap(t *testing.T) {
	rl := NewRateLimiter(2, 10*time.Millisecond)

	// 閒置很久也不會累積超過容量
	time.Sleep(100 * time.Millisecond)

	allowed := 0
	for i := 0; i < 5; i++ {
		if rl.Allow() {
			allowed++
		}
	}
	if allowed > 3 {
		t.Errorf("allowed %d requests, capacity should cap the burst", allowed)
	}
}
