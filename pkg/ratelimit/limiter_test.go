package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAcquireConservesTokens(t *testing.T) {
	l := NewLimiter(10, 5)

	for i := 0; i < 5; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
		tokens := l.Tokens()
		if tokens < 0 || tokens > l.Capacity() {
			t.Fatalf("tokens out of range after acquire %d: %f", i, tokens)
		}
	}
}

func TestExhaustedBucketWaits(t *testing.T) {
	rate := 50.0
	l := NewLimiter(rate, 3)

	// Drain the bucket.
	for i := 0; i < 3; i++ {
		if err := l.Acquire(context.Background()); err != nil {
			t.Fatalf("drain acquire: %v", err)
		}
	}

	start := time.Now()
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("blocked acquire: %v", err)
	}
	elapsed := time.Since(start)

	// Roughly 1/rate seconds; allow generous slack for slow runners but
	// require an actual wait.
	min := time.Duration(float64(time.Second)/rate) / 2
	if elapsed < min {
		t.Fatalf("expected wait of at least %v, got %v", min, elapsed)
	}
	if tokens := l.Tokens(); tokens < 0 || tokens > l.Capacity() {
		t.Fatalf("tokens out of range after wait: %f", tokens)
	}
}

func TestAcquireHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	if err := l.Acquire(context.Background()); err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Acquire(ctx)
	if err == nil {
		t.Fatal("expected context error for an empty bucket with a slow rate")
	}
}

func TestConcurrentAcquireKeepsInvariant(t *testing.T) {
	l := NewLimiter(100, 10)
	done := make(chan error, 20)

	for i := 0; i < 20; i++ {
		go func() {
			done <- l.Acquire(context.Background())
		}()
	}
	for i := 0; i < 20; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent acquire: %v", err)
		}
	}
	if tokens := l.Tokens(); tokens < 0 || tokens > l.Capacity() {
		t.Fatalf("tokens out of range after concurrent drain: %f", tokens)
	}
}
