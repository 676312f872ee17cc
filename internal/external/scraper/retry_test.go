package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWithRetry_SingleAttempt(t *testing.T) {
	calls := 0
	sentinel := errors.New("boom")

	err := WithRetry(context.Background(), zap.NewNop(), RetryConfig{}, func() error {
		calls++
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Errorf("Expected sentinel error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestWithRetry_EventualSuccess(t *testing.T) {
	calls := 0
	config := RetryConfig{MaxRetries: 3, InitialDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffMultiplier: 2}

	err := WithRetry(context.Background(), zap.NewNop(), config, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestWithRetry_Exhausted(t *testing.T) {
	sentinel := errors.New("still failing")
	config := RetryConfig{MaxRetries: 2, InitialDelay: time.Millisecond, BackoffMultiplier: 1}

	err := WithRetry(context.Background(), zap.NewNop(), config, func() error { return sentinel })

	if !errors.Is(err, sentinel) {
		t.Errorf("Expected wrapped sentinel, got %v", err)
	}
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := WithRetry(ctx, zap.NewNop(), RetryConfig{MaxRetries: 3}, func() error {
		calls++
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no calls, got %d", calls)
	}
}
