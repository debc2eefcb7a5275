package retry

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), Options{MaxAttempts: 3, BackoffUnit: time.Millisecond}, func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if result != "ok" {
		t.Errorf("expected ok, got %q", result)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestDo_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	result, err := Do(context.Background(), Options{MaxAttempts: 3, BackoffUnit: time.Millisecond}, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if result != 42 {
		t.Errorf("expected 42, got %d", result)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	wantErr := errors.New("always down")
	_, err := Do(context.Background(), Options{MaxAttempts: 3, BackoffUnit: time.Millisecond}, func(ctx context.Context) (string, error) {
		calls++
		return "", wantErr
	})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("expected last error to be wrapped, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestDo_ExponentialBackoffSpacing(t *testing.T) {
	unit := 10 * time.Millisecond
	var stamps []time.Time
	_, _ = Do(context.Background(), Options{MaxAttempts: 3, BackoffUnit: unit}, func(ctx context.Context) (string, error) {
		stamps = append(stamps, time.Now())
		return "", errors.New("fail")
	})

	if len(stamps) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(stamps))
	}

	// Waits should be ~1x and ~2x the unit (exponential, 0-indexed).
	gap1 := stamps[1].Sub(stamps[0])
	gap2 := stamps[2].Sub(stamps[1])
	if gap1 < unit {
		t.Errorf("first backoff too short: %v < %v", gap1, unit)
	}
	if gap2 < 2*unit {
		t.Errorf("second backoff too short: %v < %v", gap2, 2*unit)
	}
	if gap2 < gap1 {
		t.Errorf("backoff should grow: %v then %v", gap1, gap2)
	}
}

func TestDo_PerAttemptTimeout(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Options{
		MaxAttempts:       2,
		PerAttemptTimeout: 5 * time.Millisecond,
		BackoffUnit:       time.Millisecond,
	}, func(ctx context.Context) (string, error) {
		calls++
		select {
		case <-time.After(time.Second):
			return "too late", nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	})
	if err == nil {
		t.Fatal("expected timeout-driven failure")
	}
	if !strings.Contains(err.Error(), "deadline") {
		t.Errorf("expected deadline error, got %v", err)
	}
	if calls != 2 {
		t.Errorf("timeout should consume retry budget like any failure; got %d calls", calls)
	}
}

func TestDo_CanceledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, Options{MaxAttempts: 3, BackoffUnit: time.Millisecond}, func(ctx context.Context) (string, error) {
		calls++
		return "", errors.New("fail")
	})
	if err == nil {
		t.Fatal("expected error from canceled context")
	}
	if calls != 0 {
		t.Errorf("expected no attempts on pre-canceled context, got %d", calls)
	}
}
