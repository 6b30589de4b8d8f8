package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	calls := 0
	err := retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("retry = %v after %d calls, want success after 3", err, calls)
	}
}

func TestRetryGivesUp(t *testing.T) {
	calls := 0
	want := errors.New("down")
	err := retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return want
	})
	if !errors.Is(err, want) || calls != 2 {
		t.Errorf("retry = %v after %d calls", err, calls)
	}
}

func TestRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := retry(ctx, 5, time.Hour, func() error { return errors.New("down") })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("retry = %v, want context.Canceled", err)
	}
}
