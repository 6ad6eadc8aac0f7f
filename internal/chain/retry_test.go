package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestWithRetryEventuallySucceeds(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), nil, 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := WithRetry(context.Background(), nil, 2, time.Millisecond, func(context.Context) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WithRetry(ctx, nil, 5, time.Hour, func(context.Context) error {
		return errors.New("down")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type revertError struct{}

func (revertError) Error() string          { return "call reverted" }
func (revertError) ErrorCode() int         { return 3 }
func (revertError) ErrorData() interface{} { return "0x08c379a0" }

func TestWithRetryDoesNotRetryReverts(t *testing.T) {
	for _, revert := range []error{
		errors.New("call totalSupply: execution reverted"),
		fmt.Errorf("call getActualSupply: %w", revertError{}),
	} {
		calls := 0
		err := WithRetry(context.Background(), nil, 5, time.Hour, func(context.Context) error {
			calls++
			return revert
		})
		if !errors.Is(err, revert) {
			t.Fatalf("expected the revert back, got %v", err)
		}
		if calls != 1 {
			t.Fatalf("revert %q retried: %d calls", revert, calls)
		}
	}
}

func TestIsRevert(t *testing.T) {
	if IsRevert(nil) {
		t.Fatalf("nil is not a revert")
	}
	if IsRevert(errors.New("connection reset by peer")) {
		t.Fatalf("transport failure reported as revert")
	}
	if !IsRevert(revertError{}) {
		t.Fatalf("error with revert data not detected")
	}
}
