package cancel

import (
	"context"
	"testing"
	"time"
)

func TestDelay_ReturnsFalseWhenElapsedNaturally(t *testing.T) {
	tok := New(context.Background())
	if cancelled := tok.Delay(5 * time.Millisecond); cancelled {
		t.Fatal("expected Delay to report not cancelled")
	}
}

func TestDelay_ReturnsTrueWithin100msOfCancellation(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	tok := New(ctx)

	go func() {
		time.Sleep(5 * time.Millisecond)
		stop()
	}()

	start := time.Now()
	cancelled := tok.Delay(30 * time.Second)
	elapsed := time.Since(start)

	if !cancelled {
		t.Fatal("expected Delay to report cancelled")
	}
	if elapsed > 100*time.Millisecond {
		t.Fatalf("expected Delay to return within 100ms of cancellation, took %v", elapsed)
	}
}

func TestIsCancelled(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	tok := New(ctx)
	if tok.IsCancelled() {
		t.Fatal("expected not cancelled before stop()")
	}
	stop()
	if !tok.IsCancelled() {
		t.Fatal("expected cancelled after stop()")
	}
}
