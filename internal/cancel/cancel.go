// Package cancel implements the process-wide cooperative cancellation
// token: a context.Context wrapper with a cancellable sleep, signalled by
// os.Interrupt/SIGTERM in production.
package cancel

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paneguard/tmux-monitor/internal/clock"
)

// Token is a cancellable sleep source backed by a context.Context.
type Token struct {
	ctx     context.Context
	cancel  context.CancelFunc
	sleeper clock.Sleeper
}

// NewFromSignals builds a Token that cancels on os.Interrupt or
// syscall.SIGTERM.
func NewFromSignals() *Token {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return &Token{ctx: ctx, cancel: cancel, sleeper: clock.RealSleeper{}}
}

// New wraps an existing context, for tests and programmatic cancellation.
func New(ctx context.Context) *Token {
	return &Token{ctx: ctx, cancel: func() {}, sleeper: clock.RealSleeper{}}
}

// Context exposes the underlying context, for passing to command execution.
func (t *Token) Context() context.Context {
	return t.ctx
}

// IsCancelled reports whether cancellation has fired.
func (t *Token) IsCancelled() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Delay sleeps for d or until cancellation fires, whichever is first, and
// reports whether it returned early because of cancellation.
func (t *Token) Delay(d time.Duration) (wasCancelled bool) {
	t.sleeper.Sleep(t.ctx, d)
	return t.IsCancelled()
}

// Stop releases the underlying signal.NotifyContext resources.
func (t *Token) Stop() {
	t.cancel()
}
