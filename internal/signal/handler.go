// Package signal turns SIGINT and SIGTERM into context cancellation so an
// in-flight completion or the web server can stop promptly.
package signal

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
)

// ErrInterrupted is the cancellation cause recorded when a signal arrives.
var ErrInterrupted = errors.New("interrupted by signal")

// WithInterrupt returns a child of parent that is canceled on the first
// SIGINT or SIGTERM. onInterrupt, if non-nil, runs with the received signal
// before cancellation; context.Cause then reports ErrInterrupted.
//
// The returned stop function unregisters the handler and cancels the
// context; callers should defer it.
func WithInterrupt(parent context.Context, onInterrupt func(os.Signal)) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			if onInterrupt != nil {
				onInterrupt(sig)
			}
			cancel(ErrInterrupted)
		case <-ctx.Done():
		}
	}()

	stop := func() {
		signal.Stop(sigCh)
		cancel(context.Canceled)
	}
	return ctx, stop
}
