package server

import (
	"context"
	"os/signal"
	"syscall"
)

// WithSignal derives a context that ends when the process receives SIGINT
// or SIGTERM, which drives the graceful shutdown path in app.Run. The
// returned stop function releases the signal registration.
func WithSignal(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
