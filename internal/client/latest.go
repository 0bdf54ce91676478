package client

import (
	"context"
	"sync"
)

// Latest tracks the newest request of a listing. Beginning a request cancels
// the one before it, and responses of superseded requests are discarded by
// checking Current.
type Latest struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Begin starts a new generation and returns its context.
func (l *Latest) Begin(ctx context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.gen++
	return ctx, l.gen
}

// Current reports whether gen is still the newest generation.
func (l *Latest) Current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

// End releases the context of gen if it is still the newest.
func (l *Latest) End(gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen == l.gen && l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}
