package client

import (
	"context"
	"errors"
	"sync"
	"time"
)

// DefaultMintTimeout bounds a mint attempt.
const DefaultMintTimeout = 30 * time.Second

var (
	// ErrMintStarted is returned when an awaiter is started twice.
	ErrMintStarted = errors.New("mint already started")
	// ErrMintTimeout is the error of a MintTimeout result.
	ErrMintTimeout = errors.New("mint timed out")
)

// MintState is the progress of a mint attempt.
type MintState int

const (
	MintIdle MintState = iota
	MintPending
	MintSuccess
	MintTimeout
	MintFailure
)

func (s MintState) String() string {
	switch s {
	case MintIdle:
		return "idle"
	case MintPending:
		return "pending"
	case MintSuccess:
		return "success"
	case MintTimeout:
		return "timeout"
	case MintFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Minter performs the wallet side of a purchase and returns the transaction id.
type Minter interface {
	Mint(ctx context.Context) (txID string, err error)
}

// MinterFunc adapts a function to Minter.
type MinterFunc func(ctx context.Context) (string, error)

func (f MinterFunc) Mint(ctx context.Context) (string, error) { return f(ctx) }

// MintResult is the terminal outcome of an attempt.
type MintResult struct {
	State MintState
	TxID  string
	Err   error
}

// MintAwaiter races one mint attempt against a timeout. It makes exactly one
// terminal transition; whichever side loses the race is ignored.
type MintAwaiter struct {
	timeout time.Duration

	mu     sync.Mutex
	result MintResult
	done   chan struct{}
}

// NewMintAwaiter creates an idle awaiter. A non-positive timeout uses
// DefaultMintTimeout.
func NewMintAwaiter(timeout time.Duration) *MintAwaiter {
	if timeout <= 0 {
		timeout = DefaultMintTimeout
	}
	return &MintAwaiter{timeout: timeout, done: make(chan struct{})}
}

// Start launches m with ctx. Cancelling ctx ends the attempt as a failure.
// The timeout only ends the wait: m keeps running and its late result is
// dropped.
func (a *MintAwaiter) Start(ctx context.Context, m Minter) error {
	a.mu.Lock()
	if a.result.State != MintIdle {
		a.mu.Unlock()
		return ErrMintStarted
	}
	a.result.State = MintPending
	a.mu.Unlock()

	results := make(chan MintResult, 1)
	go func() {
		tx, err := m.Mint(ctx)
		if err != nil {
			results <- MintResult{State: MintFailure, Err: err}
			return
		}
		results <- MintResult{State: MintSuccess, TxID: tx}
	}()
	go func() {
		timer := time.NewTimer(a.timeout)
		defer timer.Stop()
		select {
		case r := <-results:
			a.finish(r)
		case <-timer.C:
			a.finish(MintResult{State: MintTimeout, Err: ErrMintTimeout})
		case <-ctx.Done():
			a.finish(MintResult{State: MintFailure, Err: ctx.Err()})
		}
	}()
	return nil
}

func (a *MintAwaiter) finish(r MintResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.result.State != MintPending {
		return
	}
	a.result = r
	close(a.done)
}

// State returns the current state.
func (a *MintAwaiter) State() MintState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.result.State
}

// Dismissible reports whether the mint dialog may be closed.
func (a *MintAwaiter) Dismissible() bool {
	return a.State() != MintPending
}

// Done is closed on the terminal transition.
func (a *MintAwaiter) Done() <-chan struct{} {
	return a.done
}

// Wait blocks until the attempt ends or ctx is done.
func (a *MintAwaiter) Wait(ctx context.Context) (MintResult, error) {
	select {
	case <-a.done:
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.result, nil
	case <-ctx.Done():
		return MintResult{}, ctx.Err()
	}
}
