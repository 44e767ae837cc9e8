package translator

import "sync/atomic"

// CancelState is the tri-state lifecycle of a cooperative cancellation token.
type CancelState int32

const (
	CancelStateRunning   CancelState = iota // no cancellation requested
	CancelStateRequested                    // external request observed, not yet honored
	CancelStateCancelled                    // pipeline acknowledged and stopped
)

// CancelToken is a cooperative cancellation flag shared between an external
// requester (signal handler, UI) and the pipeline. Transitions only move
// forward: Running -> Requested -> Cancelled. The pipeline polls the token
// at delta and stage boundaries; it never interrupts an in-flight delta.
//
// A nil token behaves as permanently Running, so cancellation support is
// optional for callers.
type CancelToken struct {
	state atomic.Int32
}

// NewCancelToken returns a token in the Running state.
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Request moves the token from Running to Requested. Returns true if this
// call performed the transition, false if cancellation was already underway.
// Callers use the return value to distinguish a first request (graceful)
// from a repeated one (force).
func (t *CancelToken) Request() bool {
	if t == nil {
		return false
	}
	return t.state.CompareAndSwap(int32(CancelStateRunning), int32(CancelStateRequested))
}

// Acknowledge moves the token from Requested to Cancelled. Called by the
// pipeline when it honors the request at a safe boundary.
func (t *CancelToken) Acknowledge() {
	if t == nil {
		return
	}
	t.state.CompareAndSwap(int32(CancelStateRequested), int32(CancelStateCancelled))
}

// State returns the current state.
func (t *CancelToken) State() CancelState {
	if t == nil {
		return CancelStateRunning
	}
	return CancelState(t.state.Load())
}

// ShouldStop reports whether cancellation has been requested or acknowledged.
func (t *CancelToken) ShouldStop() bool {
	return t.State() != CancelStateRunning
}
