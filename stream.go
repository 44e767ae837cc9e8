package translator

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving deltas.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Provider.Stream().
//
// State() returns the current StreamState. Callers can use it to determine
// whether Completion() will return a partial or complete result.
//
// Completion() returns the assembled Completion. Behavior by stream state:
//   - StreamStateComplete: complete text and usage, nil error.
//   - StreamStateError: partial text, nil error. StopReason is StopError
//     for transport/protocol failures, StopAborted for context cancellation.
//   - StreamStateStreaming: partial text, nil error. Text reflects deltas
//     received so far.
//   - StreamStateNew: zero-value completion, non-nil error.
//   - StreamStateClosed: partial text with StopReason = StopAborted.
//     Subsequent Next() calls return error.
//   - If a terminal state (Complete/Error) was reached before Close(),
//     Completion() returns the terminal-state result.
type Stream interface {
	Next() (Event, error)
	State() StreamState
	Completion() (Completion, error)
	Close() error
}

// Completion is the assembled result of a drained stream.
//
// Usage is authoritative only when the provider reported it; fields left
// zero mean the provider sent no counts and the caller should fall back to
// a local tokenizer. Running token estimates derived from deltas are
// advisory and must never be stored here.
type Completion struct {
	Text          string
	Usage         Usage
	StopReason    StopReason
	RawStopReason string // provider-specific stop reason, unmapped
}

// StopReason indicates why the model stopped generating.
type StopReason string

const (
	StopEndTurn StopReason = "end_turn"
	StopLength  StopReason = "length"
	StopError   StopReason = "error"
	StopAborted StopReason = "aborted"
	StopUnknown StopReason = "unknown"
)
