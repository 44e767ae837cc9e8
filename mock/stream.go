package mock

import (
	"io"
	"strings"

	"github.com/2389-research/translator"
)

// Interface compliance checks.
var (
	_ translator.Stream = (*Stream)(nil)
	_ translator.Stream = (*ScriptedStream)(nil)
)

// Stream is a test double for translator.Stream.
// Set the function fields for the methods you need. NextFn and CompletionFn
// panic when nil to catch missing setup. CloseFn and StateFn are nil-safe
// (no-op and zero value) because test code commonly calls defer stream.Close()
// and these methods rarely need custom behavior.
type Stream struct {
	NextFn       func() (translator.Event, error)
	StateFn      func() translator.StreamState
	CompletionFn func() (translator.Completion, error)
	CloseFn      func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (translator.Event, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() translator.StreamState {
	if s.StateFn == nil {
		return translator.StreamStateNew
	}
	return s.StateFn()
}

// Completion delegates to CompletionFn.
func (s *Stream) Completion() (translator.Completion, error) {
	return s.CompletionFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// ScriptedStream plays a fixed sequence of text fragments, then terminates
// with io.EOF (or Err when set). The completion reports the concatenated
// text and the scripted usage, mirroring how real providers report counts
// after the final delta.
type ScriptedStream struct {
	Fragments []string
	Usage     translator.Usage
	Err       error // returned instead of io.EOF after the fragments, if set

	pos    int
	closed bool
	state  translator.StreamState
}

// Next returns the next scripted fragment as an EventTextDelta.
func (s *ScriptedStream) Next() (translator.Event, error) {
	if s.closed {
		return nil, translator.ErrStreamClosed
	}
	if s.pos < len(s.Fragments) {
		evt := translator.EventTextDelta{Delta: s.Fragments[s.pos]}
		s.pos++
		s.state = translator.StreamStateStreaming
		return evt, nil
	}
	if s.Err != nil {
		s.state = translator.StreamStateError
		return nil, s.Err
	}
	s.state = translator.StreamStateComplete
	return nil, io.EOF
}

// State returns the current stream state.
func (s *ScriptedStream) State() translator.StreamState {
	if s.closed {
		return translator.StreamStateClosed
	}
	return s.state
}

// Completion returns the text assembled from fragments consumed so far.
func (s *ScriptedStream) Completion() (translator.Completion, error) {
	c := translator.Completion{
		Text:       strings.Join(s.Fragments[:s.pos], ""),
		Usage:      s.Usage,
		StopReason: translator.StopEndTurn,
	}
	switch s.state {
	case translator.StreamStateError:
		c.StopReason = translator.StopError
	case translator.StreamStateNew:
		return translator.Completion{}, translator.ErrStreamNotReady
	}
	if s.closed && s.state != translator.StreamStateComplete {
		c.StopReason = translator.StopAborted
	}
	return c, nil
}

// Close marks the stream closed.
func (s *ScriptedStream) Close() error {
	s.closed = true
	return nil
}
