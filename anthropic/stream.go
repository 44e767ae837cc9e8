package anthropic

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/2389-research/translator"
)

// stream implements [translator.Stream] by parsing SSE events from an HTTP
// response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	state   translator.StreamState
	comp    translator.Completion
	text    strings.Builder
	blocks  map[int]string // block index -> block type
	err     error          // terminal error, if any
}

// Interface compliance check.
var _ translator.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	s := &stream{
		body:    body,
		scanner: bufio.NewScanner(body),
		ctx:     ctx,
		state:   translator.StreamStateNew,
		blocks:  make(map[int]string),
	}
	// Deltas for large documents can exceed the default scanner buffer.
	s.scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return s
}

// Next reads the next semantic event from the SSE stream.
// Returns io.EOF when the stream completes normally.
func (s *stream) Next() (translator.Event, error) {
	switch s.state {
	case translator.StreamStateComplete:
		return nil, io.EOF
	case translator.StreamStateError:
		return nil, s.err
	case translator.StreamStateClosed:
		return nil, fmt.Errorf("anthropic: %w", translator.ErrStreamClosed)
	}

	for {
		eventType, data, err := s.readSSEEvent()
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}

		s.state = translator.StreamStateStreaming

		evt, err := s.processEvent(eventType, data)
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}

		// processEvent may set a terminal state (e.g. message_stop).
		if s.state == translator.StreamStateComplete {
			return nil, io.EOF
		}

		if evt != nil {
			return evt, nil
		}
		// Non-semantic event (ping, message_start, etc.) - keep reading.
	}
}

// State returns the current stream state.
func (s *stream) State() translator.StreamState {
	return s.state
}

// Completion returns the assembled completion.
func (s *stream) Completion() (translator.Completion, error) {
	if s.state == translator.StreamStateNew {
		return translator.Completion{}, fmt.Errorf("anthropic: %w", translator.ErrStreamNotReady)
	}
	comp := s.comp
	comp.Text = s.text.String()
	return comp, nil
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != translator.StreamStateComplete && s.state != translator.StreamStateError {
		s.state = translator.StreamStateClosed
		s.comp.StopReason = translator.StopAborted
		s.comp.RawStopReason = "aborted"
	}
	return s.body.Close()
}

// terminate records a terminal error and sets the appropriate state and
// stop reason.
func (s *stream) terminate(err error) {
	if err == io.EOF {
		// Normal completion via message_stop should set StreamStateComplete
		// before we reach here. If we get raw EOF, the stream ended unexpectedly.
		s.state = translator.StreamStateError
		s.err = fmt.Errorf("anthropic: unexpected end of stream")
		s.comp.StopReason = translator.StopError
		s.comp.RawStopReason = "error"
		return
	}
	s.state = translator.StreamStateError
	s.err = err
	if s.ctx.Err() != nil {
		s.comp.StopReason = translator.StopAborted
		s.comp.RawStopReason = "aborted"
	} else {
		s.comp.StopReason = translator.StopError
		s.comp.RawStopReason = "error"
	}
}

// readSSEEvent reads lines until a complete SSE event is assembled.
// Returns the event type and the data payload.
func (s *stream) readSSEEvent() (string, string, error) {
	var eventType string
	var dataBuf strings.Builder

	for s.scanner.Scan() {
		line := s.scanner.Text()

		if line == "" {
			// Empty line signals end of event.
			if dataBuf.Len() > 0 {
				return eventType, dataBuf.String(), nil
			}
			// Empty event, keep reading.
			continue
		}

		if strings.HasPrefix(line, "event: ") {
			eventType = strings.TrimPrefix(line, "event: ")
		} else if strings.HasPrefix(line, "data: ") {
			if dataBuf.Len() > 0 {
				dataBuf.WriteByte('\n')
			}
			dataBuf.WriteString(strings.TrimPrefix(line, "data: "))
		}
		// Ignore comments (lines starting with ':') and unknown fields.
	}

	if err := s.scanner.Err(); err != nil {
		return "", "", &translator.ServiceError{Provider: "anthropic", Transient: true, Err: err}
	}

	// Scanner exhausted without error = EOF.
	if dataBuf.Len() > 0 {
		return eventType, dataBuf.String(), nil
	}
	return "", "", io.EOF
}

// processEvent maps an SSE event to a semantic translator.Event.
// Returns nil event for non-semantic events (ping, message_start, etc.).
func (s *stream) processEvent(eventType, data string) (translator.Event, error) {
	switch eventType {
	case "message_start":
		return nil, s.handleMessageStart(data)
	case "content_block_start":
		return nil, s.handleContentBlockStart(data)
	case "content_block_delta":
		return s.handleContentBlockDelta(data)
	case "content_block_stop":
		return nil, s.handleContentBlockStop(data)
	case "message_delta":
		return nil, s.handleMessageDelta(data)
	case "message_stop":
		s.state = translator.StreamStateComplete
		return nil, nil
	case "ping":
		return nil, nil
	case "error":
		return nil, s.handleError(data)
	default:
		// Unknown event types are ignored per the API spec.
		return nil, nil
	}
}

func (s *stream) handleMessageStart(data string) error {
	var evt sseMessageStart
	if err := json.Unmarshal([]byte(data), &evt); err != nil {
		return fmt.Errorf("anthropic: failed to parse message_start: %w", err)
	}
	s.comp.Usage.InputTokens = evt.Message.Usage.InputTokens
	return nil
}

func (s *stream) handleContentBlockStart(data string) error {
	var evt sseContentBlockStart
	if err := json.Unmarshal([]byte(data), &evt); err != nil {
		return fmt.Errorf("anthropic: failed to parse content_block_start: %w", err)
	}
	s.blocks[evt.Index] = evt.ContentBlock.Type
	return nil
}

func (s *stream) handleContentBlockDelta(data string) (translator.Event, error) {
	var evt sseContentBlockDelta
	if err := json.Unmarshal([]byte(data), &evt); err != nil {
		return nil, fmt.Errorf("anthropic: failed to parse content_block_delta: %w", err)
	}

	if _, ok := s.blocks[evt.Index]; !ok {
		return nil, fmt.Errorf("anthropic: delta for unknown block index %d", evt.Index)
	}

	switch evt.Delta.Type {
	case "text_delta":
		s.text.WriteString(evt.Delta.Text)
		return translator.EventTextDelta{Delta: evt.Delta.Text}, nil
	case "thinking_delta":
		// Thinking is surfaced for display but never accumulated into the text.
		return translator.EventThinkingDelta{Delta: evt.Delta.Thinking}, nil
	case "signature_delta":
		// Internal use only; not exposed as a semantic event.
		return nil, nil
	default:
		return nil, nil
	}
}

func (s *stream) handleContentBlockStop(data string) error {
	var evt sseContentBlockStop
	if err := json.Unmarshal([]byte(data), &evt); err != nil {
		return fmt.Errorf("anthropic: failed to parse content_block_stop: %w", err)
	}
	if _, ok := s.blocks[evt.Index]; !ok {
		return fmt.Errorf("anthropic: stop for unknown block index %d", evt.Index)
	}
	return nil
}

func (s *stream) handleMessageDelta(data string) error {
	var evt sseMessageDelta
	if err := json.Unmarshal([]byte(data), &evt); err != nil {
		return fmt.Errorf("anthropic: failed to parse message_delta: %w", err)
	}

	s.comp.Usage.OutputTokens = evt.Usage.OutputTokens

	if evt.Delta.StopReason != nil {
		s.comp.RawStopReason = *evt.Delta.StopReason
		s.comp.StopReason = mapStopReason(*evt.Delta.StopReason)
	}

	return nil
}

func (s *stream) handleError(data string) error {
	var evt sseError
	if err := json.Unmarshal([]byte(data), &evt); err != nil {
		return fmt.Errorf("anthropic: failed to parse error event: %w", err)
	}
	transient := evt.Error.Type == "overloaded_error" || evt.Error.Type == "api_error"
	return &translator.ServiceError{
		Provider:  "anthropic",
		Transient: transient,
		Err:       fmt.Errorf("%s: %s", evt.Error.Type, evt.Error.Message),
	}
}

func mapStopReason(raw string) translator.StopReason {
	switch raw {
	case "end_turn":
		return translator.StopEndTurn
	case "max_tokens":
		return translator.StopLength
	default:
		return translator.StopUnknown
	}
}
