package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/2389-research/translator"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"
)

// stream adapts the SDK's ssestream iterator into the pull-based
// [translator.Stream] interface.
type stream struct {
	ctx   context.Context
	sse   *ssestream.Stream[openai.ChatCompletionChunk]
	state translator.StreamState
	comp  translator.Completion
	text  strings.Builder
	err   error // terminal error, if any
}

// Interface compliance check.
var _ translator.Stream = (*stream)(nil)

func newStream(ctx context.Context, sse *ssestream.Stream[openai.ChatCompletionChunk]) *stream {
	return &stream{
		ctx:   ctx,
		sse:   sse,
		state: translator.StreamStateNew,
	}
}

// Next returns the next semantic event from the stream.
// Returns io.EOF when the stream completes normally.
func (s *stream) Next() (translator.Event, error) {
	switch s.state {
	case translator.StreamStateComplete:
		return nil, io.EOF
	case translator.StreamStateError:
		return nil, s.err
	case translator.StreamStateClosed:
		return nil, fmt.Errorf("openai: %w", translator.ErrStreamClosed)
	}

	for s.sse.Next() {
		s.state = translator.StreamStateStreaming

		chunk := s.sse.Current()
		if evt := s.ingest(chunk); evt != nil {
			return evt, nil
		}
		// Chunk carried no text (role preamble, finish reason, usage).
	}

	if err := s.sse.Err(); err != nil {
		s.terminate(err)
		return nil, s.err
	}

	s.complete()
	return nil, io.EOF
}

// State returns the current stream state.
func (s *stream) State() translator.StreamState {
	return s.state
}

// Completion returns the assembled completion.
func (s *stream) Completion() (translator.Completion, error) {
	if s.state == translator.StreamStateNew {
		return translator.Completion{}, fmt.Errorf("openai: %w", translator.ErrStreamNotReady)
	}
	comp := s.comp
	comp.Text = s.text.String()
	return comp, nil
}

// Close closes the underlying SSE stream.
func (s *stream) Close() error {
	if s.state != translator.StreamStateComplete && s.state != translator.StreamStateError {
		s.state = translator.StreamStateClosed
		s.comp.StopReason = translator.StopAborted
		s.comp.RawStopReason = "aborted"
	}
	return s.sse.Close()
}

// ingest extracts completion metadata from a chunk and returns the semantic
// event it carries, if any.
func (s *stream) ingest(chunk openai.ChatCompletionChunk) translator.Event {
	// The usage chunk arrives last with an empty choices array.
	if chunk.Usage.TotalTokens > 0 {
		s.comp.Usage.InputTokens = int(chunk.Usage.PromptTokens)
		s.comp.Usage.OutputTokens = int(chunk.Usage.CompletionTokens)
	}

	if len(chunk.Choices) == 0 {
		return nil
	}
	choice := chunk.Choices[0]

	if choice.FinishReason != "" {
		s.comp.RawStopReason = choice.FinishReason
		s.comp.StopReason = mapFinishReason(choice.FinishReason)
	}

	if choice.Delta.Content == "" {
		return nil
	}
	s.text.WriteString(choice.Delta.Content)
	return translator.EventTextDelta{Delta: choice.Delta.Content}
}

// complete marks the stream as finished after the SSE iterator is exhausted.
func (s *stream) complete() {
	s.state = translator.StreamStateComplete
	if s.comp.StopReason == "" {
		s.comp.StopReason = translator.StopUnknown
	}
}

// terminate records a terminal error and sets the appropriate state and
// stop reason.
func (s *stream) terminate(err error) {
	s.state = translator.StreamStateError
	if s.ctx.Err() != nil {
		s.err = fmt.Errorf("openai: %w", err)
		s.comp.StopReason = translator.StopAborted
		s.comp.RawStopReason = "aborted"
		return
	}
	s.err = &translator.ServiceError{
		Provider:  "openai",
		Status:    statusOf(err),
		Transient: transientAPIError(err),
		Err:       err,
	}
	s.comp.StopReason = translator.StopError
	s.comp.RawStopReason = "error"
}

func mapFinishReason(raw string) translator.StopReason {
	switch raw {
	case "stop":
		return translator.StopEndTurn
	case "length":
		return translator.StopLength
	default:
		return translator.StopUnknown
	}
}

func statusOf(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func transientAPIError(err error) bool {
	status := statusOf(err)
	return status == 429 || status >= 500
}
