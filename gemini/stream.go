package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/2389-research/translator"
	"google.golang.org/genai"
)

// stream adapts the genai SDK's push-based iterator into the pull-based
// [translator.Stream] interface using iter.Pull2.
type stream struct {
	ctx   context.Context
	pull  func() (*genai.GenerateContentResponse, error, bool)
	stop  func()
	state translator.StreamState
	comp  translator.Completion
	text  strings.Builder
	queue []translator.Event // events parsed from the current chunk
	err   error              // terminal error, if any
}

// Interface compliance check.
var _ translator.Stream = (*stream)(nil)

// NewStreamFromIter wraps a genai streaming iterator in a [translator.Stream].
// Exported for testing; production code goes through [Client.Stream].
func NewStreamFromIter(ctx context.Context, it iter.Seq2[*genai.GenerateContentResponse, error]) translator.Stream {
	return newStream(ctx, it)
}

func newStream(ctx context.Context, it iter.Seq2[*genai.GenerateContentResponse, error]) *stream {
	pull, stop := iter.Pull2(it)
	return &stream{
		ctx:   ctx,
		pull:  pull,
		stop:  stop,
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
		return nil, fmt.Errorf("gemini: %w", translator.ErrStreamClosed)
	}

	if err := s.ctx.Err(); err != nil {
		s.terminate(err)
		return nil, s.err
	}

	for {
		if len(s.queue) > 0 {
			evt := s.queue[0]
			s.queue = s.queue[1:]
			return evt, nil
		}

		chunk, err, ok := s.pull()
		if !ok {
			s.complete()
			return nil, io.EOF
		}
		if err != nil {
			s.terminate(err)
			return nil, s.err
		}

		s.state = translator.StreamStateStreaming

		if err := s.ingest(chunk); err != nil {
			s.terminate(err)
			return nil, s.err
		}
	}
}

// State returns the current stream state.
func (s *stream) State() translator.StreamState {
	return s.state
}

// Completion returns the assembled completion.
func (s *stream) Completion() (translator.Completion, error) {
	if s.state == translator.StreamStateNew {
		return translator.Completion{}, fmt.Errorf("gemini: %w", translator.ErrStreamNotReady)
	}
	comp := s.comp
	comp.Text = s.text.String()
	return comp, nil
}

// Close releases the underlying iterator.
func (s *stream) Close() error {
	if s.state != translator.StreamStateComplete && s.state != translator.StreamStateError {
		s.state = translator.StreamStateClosed
		s.comp.StopReason = translator.StopAborted
		s.comp.RawStopReason = "aborted"
	}
	s.stop()
	return nil
}

// ingest extracts semantic events and completion metadata from a chunk.
func (s *stream) ingest(chunk *genai.GenerateContentResponse) error {
	if chunk == nil {
		return nil
	}

	if chunk.UsageMetadata != nil {
		// Gemini reports cumulative counts; the latest chunk wins.
		s.comp.Usage.InputTokens = int(chunk.UsageMetadata.PromptTokenCount)
		s.comp.Usage.OutputTokens = int(chunk.UsageMetadata.CandidatesTokenCount)
	}

	if len(chunk.Candidates) == 0 {
		// A blocked prompt produces PromptFeedback and zero candidates.
		if chunk.PromptFeedback != nil && chunk.PromptFeedback.BlockReason != "" {
			s.comp.RawStopReason = string(chunk.PromptFeedback.BlockReason)
			return fmt.Errorf("gemini: prompt blocked: %s", chunk.PromptFeedback.BlockReason)
		}
		return nil
	}
	cand := chunk.Candidates[0]

	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part.Text == "" {
				continue
			}
			if part.Thought {
				// Thinking is surfaced for display but never accumulated
				// into the text.
				s.queue = append(s.queue, translator.EventThinkingDelta{Delta: part.Text})
				continue
			}
			s.text.WriteString(part.Text)
			s.queue = append(s.queue, translator.EventTextDelta{Delta: part.Text})
		}
	}

	if cand.FinishReason != "" {
		s.comp.RawStopReason = string(cand.FinishReason)
		s.comp.StopReason = mapFinishReason(cand.FinishReason)
	}

	return nil
}

// complete marks the stream as finished after the iterator is exhausted.
func (s *stream) complete() {
	s.state = translator.StreamStateComplete
	s.stop()
	if s.comp.StopReason == "" {
		// Gemini omits the finish reason on some clean exhaustions.
		s.comp.StopReason = translator.StopEndTurn
		s.comp.RawStopReason = "end_turn"
	}
}

// terminate records a terminal error and sets the appropriate state and
// stop reason.
func (s *stream) terminate(err error) {
	s.state = translator.StreamStateError
	s.stop()
	if s.ctx.Err() != nil {
		s.err = fmt.Errorf("gemini: %w", err)
		s.comp.StopReason = translator.StopAborted
		if s.comp.RawStopReason == "" {
			s.comp.RawStopReason = "aborted"
		}
		return
	}
	s.err = &translator.ServiceError{
		Provider:  "gemini",
		Transient: transientAPIError(err),
		Err:       err,
	}
	s.comp.StopReason = translator.StopError
	if s.comp.RawStopReason == "" {
		s.comp.RawStopReason = "error"
	}
}

func mapFinishReason(reason genai.FinishReason) translator.StopReason {
	switch reason {
	case genai.FinishReasonStop:
		return translator.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return translator.StopLength
	default:
		return translator.StopUnknown
	}
}

func transientAPIError(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == 429 || apiErr.Code >= 500
}
