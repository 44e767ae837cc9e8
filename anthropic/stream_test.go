package anthropic_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/anthropic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sseResponse is a helper to build SSE responses for tests.
type sseResponse struct {
	events []sseEvent
}

type sseEvent struct {
	event string
	data  string
}

func (s sseResponse) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		for _, evt := range s.events {
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.event, evt.data)
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// textStreamResponse returns a simple text streaming SSE response.
func textStreamResponse() sseResponse {
	return sseResponse{events: []sseEvent{
		{"message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-opus-4-1","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":10,"output_tokens":1}}}`},
		{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`},
		{"ping", `{"type":"ping"}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hola"}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":" mundo"}}`},
		{"content_block_stop", `{"type":"content_block_stop","index":0}`},
		{"message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":5}}`},
		{"message_stop", `{"type":"message_stop"}`},
	}}
}

func streamFromSSE(t *testing.T, resp sseResponse) translator.Stream {
	t.Helper()
	srv := httptest.NewServer(resp.handler())
	t.Cleanup(srv.Close)
	client := anthropic.New("test-key", anthropic.WithBaseURL(srv.URL))
	stream, err := client.Stream(context.Background(), translator.Call{
		Model:      "claude-opus-4-1",
		UserPrompt: "Hello world",
	})
	require.NoError(t, err)
	t.Cleanup(func() { stream.Close() })
	return stream
}

func collectEvents(t *testing.T, s translator.Stream) []translator.Event {
	t.Helper()
	var events []translator.Event
	for {
		evt, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		events = append(events, evt)
	}
	return events
}

func TestStream_TextResponse(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, textStreamResponse())

	events := collectEvents(t, s)

	assert.Len(t, events, 2)
	assert.Equal(t, translator.EventTextDelta{Delta: "Hola"}, events[0])
	assert.Equal(t, translator.EventTextDelta{Delta: " mundo"}, events[1])

	comp, err := s.Completion()
	require.NoError(t, err)
	assert.Equal(t, "Hola mundo", comp.Text)
	assert.Equal(t, translator.StopEndTurn, comp.StopReason)
	assert.Equal(t, "end_turn", comp.RawStopReason)
	assert.Equal(t, 10, comp.Usage.InputTokens)
	assert.Equal(t, 5, comp.Usage.OutputTokens)
}

func TestStream_Thinking(t *testing.T) {
	t.Parallel()
	resp := sseResponse{events: []sseEvent{
		{"message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-opus-4-1","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":50,"output_tokens":1}}}`},
		{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"thinking","thinking":""}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"thinking_delta","thinking":"Weighing idioms..."}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"signature_delta","signature":"sig123"}}`},
		{"content_block_stop", `{"type":"content_block_stop","index":0}`},
		{"content_block_start", `{"type":"content_block_start","index":1,"content_block":{"type":"text","text":""}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":1,"delta":{"type":"text_delta","text":"La respuesta."}}`},
		{"content_block_stop", `{"type":"content_block_stop","index":1}`},
		{"message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":20}}`},
		{"message_stop", `{"type":"message_stop"}`},
	}}

	s := streamFromSSE(t, resp)
	events := collectEvents(t, s)

	require.Len(t, events, 2)
	assert.Equal(t, translator.EventThinkingDelta{Delta: "Weighing idioms..."}, events[0])
	assert.Equal(t, translator.EventTextDelta{Delta: "La respuesta."}, events[1])

	comp, err := s.Completion()
	require.NoError(t, err)
	assert.Equal(t, "La respuesta.", comp.Text, "thinking never enters the completion text")
}

func TestStream_State(t *testing.T) {
	t.Parallel()

	t.Run("new before first next", func(t *testing.T) {
		t.Parallel()
		s := streamFromSSE(t, textStreamResponse())
		assert.Equal(t, translator.StreamStateNew, s.State())
	})

	t.Run("streaming after first next", func(t *testing.T) {
		t.Parallel()
		s := streamFromSSE(t, textStreamResponse())
		_, err := s.Next()
		require.NoError(t, err)
		assert.Equal(t, translator.StreamStateStreaming, s.State())
	})

	t.Run("complete after EOF", func(t *testing.T) {
		t.Parallel()
		s := streamFromSSE(t, textStreamResponse())
		collectEvents(t, s)
		assert.Equal(t, translator.StreamStateComplete, s.State())
	})

	t.Run("closed after close mid-stream", func(t *testing.T) {
		t.Parallel()
		s := streamFromSSE(t, textStreamResponse())
		_, err := s.Next()
		require.NoError(t, err)
		require.NoError(t, s.Close())
		assert.Equal(t, translator.StreamStateClosed, s.State())
	})
}

func TestStream_CompletionBeforeNext(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, textStreamResponse())
	_, err := s.Completion()
	assert.ErrorIs(t, err, translator.ErrStreamNotReady)
}

func TestStream_CompletionMidStream(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, textStreamResponse())

	_, err := s.Next() // first text delta
	require.NoError(t, err)

	comp, err := s.Completion()
	require.NoError(t, err)
	assert.Equal(t, "Hola", comp.Text)
}

func TestStream_CloseAbortsCompletion(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, textStreamResponse())

	_, err := s.Next()
	require.NoError(t, err)
	require.NoError(t, s.Close())

	comp, err := s.Completion()
	require.NoError(t, err)
	assert.Equal(t, translator.StopAborted, comp.StopReason)
}

func TestStream_ClosePreservesTerminalState(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, textStreamResponse())
	collectEvents(t, s)

	comp, err := s.Completion()
	require.NoError(t, err)
	assert.Equal(t, translator.StopEndTurn, comp.StopReason)

	// Close after terminal state should preserve the stop reason.
	require.NoError(t, s.Close())
	comp, err = s.Completion()
	require.NoError(t, err)
	assert.Equal(t, translator.StopEndTurn, comp.StopReason)
}

func TestStream_NextAfterClose(t *testing.T) {
	t.Parallel()
	s := streamFromSSE(t, textStreamResponse())
	require.NoError(t, s.Close())

	_, err := s.Next()
	assert.ErrorIs(t, err, translator.ErrStreamClosed)
}

func TestStream_SSEError(t *testing.T) {
	t.Parallel()
	resp := sseResponse{events: []sseEvent{
		{"message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-opus-4-1","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":10,"output_tokens":1}}}`},
		{"error", `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`},
	}}

	s := streamFromSSE(t, resp)
	_, err := s.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded_error")
	assert.True(t, translator.IsTransient(err), "overloaded errors are retryable")
}

func TestStream_ContextCancellation(t *testing.T) {
	t.Parallel()

	// Server that blocks after first event.
	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		fmt.Fprint(w, "event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_1\",\"type\":\"message\",\"role\":\"assistant\",\"content\":[],\"model\":\"claude-opus-4-1\",\"stop_reason\":null,\"stop_sequence\":null,\"usage\":{\"input_tokens\":10,\"output_tokens\":1}}}\n\n")
		fmt.Fprint(w, "event: content_block_start\ndata: {\"type\":\"content_block_start\",\"index\":0,\"content_block\":{\"type\":\"text\",\"text\":\"\"}}\n\n")
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"Hi\"}}\n\n")
		if flusher != nil {
			flusher.Flush()
		}
		close(started)
		// Block until request context is cancelled.
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := anthropic.New("test-key", anthropic.WithBaseURL(srv.URL))
	s, err := client.Stream(ctx, translator.Call{Model: "claude-opus-4-1", UserPrompt: "Hi"})
	require.NoError(t, err)
	defer s.Close()

	// Read the first event.
	evt, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, translator.EventTextDelta{Delta: "Hi"}, evt)

	// Wait for server to block, then cancel.
	<-started
	cancel()

	// Next should return an error.
	_, err = s.Next()
	assert.Error(t, err)

	// Completion should have StopAborted.
	comp, err := s.Completion()
	require.NoError(t, err)
	assert.Equal(t, translator.StopAborted, comp.StopReason)
	assert.Equal(t, translator.StreamStateError, s.State())
}

func TestStream_UnknownStopReason(t *testing.T) {
	t.Parallel()
	resp := sseResponse{events: []sseEvent{
		{"message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-opus-4-1","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":10,"output_tokens":1}}}`},
		{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Ok"}}`},
		{"content_block_stop", `{"type":"content_block_stop","index":0}`},
		{"message_delta", `{"type":"message_delta","delta":{"stop_reason":"new_reason","stop_sequence":null},"usage":{"output_tokens":3}}`},
		{"message_stop", `{"type":"message_stop"}`},
	}}

	s := streamFromSSE(t, resp)
	collectEvents(t, s)

	comp, err := s.Completion()
	require.NoError(t, err)
	assert.Equal(t, translator.StopUnknown, comp.StopReason)
	assert.Equal(t, "new_reason", comp.RawStopReason)
}

func TestStream_MaxTokensStopReason(t *testing.T) {
	t.Parallel()
	resp := sseResponse{events: []sseEvent{
		{"message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude-opus-4-1","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":10,"output_tokens":1}}}`},
		{"content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`},
		{"content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"truncated"}}`},
		{"content_block_stop", `{"type":"content_block_stop","index":0}`},
		{"message_delta", `{"type":"message_delta","delta":{"stop_reason":"max_tokens","stop_sequence":null},"usage":{"output_tokens":100}}`},
		{"message_stop", `{"type":"message_stop"}`},
	}}

	s := streamFromSSE(t, resp)
	collectEvents(t, s)

	comp, err := s.Completion()
	require.NoError(t, err)
	assert.Equal(t, translator.StopLength, comp.StopReason)
	assert.Equal(t, "max_tokens", comp.RawStopReason)
}

func TestStream_ReadErrorMidStream(t *testing.T) {
	t.Parallel()

	// Server that sends partial SSE then closes connection abruptly.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		flusher, _ := w.(http.Flusher)
		fmt.Fprint(w, "event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"msg_1\",\"type\":\"message\",\"role\":\"assistant\",\"content\":[],\"model\":\"m\",\"stop_reason\":null,\"stop_sequence\":null,\"usage\":{\"input_tokens\":10,\"output_tokens\":1}}}\n\n")
		fmt.Fprint(w, "event: content_block_start\ndata: {\"type\":\"content_block_start\",\"index\":0,\"content_block\":{\"type\":\"text\",\"text\":\"\"}}\n\n")
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"partial\"}}\n\n")
		if flusher != nil {
			flusher.Flush()
		}
		// Connection closes without message_stop — simulates network failure.
		// The hijack approach ensures an abrupt close.
		hj, ok := w.(http.Hijacker)
		if ok {
			conn, _, _ := hj.Hijack()
			conn.Close()
		}
	}))
	defer srv.Close()

	client := anthropic.New("test-key", anthropic.WithBaseURL(srv.URL))
	s, err := client.Stream(context.Background(), translator.Call{Model: "claude-opus-4-1", UserPrompt: "Hi"})
	require.NoError(t, err)
	defer s.Close()

	// First event should succeed.
	evt, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, translator.EventTextDelta{Delta: "partial"}, evt)

	// Next should return an error (unexpected EOF or read error).
	_, err = s.Next()
	assert.Error(t, err)
	assert.Equal(t, translator.StreamStateError, s.State())

	// Completion should carry the partial text with StopError.
	comp, err := s.Completion()
	require.NoError(t, err)
	assert.Equal(t, translator.StopError, comp.StopReason)
	assert.Equal(t, "partial", comp.Text)
}
