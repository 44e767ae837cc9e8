// Package pipeline runs the staged translation flow: translate, optional
// edit, then critique/apply iterations, threading the current draft through
// each stage and accounting for tokens and cost along the way.
package pipeline

import (
	"io"
	"log/slog"
	"strings"

	"github.com/2389-research/translator"
)

// Collected is the outcome of draining a stream.
type Collected struct {
	Text      string // concatenation of every text delta, in arrival order
	Fragments int    // number of text deltas received
	Usage     translator.Usage
	Cancelled bool // a cancellation request was honored mid-stream
}

// Collect drains a stream delta by delta. After each text delta it invokes
// onFragment (when non-nil) with the delta and the running text so far,
// then polls the cancel token; a pending request is honored at the next
// delta boundary, never mid-delta. The returned text is byte-exact:
// fragments are concatenated in arrival order with nothing inserted,
// dropped, or trimmed.
//
// A panicking onFragment is logged and otherwise ignored; display must
// never corrupt accumulation.
func Collect(stream translator.Stream, cancel *translator.CancelToken, onFragment func(fragment, text string)) (Collected, error) {
	defer stream.Close()

	var buf strings.Builder
	var col Collected

	for {
		if cancel.ShouldStop() {
			cancel.Acknowledge()
			col.Text = buf.String()
			col.Cancelled = true
			return col, nil
		}

		evt, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			col.Text = buf.String()
			return col, err
		}

		td, ok := evt.(translator.EventTextDelta)
		if !ok {
			// Thinking and other non-text events never enter the draft.
			continue
		}

		buf.WriteString(td.Delta)
		col.Fragments++
		notify(onFragment, td.Delta, buf.String())
	}

	comp, err := stream.Completion()
	if err != nil {
		col.Text = buf.String()
		return col, err
	}

	col.Text = buf.String()
	col.Usage = comp.Usage
	return col, nil
}

func notify(fn func(fragment, text string), fragment, text string) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("progress callback panicked", "panic", r)
		}
	}()
	fn(fragment, text)
}

// EstimateTokens gives a cheap advisory token count for streaming display.
// It is a character heuristic, never a substitute for the authoritative
// tokenizer count recorded after the stream completes.
func EstimateTokens(text string) int {
	return len(text) / 4
}
