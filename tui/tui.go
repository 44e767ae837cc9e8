// Package tui provides a Bubble Tea progress panel for a translation run.
//
// The panel shows the active stage with a spinner, a live token estimate
// with throughput, elapsed time, running cost, and a one-line tail preview
// of the streaming output. Ctrl+C requests graceful cancellation; a second
// Ctrl+C quits immediately.
package tui

import (
	"context"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/pipeline"
	tea "github.com/charmbracelet/bubbletea"
)

// RunFunc executes the translation pipeline. The onProgress callback is
// called for each streamed fragment. The function blocks until the pipeline
// completes or is cancelled.
type RunFunc func(ctx context.Context, onProgress pipeline.Progress) (*translator.Result, error)

// Run creates and runs the Bubble Tea program. It blocks until the program
// exits and returns the final model, which carries the pipeline result.
func Run(ctx context.Context, m Model) (Model, error) {
	p := tea.NewProgram(m)
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	fm, err := p.Run()
	if err != nil {
		return m, err
	}
	final, ok := fm.(Model)
	if !ok {
		return m, nil
	}
	return final, nil
}

// ProgressMsg wraps one streamed fragment for delivery to the model. Text
// is the stage's accumulated output, so a dropped message loses nothing.
type ProgressMsg struct {
	Stage    translator.Stage
	Fragment string
	Text     string
	Cost     translator.CostReport
}

// DoneMsg signals that the pipeline has completed.
type DoneMsg struct {
	Result *translator.Result
	Err    error
}
