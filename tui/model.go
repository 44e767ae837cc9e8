package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/pipeline"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

var _ tea.Model = Model{}

// stageLabels maps stages to the labels shown next to the spinner.
var stageLabels = map[translator.Stage]string{
	translator.StageFrontmatter:      "Translating frontmatter",
	translator.StageTranslate:        "Translating",
	translator.StageEdit:             "Editing",
	translator.StageCritiqueGenerate: "Generating critique",
	translator.StageCritiqueApply:    "Applying critique",
}

// Model is the Bubble Tea model for the translation progress panel.
type Model struct {
	// Spinner is the stage spinner. Exported for test access.
	Spinner spinner.Model

	run    RunFunc
	cancel *translator.CancelToken
	styles Styles

	filename string
	width    int

	stage      translator.Stage
	stageStart time.Time
	stageText  string // accumulated output of the current stage
	cost       translator.CostReport
	start      time.Time

	running bool
	result  *translator.Result
	err     error

	progressCh chan ProgressMsg
	doneCh     chan DoneMsg
}

// New creates a progress panel model for one file's translation run.
func New(filename string, run RunFunc, cancel *translator.CancelToken) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		Spinner:  s,
		run:      run,
		cancel:   cancel,
		styles:   NewStyles(),
		filename: filename,
		width:    80,
		start:    time.Now(),
		running:  true,
		// Buffered so the pipeline goroutine never blocks on a slow terminal.
		progressCh: make(chan ProgressMsg, 256),
		doneCh:     make(chan DoneMsg, 1),
	}
}

// Result returns the pipeline result once the run has completed.
func (m Model) Result() *translator.Result { return m.result }

// Err returns the pipeline error, if any.
func (m Model) Err() error { return m.err }

// Running reports whether the pipeline is still executing.
func (m Model) Running() bool { return m.running }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.Spinner.Tick,
		startRun(m.run, m.progressCh, m.doneCh),
		listen(m.progressCh, m.doneCh),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			if m.cancel.Request() {
				// First interrupt: let the pipeline wind down gracefully.
				return m, nil
			}
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		if msg.Stage != m.stage {
			m.stage = msg.Stage
			m.stageStart = time.Now()
		}
		m.stageText = msg.Text
		m.cost = msg.Cost
		return m, listen(m.progressCh, m.doneCh)

	case DoneMsg:
		m.running = false
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.running {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Accent.Render(m.filename))
	b.WriteString("\n\n")
	b.WriteString(m.Spinner.View())
	b.WriteString(" ")
	b.WriteString(m.stageLine())
	b.WriteString("\n")
	b.WriteString(m.statsLine())
	b.WriteString("\n")
	if m.stageText != "" {
		b.WriteString(m.styles.Muted.Render(TailPreview(m.stageText, m.width-2)))
		b.WriteString("\n")
	}
	if m.cancel.State() == translator.CancelStateRequested {
		b.WriteString(m.styles.Error.Render("Cancelling after the current call..."))
	} else {
		b.WriteString(m.styles.Muted.Render("Ctrl+C to cancel"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) stageLine() string {
	label, ok := stageLabels[m.stage]
	if !ok {
		label = "Starting"
	}
	return label + "..."
}

func (m Model) statsLine() string {
	tokens := pipeline.EstimateTokens(m.stageText)
	elapsed := time.Since(m.start).Round(time.Second)

	var rate float64
	if secs := time.Since(m.stageStartTime()).Seconds(); secs > 0 {
		rate = float64(tokens) / secs
	}

	return m.styles.Muted.Render(fmt.Sprintf(
		"  ~%d tokens · %.0f tok/s · %s · %s",
		tokens, rate, elapsed, translator.FormatUSD(m.cost.TotalUSD),
	))
}

func (m Model) stageStartTime() time.Time {
	if m.stageStart.IsZero() {
		return m.start
	}
	return m.stageStart
}

// startRun executes the pipeline in a goroutine and signals completion.
func startRun(run RunFunc, progressCh chan<- ProgressMsg, doneCh chan<- DoneMsg) tea.Cmd {
	return func() tea.Msg {
		res, err := run(context.Background(), func(stage translator.Stage, fragment, text string, cost translator.CostReport) {
			select {
			case progressCh <- ProgressMsg{Stage: stage, Fragment: fragment, Text: text, Cost: cost}:
			default:
				// Drop the update rather than stall the stream; the next
				// one carries the full accumulated text.
			}
		})
		close(progressCh)
		doneCh <- DoneMsg{Result: res, Err: err}
		return nil
	}
}

// listen waits for the next progress update. When the progress channel
// closes it reads the final outcome instead.
func listen(progressCh <-chan ProgressMsg, doneCh <-chan DoneMsg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-progressCh
		if !ok {
			return <-doneCh
		}
		return msg
	}
}
