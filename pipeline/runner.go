package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/prompts"
)

// Progress receives one update per streamed text fragment: the fragment,
// the stage's accumulated text so far, and a cost snapshot taken after the
// fragment arrived.
type Progress func(stage translator.Stage, fragment, text string, cost translator.CostReport)

// Defaults for runner tuning knobs.
const (
	DefaultCallTimeout = 10 * time.Minute
	DefaultMaxRetries  = 3
	DefaultRetryBase   = time.Second
	DefaultRetryCap    = 30 * time.Second
)

// Runner orchestrates the staged translation flow against one provider.
type Runner struct {
	provider    translator.Provider
	tokenizer   translator.Tokenizer
	callTimeout time.Duration
	maxRetries  int
	retryBase   time.Duration
	retryCap    time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithCallTimeout bounds each provider call, including stream consumption.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Runner) { r.callTimeout = d }
}

// WithMaxRetries caps retries per stage for transient failures.
func WithMaxRetries(n int) Option {
	return func(r *Runner) { r.maxRetries = n }
}

// WithRetryBackoff sets the exponential backoff base and cap.
func WithRetryBackoff(base, cap time.Duration) Option {
	return func(r *Runner) {
		r.retryBase = base
		r.retryCap = cap
	}
}

// New returns a Runner. The provider and tokenizer are required.
func New(provider translator.Provider, tokenizer translator.Tokenizer, opts ...Option) *Runner {
	r := &Runner{
		provider:    provider,
		tokenizer:   tokenizer,
		callTimeout: DefaultCallTimeout,
		maxRetries:  DefaultMaxRetries,
		retryBase:   DefaultRetryBase,
		retryCap:    DefaultRetryCap,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// runConfig carries per-run collaborators and resolved request data.
type runConfig struct {
	cancel   *translator.CancelToken
	progress Progress
	model    translator.ModelInfo
}

// RunOption configures a single Run call.
type RunOption func(*runConfig)

// WithCancel attaches a cooperative cancellation token to the run.
func WithCancel(tok *translator.CancelToken) RunOption {
	return func(c *runConfig) { c.cancel = tok }
}

// WithProgress attaches a per-fragment progress callback. It only fires
// when the request has Streaming enabled.
func WithProgress(fn Progress) RunOption {
	return func(c *runConfig) { c.progress = fn }
}

// state is the orchestrator's position in the pipeline.
type state int

const (
	stateIdle state = iota
	stateFrontmatter
	stateTranslating
	stateEditing
	stateCritiquing // generating critique feedback
	stateApplying   // applying critique feedback
	stateDone
	stateFailed
	stateCancelled
)

// Run executes the pipeline for one request.
//
// The returned Result is non-nil for every validated request: a failed run
// carries the last good draft, the stage log so far, and the accurate cost
// of the work already done. Cancellation is a distinct outcome, not an
// error; a run cancelled mid-stream keeps the text streamed up to the stop
// as its FinalText. The error return is non-nil only for validation and
// stage failures.
func (r *Runner) Run(ctx context.Context, req translator.Request, opts ...RunOption) (*translator.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	model, _ := translator.LookupModel(req.Model)

	cfg := &runConfig{model: model}
	for _, opt := range opts {
		opt(cfg)
	}

	tracker := NewTracker(model)
	var log []translator.StageResult

	var (
		draft    string // last good draft, threaded through stages
		metadata = req.Metadata
		feedback string // critique output pending application
		loop     int    // completed critique iterations
		st       = stateIdle
		runErr   error
	)

	run := func(plan stagePlan) (string, error) {
		return r.runStage(ctx, plan, req, cfg, tracker, &log)
	}

	for st != stateDone && st != stateFailed && st != stateCancelled {
		if cfg.cancel.ShouldStop() {
			cfg.cancel.Acknowledge()
			st = stateCancelled
			break
		}

		var out string
		var err error

		switch st {
		case stateIdle:
			if metadata != "" {
				st = stateFrontmatter
			} else {
				st = stateTranslating
			}
			continue

		case stateFrontmatter:
			out, err = run(stagePlan{
				stage:  translator.StageFrontmatter,
				system: prompts.FrontmatterSystem(req.TargetLanguage),
				user:   prompts.FrontmatterUser(metadata),
			})
			if err == nil {
				metadata = out
				st = stateTranslating
			}

		case stateTranslating:
			out, err = run(stagePlan{
				stage:  translator.StageTranslate,
				system: prompts.TranslationSystem(req.TargetLanguage),
				user:   prompts.TranslationUser(req.SourceText),
			})
			if err == nil {
				draft = out
				if req.EditEnabled {
					st = stateEditing
				} else {
					st = stateCritiquing
				}
			}

		case stateEditing:
			out, err = run(stagePlan{
				stage:  translator.StageEdit,
				system: prompts.EditingSystem(req.TargetLanguage),
				user:   prompts.EditingUser(req.SourceText, draft, req.TargetLanguage),
			})
			if err == nil {
				draft = out
				st = stateCritiquing
			}

		case stateCritiquing:
			if loop >= req.CritiqueLoops {
				st = stateDone
				continue
			}
			out, err = run(stagePlan{
				stage:     translator.StageCritiqueGenerate,
				iteration: loop,
				system:    prompts.CritiqueSystem(req.TargetLanguage),
				user:      prompts.CritiqueUser(req.SourceText, draft),
			})
			if err == nil {
				feedback = out
				st = stateApplying
			}

		case stateApplying:
			out, err = run(stagePlan{
				stage:     translator.StageCritiqueApply,
				iteration: loop,
				system:    prompts.FeedbackSystem(req.TargetLanguage),
				user:      prompts.FeedbackUser(req.SourceText, draft, feedback),
			})
			if err == nil {
				draft = out
				loop++
				st = stateCritiquing
			}
		}

		if err != nil {
			if errors.Is(err, translator.ErrCancelled) {
				// A stage interrupted mid-stream hands back the text it
				// streamed so far; keep it when the stage was producing
				// the draft. Partial critique feedback has no consumer.
				switch st {
				case stateTranslating, stateEditing, stateApplying:
					if out != "" {
						draft = out
					}
				}
				st = stateCancelled
			} else {
				runErr = err
				st = stateFailed
			}
		}
	}

	result := &translator.Result{
		FinalText: draft,
		Metadata:  metadata,
		Log:       log,
		Cost:      tracker.Snapshot(),
	}

	switch st {
	case stateDone:
		result.Outcome = translator.OutcomeDone
		return result, nil
	case stateCancelled:
		slog.Info("run cancelled", "stages_completed", len(log), "cost_usd", result.Cost.TotalUSD)
		result.Outcome = translator.OutcomeCancelled
		return result, nil
	default:
		result.Outcome = translator.OutcomeFailed
		return result, fmt.Errorf("pipeline: %w", runErr)
	}
}
