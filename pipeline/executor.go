package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/2389-research/translator"
)

// completionHeadroom scales prompt tokens into an expected completion
// budget for the context-window precheck. Translation-shaped stages return
// roughly document-sized output, so total traffic runs about 2.5x the
// prompt.
const completionHeadroom = 1.5

// stagePlan is one fully-built stage invocation: prompts are deterministic
// functions of the request and earlier outputs, fixed before any network
// call.
type stagePlan struct {
	stage     translator.Stage
	iteration int
	system    string
	user      string
}

// runStage executes one stage end to end: context-window precheck, provider
// call with bounded retries, stream collection, usage reconciliation, cost
// recording. Exactly one StageResult lands in *log per outcome.
//
// Cancellation surfaces as translator.ErrCancelled; everything else as a
// *translator.StageError.
func (r *Runner) runStage(ctx context.Context, plan stagePlan, req translator.Request, cfg *runConfig, tracker *Tracker, log *[]translator.StageResult) (string, error) {
	start := time.Now()

	promptTokens := r.tokenizer.Count(plan.system+plan.user, req.Model)
	budget := promptTokens + int(float64(promptTokens)*completionHeadroom)
	if budget > cfg.model.ContextTokens {
		err := fmt.Errorf("prompt is %d tokens, estimated %d total against a %d context window: %w",
			promptTokens, budget, cfg.model.ContextTokens, translator.ErrTokenLimit)
		serr := &translator.StageError{Stage: plan.stage, Kind: translator.KindTokenLimit, Err: err}
		*log = append(*log, translator.StageResult{
			Stage:     plan.stage,
			Iteration: plan.iteration,
			Elapsed:   time.Since(start),
			Err:       serr.Error(),
		})
		return "", serr
	}

	sampling := translator.SamplingFor(plan.stage)
	call := translator.Call{
		Model:        req.Model,
		SystemPrompt: plan.system,
		UserPrompt:   plan.user,
		MaxTokens:    sampling.MaxTokens,
		Temperature:  sampling.Temperature,
		TopP:         sampling.TopP,
	}

	var onFragment func(fragment, text string)
	if req.Streaming && cfg.progress != nil {
		progress := cfg.progress
		stage := plan.stage
		onFragment = func(fragment, text string) {
			progress(stage, fragment, text, tracker.Snapshot())
		}
	}

	var col Collected
	var lastErr error
	retried := 0

	for attempt := 0; ; attempt++ {
		if cfg.cancel.ShouldStop() {
			cfg.cancel.Acknowledge()
			return "", translator.ErrCancelled
		}

		col, lastErr = r.attempt(ctx, call, cfg, onFragment)
		if lastErr == nil {
			break
		}
		if errors.Is(lastErr, translator.ErrCancelled) {
			return "", translator.ErrCancelled
		}
		if attempt >= r.maxRetries || !translator.IsTransient(lastErr) {
			serr := &translator.StageError{
				Stage:   plan.stage,
				Kind:    classify(lastErr),
				Retried: retried,
				Err:     lastErr,
			}
			*log = append(*log, translator.StageResult{
				Stage:     plan.stage,
				Iteration: plan.iteration,
				Elapsed:   time.Since(start),
				Retried:   retried,
				Err:       serr.Error(),
			})
			return "", serr
		}

		retried++
		if err := r.sleep(ctx, r.backoff(attempt)); err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				serr := &translator.StageError{
					Stage:   plan.stage,
					Kind:    translator.KindTimeout,
					Retried: retried,
					Err:     fmt.Errorf("deadline expired during retry backoff: %w", err),
				}
				*log = append(*log, translator.StageResult{
					Stage:     plan.stage,
					Iteration: plan.iteration,
					Elapsed:   time.Since(start),
					Retried:   retried,
					Err:       serr.Error(),
				})
				return "", serr
			}
			return "", translator.ErrCancelled
		}
	}

	if col.Cancelled {
		// The partial text travels with the cancellation so the caller can
		// surface what was streamed before the stop.
		*log = append(*log, translator.StageResult{
			Stage:     plan.stage,
			Iteration: plan.iteration,
			Output:    col.Text,
			Elapsed:   time.Since(start),
			Retried:   retried,
			Err:       translator.ErrCancelled.Error(),
		})
		return col.Text, translator.ErrCancelled
	}

	// Provider counts are authoritative; fill gaps from the tokenizer.
	usage := col.Usage
	if usage.InputTokens == 0 {
		usage.InputTokens = promptTokens
	}
	if usage.OutputTokens == 0 {
		usage.OutputTokens = r.tokenizer.Count(col.Text, req.Model)
	}

	cost := tracker.Record(plan.stage, plan.iteration, usage)
	*log = append(*log, translator.StageResult{
		Stage:     plan.stage,
		Iteration: plan.iteration,
		Output:    col.Text,
		Usage:     usage,
		CostUSD:   cost,
		Elapsed:   time.Since(start),
		Retried:   retried,
	})
	return col.Text, nil
}

// attempt performs a single provider call with the per-call timeout.
func (r *Runner) attempt(ctx context.Context, call translator.Call, cfg *runConfig, onFragment func(fragment, text string)) (Collected, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.callTimeout)
	defer cancel()

	stream, err := r.provider.Stream(callCtx, call)
	if err != nil {
		return Collected{}, err
	}

	col, err := Collect(stream, cfg.cancel, onFragment)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return col, fmt.Errorf("call timed out after %s: %w", r.callTimeout, context.DeadlineExceeded)
		}
		return col, err
	}
	return col, nil
}

func classify(err error) translator.ErrorKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return translator.KindTimeout
	case errors.Is(err, translator.ErrTokenLimit):
		return translator.KindTokenLimit
	}
	var se *translator.ServiceError
	if errors.As(err, &se) && se.Status == 429 {
		return translator.KindRateLimited
	}
	return translator.KindService
}

// backoff returns the delay before retry number attempt+1: exponential from
// the base, capped, with up to 25% jitter on top.
func (r *Runner) backoff(attempt int) time.Duration {
	d := r.retryBase << attempt
	if d > r.retryCap || d <= 0 {
		d = r.retryCap
	}
	return d + time.Duration(rand.Int64N(int64(d)/4+1))
}

func (r *Runner) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
