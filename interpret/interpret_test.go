package interpret_test

import (
	"context"
	"testing"
	"time"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/interpret"
	"github.com/2389-research/translator/mock"
	"github.com/2389-research/translator/runlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() runlog.Run {
	return runlog.Run{
		ID:             "run-1",
		SourceFile:     "post.md",
		OutputFile:     "post.es.md",
		TargetLanguage: "Spanish",
		Model:          "claude-opus-4-1",
		Outcome:        translator.OutcomeDone,
		Stages: []translator.StageResult{
			{
				Stage:   translator.StageTranslate,
				Output:  "Hola mundo, esta es la traducción.",
				Usage:   translator.Usage{InputTokens: 100, OutputTokens: 50},
				Elapsed: 2 * time.Second,
			},
			{
				Stage:   translator.StageEdit,
				Output:  "Hola mundo, esta es la traducción editada.",
				Usage:   translator.Usage{InputTokens: 150, OutputTokens: 60},
				Elapsed: 3 * time.Second,
				Retried: 1,
			},
			{
				Stage:     translator.StageCritiqueGenerate,
				Iteration: 1,
				Output:    "The register is too formal in paragraph two.",
				Usage:     translator.Usage{InputTokens: 200, OutputTokens: 40},
			},
		},
		Cost: translator.CostReport{
			TotalUSD: 0.0215,
			Stages: []translator.StageCost{
				{Stage: translator.StageTranslate, Usage: translator.Usage{InputTokens: 100, OutputTokens: 50}, CostUSD: 0.0215},
			},
		},
	}
}

func TestBuildPrompt(t *testing.T) {
	t.Parallel()
	prompt := interpret.BuildPrompt(sampleRun())

	assert.Contains(t, prompt, "Target language: Spanish")
	assert.Contains(t, prompt, "Translation model: claude-opus-4-1")
	assert.Contains(t, prompt, "Outcome: done")
	assert.Contains(t, prompt, "Total tokens used: 150")
	assert.Contains(t, prompt, "Approximately $0.02")
	assert.Contains(t, prompt, "translate: 100 input tokens, 50 output tokens, 2.0s")
	assert.Contains(t, prompt, "1 retries")
	assert.Contains(t, prompt, "Hola mundo, esta es la traducción.")
	assert.Contains(t, prompt, "The register is too formal")
	assert.Contains(t, prompt, "Number of critique loops: 1")
	assert.Contains(t, prompt, "narrative interpretation (300-500 words)")
}

func TestBuildPrompt_TruncatesLongOutputs(t *testing.T) {
	t.Parallel()
	run := sampleRun()
	long := make([]rune, 500)
	for i := range long {
		long[i] = 'x'
	}
	run.Stages[0].Output = string(long)

	prompt := interpret.BuildPrompt(run)
	assert.Contains(t, prompt, string(long[:300])+"...")
	assert.NotContains(t, prompt, string(long[:301]))
}

func TestBuildPrompt_SkipsFailedStages(t *testing.T) {
	t.Parallel()
	run := sampleRun()
	run.Stages[1].Err = "service error"
	run.Stages[1].Output = "partial edit"

	prompt := interpret.BuildPrompt(run)
	assert.NotContains(t, prompt, "partial edit")
	assert.Contains(t, prompt, "error: service error")
}

func TestNarrative(t *testing.T) {
	t.Parallel()

	var gotCall translator.Call
	provider := &mock.Provider{
		StreamFn: func(ctx context.Context, call translator.Call) (translator.Stream, error) {
			gotCall = call
			return &mock.ScriptedStream{
				Fragments: []string{"The run ", "went well."},
				Usage:     translator.Usage{InputTokens: 400, OutputTokens: 120},
			}, nil
		},
	}

	narrative, err := interpret.Narrative(context.Background(), provider, "o4-mini", sampleRun())
	require.NoError(t, err)

	assert.Equal(t, "The run went well.", narrative)
	assert.Equal(t, "o4-mini", gotCall.Model)
	assert.Contains(t, gotCall.SystemPrompt, "expert translator analyst")
	assert.Contains(t, gotCall.UserPrompt, "Target language: Spanish")
}

func TestNarrative_ProviderError(t *testing.T) {
	t.Parallel()

	provider := &mock.Provider{
		StreamFn: func(ctx context.Context, call translator.Call) (translator.Stream, error) {
			return nil, assert.AnError
		},
	}

	_, err := interpret.Narrative(context.Background(), provider, "o4-mini", sampleRun())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestNarrativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "post.es.md.log.json", want: "post.es.log"},
		{in: "dir/post.es.md.log.json", want: "dir/post.es.log"},
		{in: "notes.log.json", want: "notes.log"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, interpret.NarrativePath(tt.in))
	}
}
