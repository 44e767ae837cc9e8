package translator

import "time"

// Stage identifies one step of the translation pipeline.
type Stage string

const (
	StageFrontmatter      Stage = "frontmatter"
	StageTranslate        Stage = "translate"
	StageEdit             Stage = "edit"
	StageCritiqueGenerate Stage = "critique_generate"
	StageCritiqueApply    Stage = "critique_apply"
)

// StageResult records the outcome of one stage attempt that completed,
// failed terminally, or was cancelled. Exactly one StageResult is appended
// to the run log per stage outcome; intermediate retry attempts are folded
// into Retried.
type StageResult struct {
	Stage     Stage
	Iteration int // critique loop index, 0 for non-critique stages
	Output    string
	Usage     Usage
	CostUSD   float64
	Elapsed   time.Duration
	Retried   int
	Err       string // empty on success
}

// Outcome is the terminal state of a pipeline run.
type Outcome string

const (
	OutcomeDone      Outcome = "done"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Result is what a pipeline run hands back to the caller. FinalText holds
// the last good draft even when the run failed or was cancelled partway.
type Result struct {
	FinalText string
	Metadata  string // translated frontmatter field block, empty when absent
	Outcome   Outcome
	Log       []StageResult
	Cost      CostReport
}
