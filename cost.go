package translator

import "fmt"

// StageCost is one line item in a running cost report.
type StageCost struct {
	Stage     Stage
	Iteration int
	Usage     Usage
	CostUSD   float64
}

// CostReport is a snapshot of accumulated cost. TotalUSD always equals the
// sum of the per-stage costs.
type CostReport struct {
	Stages   []StageCost
	TotalUSD float64
}

// TotalUsage returns summed token usage across all recorded stages.
func (r CostReport) TotalUsage() Usage {
	var u Usage
	for _, s := range r.Stages {
		u = u.Add(s.Usage)
	}
	return u
}

// Prompt overhead multipliers for pre-run estimation, relative to the
// source document's token count. Each stage re-sends the document in some
// form: editing sends original plus draft, critique sends both and returns
// commentary, applying sends original, draft and feedback.
const (
	translateInputFactor   = 1.0
	translateOutputFactor  = 1.0
	editInputFactor        = 2.0
	editOutputFactor       = 1.0
	critiqueInputFactor    = 2.0
	critiqueOutputFactor   = 1.5
	applyInputFactor       = 3.5
	applyOutputFactor      = 1.0
	frontmatterTokenBudget = 500
)

// EstimateCost predicts the USD cost of a run before any network call,
// from the source document's token count and the stage plan.
func EstimateCost(sourceTokens int, m ModelInfo, hasFrontmatter, edit bool, critiqueLoops int) float64 {
	t := float64(sourceTokens)

	in := t * translateInputFactor
	out := t * translateOutputFactor
	if hasFrontmatter {
		in += frontmatterTokenBudget
		out += frontmatterTokenBudget
	}
	if edit {
		in += t * editInputFactor
		out += t * editOutputFactor
	}
	for i := 0; i < critiqueLoops; i++ {
		in += t * critiqueInputFactor
		out += t * critiqueOutputFactor
		in += t * applyInputFactor
		out += t * applyOutputFactor
	}

	return in/1000*m.InputCostPer1K + out/1000*m.OutputCostPer1K
}

// FormatUSD renders a cost for display: "Less than $0.01" below a cent,
// otherwise "Approximately $X.XX".
func FormatUSD(cost float64) string {
	if cost < 0.01 {
		return "Less than $0.01"
	}
	return fmt.Sprintf("Approximately $%.2f", cost)
}
