package pipeline

import (
	"sync"

	"github.com/2389-research/translator"
)

// Tracker accumulates per-stage token usage and cost for one run. Safe for
// concurrent use; progress callbacks read snapshots while a stage records.
//
// Invariant: the snapshot total always equals the sum of its per-stage
// costs, at every observation point.
type Tracker struct {
	mu     sync.Mutex
	model  translator.ModelInfo
	stages []translator.StageCost
	total  float64
}

// NewTracker returns a Tracker pricing usage against the given model.
func NewTracker(model translator.ModelInfo) *Tracker {
	return &Tracker{model: model}
}

// Record prices the usage, appends a line item, and returns its cost.
func (t *Tracker) Record(stage translator.Stage, iteration int, u translator.Usage) float64 {
	cost := t.model.CostUSD(u)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.stages = append(t.stages, translator.StageCost{
		Stage:     stage,
		Iteration: iteration,
		Usage:     u,
		CostUSD:   cost,
	})
	t.total += cost
	return cost
}

// Snapshot returns a copy of the accumulated report.
func (t *Tracker) Snapshot() translator.CostReport {
	t.mu.Lock()
	defer t.mu.Unlock()
	stages := make([]translator.StageCost, len(t.stages))
	copy(stages, t.stages)
	return translator.CostReport{Stages: stages, TotalUSD: t.total}
}
