package pipeline_test

import (
	"sync"
	"testing"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel() translator.ModelInfo {
	return translator.ModelInfo{
		ID:              "test-model",
		ContextTokens:   100000,
		InputCostPer1K:  0.01,
		OutputCostPer1K: 0.04,
	}
}

func TestTracker_TotalEqualsSumOfStages(t *testing.T) {
	t.Parallel()

	tr := pipeline.NewTracker(testModel())
	tr.Record(translator.StageTranslate, 0, translator.Usage{InputTokens: 1000, OutputTokens: 1000})
	tr.Record(translator.StageEdit, 0, translator.Usage{InputTokens: 2000, OutputTokens: 900})
	tr.Record(translator.StageCritiqueGenerate, 0, translator.Usage{InputTokens: 2000, OutputTokens: 1500})

	snap := tr.Snapshot()
	require.Len(t, snap.Stages, 3)

	var sum float64
	for _, s := range snap.Stages {
		sum += s.CostUSD
	}
	assert.InDelta(t, sum, snap.TotalUSD, 1e-12, "total must equal the sum of per-stage costs")
	assert.InDelta(t, 0.05+0.056+0.08, snap.TotalUSD, 1e-9)
}

func TestTracker_SnapshotIsACopy(t *testing.T) {
	t.Parallel()

	tr := pipeline.NewTracker(testModel())
	tr.Record(translator.StageTranslate, 0, translator.Usage{InputTokens: 100, OutputTokens: 100})

	snap := tr.Snapshot()
	snap.Stages[0].CostUSD = 999

	again := tr.Snapshot()
	assert.NotEqual(t, 999.0, again.Stages[0].CostUSD, "mutating a snapshot must not affect the tracker")
}

func TestTracker_InvariantHoldsUnderConcurrentObservation(t *testing.T) {
	t.Parallel()

	tr := pipeline.NewTracker(testModel())

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			tr.Record(translator.StageCritiqueApply, i, translator.Usage{InputTokens: 35, OutputTokens: 10})
		}
	}()

	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			snap := tr.Snapshot()
			var sum float64
			for _, s := range snap.Stages {
				sum += s.CostUSD
			}
			assert.InDelta(t, sum, snap.TotalUSD, 1e-9)
		}
	}()

	wg.Wait()
}
