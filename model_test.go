package translator_test

import (
	"testing"

	"github.com/2389-research/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupModel(t *testing.T) {
	t.Parallel()

	m, ok := translator.LookupModel(translator.DefaultModel)
	require.True(t, ok, "default model must be in the catalog")
	assert.Equal(t, translator.ProviderAnthropic, m.Provider)
	assert.Greater(t, m.ContextTokens, 0)

	_, ok = translator.LookupModel("nope")
	assert.False(t, ok)
}

func TestModels_SortedAndComplete(t *testing.T) {
	t.Parallel()

	models := translator.Models()
	require.NotEmpty(t, models)

	for i := 1; i < len(models); i++ {
		prev, cur := models[i-1], models[i]
		if prev.Provider == cur.Provider {
			assert.Less(t, prev.ID, cur.ID)
		} else {
			assert.Less(t, prev.Provider, cur.Provider)
		}
	}

	for _, m := range models {
		assert.Greater(t, m.ContextTokens, 0, "%s context window", m.ID)
		assert.Greater(t, m.InputCostPer1K, 0.0, "%s input price", m.ID)
		assert.Greater(t, m.OutputCostPer1K, 0.0, "%s output price", m.ID)
	}
}

func TestSamplingFor(t *testing.T) {
	t.Parallel()

	translate := translator.SamplingFor(translator.StageTranslate)
	assert.Nil(t, translate.Temperature)
	assert.Nil(t, translate.TopP)

	edit := translator.SamplingFor(translator.StageEdit)
	require.NotNil(t, edit.TopP)
	assert.Equal(t, 1.0, *edit.TopP)
	assert.Nil(t, edit.Temperature)

	gen := translator.SamplingFor(translator.StageCritiqueGenerate)
	require.NotNil(t, gen.Temperature)
	assert.Equal(t, 0.7, *gen.Temperature)

	apply := translator.SamplingFor(translator.StageCritiqueApply)
	require.NotNil(t, apply.Temperature)
	assert.Equal(t, 0.5, *apply.Temperature)
}
