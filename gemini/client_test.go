package gemini_test

import (
	"testing"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig_Sampling(t *testing.T) {
	t.Parallel()
	temp := 0.7
	topP := 0.9
	cfg := gemini.BuildConfig(translator.Call{
		Model:        "gemini-2.5-pro",
		SystemPrompt: "You are a professional translator.",
		UserPrompt:   "Hello",
		MaxTokens:    4096,
		Temperature:  &temp,
		TopP:         &topP,
	})

	assert.Equal(t, int32(4096), cfg.MaxOutputTokens)
	require.NotNil(t, cfg.SystemInstruction)
	require.Len(t, cfg.SystemInstruction.Parts, 1)
	assert.Equal(t, "You are a professional translator.", cfg.SystemInstruction.Parts[0].Text)
	require.NotNil(t, cfg.Temperature)
	assert.InDelta(t, 0.7, float64(*cfg.Temperature), 1e-6)
	require.NotNil(t, cfg.TopP)
	assert.InDelta(t, 0.9, float64(*cfg.TopP), 1e-6)
}

func TestBuildConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg := gemini.BuildConfig(translator.Call{
		Model:      "gemini-2.5-flash",
		UserPrompt: "Hello",
	})

	assert.Equal(t, int32(65536), cfg.MaxOutputTokens)
	assert.Nil(t, cfg.SystemInstruction)
	assert.Nil(t, cfg.Temperature, "unset temperature is omitted, not zeroed")
	assert.Nil(t, cfg.TopP)
}
