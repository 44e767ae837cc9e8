package main

import (
	"context"
	"fmt"
	"os"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/anthropic"
	"github.com/2389-research/translator/gemini"
	"github.com/2389-research/translator/openai"
)

// envKeys holds the provider API keys, usually read from the environment.
type envKeys struct {
	Anthropic string
	OpenAI    string
	Gemini    string
}

func keysFromEnv() envKeys {
	return envKeys{
		Anthropic: os.Getenv("ANTHROPIC_API_KEY"),
		OpenAI:    os.Getenv("OPENAI_API_KEY"),
		Gemini:    os.Getenv("GEMINI_API_KEY"),
	}
}

// resolveProvider picks the provider implementation for a catalog model and
// checks that its API key is set.
func resolveProvider(ctx context.Context, info translator.ModelInfo, keys envKeys) (translator.Provider, error) {
	switch info.Provider {
	case translator.ProviderAnthropic:
		if keys.Anthropic == "" {
			return nil, fmt.Errorf("model %s requires ANTHROPIC_API_KEY to be set", info.ID)
		}
		return anthropic.New(keys.Anthropic), nil

	case translator.ProviderOpenAI:
		if keys.OpenAI == "" {
			return nil, fmt.Errorf("model %s requires OPENAI_API_KEY to be set", info.ID)
		}
		return openai.New(keys.OpenAI), nil

	case translator.ProviderGemini:
		if keys.Gemini == "" {
			return nil, fmt.Errorf("model %s requires GEMINI_API_KEY to be set", info.ID)
		}
		c, err := gemini.New(ctx, keys.Gemini)
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("model %s has unknown provider %q", info.ID, info.Provider)
	}
}
