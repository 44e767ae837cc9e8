package gemini

import (
	"context"
	"fmt"

	"github.com/2389-research/translator"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ translator.Provider = (*Client)(nil)

// Client implements [translator.Provider] for the Google Gemini API.
type Client struct {
	client *genai.Client
}

// New creates a new Gemini [Client] with the given API key.
func New(ctx context.Context, apiKey string) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	return &Client{client: gc}, nil
}

// Stream sends a streaming request to the Gemini API and returns a
// [translator.Stream] that emits semantic events.
func (c *Client) Stream(ctx context.Context, call translator.Call) (translator.Stream, error) {
	if err := call.Validate(); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: call.UserPrompt}},
	}}

	iter := c.client.Models.GenerateContentStream(ctx, call.Model, contents, BuildConfig(call))
	return newStream(ctx, iter), nil
}

// BuildConfig maps a [translator.Call] onto the genai generation config.
func BuildConfig(call translator.Call) *genai.GenerateContentConfig {
	maxTokens := call.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}

	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(maxTokens),
	}

	if call.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: call.SystemPrompt}},
		}
	}

	if call.Temperature != nil {
		temp := float32(*call.Temperature)
		config.Temperature = &temp
	}
	if call.TopP != nil {
		topP := float32(*call.TopP)
		config.TopP = &topP
	}

	return config
}
