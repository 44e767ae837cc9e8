package translator

import (
	"context"
	"fmt"
)

// Provider is a strategy pattern interface for LLM providers.
type Provider interface {
	Stream(ctx context.Context, call Call) (Stream, error)
}

// Call carries model selection and generation parameters for a single
// system+user round-trip. The provider uses its own defaults when fields
// are zero/nil.
type Call struct {
	Model        string // model ID, provider-specific; empty = provider default
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int      // 0 = provider default
	Temperature  *float64 // nil = provider default
	TopP         *float64 // nil = provider default
}

// Validate checks universal constraints on Call.
// Provider implementations may apply additional provider-specific validation.
func (c Call) Validate() error {
	if c.UserPrompt == "" {
		return fmt.Errorf("user prompt must not be empty: %w", ErrValidation)
	}
	if c.Temperature != nil {
		if *c.Temperature < 0 || *c.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *c.Temperature, ErrValidation)
		}
	}
	if c.TopP != nil {
		if *c.TopP < 0 || *c.TopP > 1 {
			return fmt.Errorf("top_p must be in [0, 1], got %g: %w", *c.TopP, ErrValidation)
		}
	}
	if c.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative, got %d: %w", c.MaxTokens, ErrValidation)
	}
	return nil
}
