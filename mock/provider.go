// Package mock provides test doubles for translator interfaces using
// function fields.
package mock

import (
	"context"

	"github.com/2389-research/translator"
)

// Interface compliance check.
var _ translator.Provider = (*Provider)(nil)

// Provider is a test double for translator.Provider.
// Set StreamFn before calling Stream.
type Provider struct {
	StreamFn func(ctx context.Context, call translator.Call) (translator.Stream, error)
}

// Stream delegates to StreamFn.
func (p *Provider) Stream(ctx context.Context, call translator.Call) (translator.Stream, error) {
	return p.StreamFn(ctx, call)
}

// Tokenizer is a test double for translator.Tokenizer.
// Set CountFn before calling Count.
type Tokenizer struct {
	CountFn func(text, model string) int
}

// Interface compliance check.
var _ translator.Tokenizer = (*Tokenizer)(nil)

// Count delegates to CountFn.
func (t *Tokenizer) Count(text, model string) int {
	return t.CountFn(text, model)
}
