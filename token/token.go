// Package token counts prompt tokens for limit prechecks and cost
// estimation.
//
// Counting is exact where a tiktoken encoding exists for the model and falls
// back to a characters-per-token heuristic otherwise. Anthropic and Gemini
// publish no local tokenizers, so their counts use the cl100k_base encoding
// as a close approximation; the pipeline reconciles against provider-reported
// usage after each call.
package token

import (
	"sync"

	"github.com/2389-research/translator"
	"github.com/pkoukk/tiktoken-go"
)

// fallbackEncoding approximates models without a registered encoding.
const fallbackEncoding = "cl100k_base"

// heuristicCharsPerToken is the estimate used when no encoding can be
// loaded at all (for example, with no cached encoding files and no network).
const heuristicCharsPerToken = 4

// Interface compliance check.
var _ translator.Tokenizer = (*Counter)(nil)

// Counter implements [translator.Tokenizer] backed by tiktoken encodings.
// Encoders are cached per model; the zero value is not usable, use [NewCounter].
type Counter struct {
	mu       sync.Mutex
	encoders map[string]*tiktoken.Tiktoken
}

// NewCounter creates a new Counter.
func NewCounter() *Counter {
	return &Counter{encoders: make(map[string]*tiktoken.Tiktoken)}
}

// Count returns the number of tokens in text for the given model.
// It never fails: when no encoding is available it falls back to a
// characters-per-token estimate.
func (c *Counter) Count(text, model string) int {
	enc := c.encoder(model)
	if enc == nil {
		return Estimate(text)
	}
	return len(enc.Encode(text, nil, nil))
}

func (c *Counter) encoder(model string) *tiktoken.Tiktoken {
	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encoders[model]; ok {
		return enc
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(fallbackEncoding)
		if err != nil {
			// Cache the miss so we don't retry loading on every count.
			c.encoders[model] = nil
			return nil
		}
	}
	c.encoders[model] = enc
	return enc
}

// Estimate approximates a token count from text length alone.
func Estimate(text string) int {
	return len(text) / heuristicCharsPerToken
}
