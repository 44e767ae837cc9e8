package translator

// Usage tracks token consumption for a single model call.
//
// InputTokens counts prompt tokens, OutputTokens completion tokens.
// Providers normalize their API-specific fields to these two; a zero
// field means the provider reported nothing and a local tokenizer
// count should be substituted.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the combined token count.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Add returns the element-wise sum of two usages.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + o.InputTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
	}
}
