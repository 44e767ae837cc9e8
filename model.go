package translator

import "sort"

// Provider identifiers used by the model catalog and the CLI to pick a
// provider implementation.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
)

// Defaults used when the caller does not pick a model.
const (
	DefaultModel          = "claude-opus-4-1"
	DefaultInterpretModel = "o4-mini"
)

// ModelInfo describes one catalog entry. Prices are USD per 1000 tokens.
type ModelInfo struct {
	ID              string
	Provider        string
	ContextTokens   int
	InputCostPer1K  float64
	OutputCostPer1K float64
}

// CostUSD returns the price of a call with the given usage.
func (m ModelInfo) CostUSD(u Usage) float64 {
	return float64(u.InputTokens)/1000*m.InputCostPer1K +
		float64(u.OutputTokens)/1000*m.OutputCostPer1K
}

var catalog = map[string]ModelInfo{
	"claude-opus-4-1":        {ID: "claude-opus-4-1", Provider: ProviderAnthropic, ContextTokens: 200000, InputCostPer1K: 0.015, OutputCostPer1K: 0.075},
	"claude-sonnet-4-0":      {ID: "claude-sonnet-4-0", Provider: ProviderAnthropic, ContextTokens: 200000, InputCostPer1K: 0.003, OutputCostPer1K: 0.015},
	"claude-3-5-haiku-latest": {ID: "claude-3-5-haiku-latest", Provider: ProviderAnthropic, ContextTokens: 200000, InputCostPer1K: 0.0008, OutputCostPer1K: 0.004},
	"gpt-4o":                 {ID: "gpt-4o", Provider: ProviderOpenAI, ContextTokens: 128000, InputCostPer1K: 0.0025, OutputCostPer1K: 0.01},
	"gpt-4o-mini":            {ID: "gpt-4o-mini", Provider: ProviderOpenAI, ContextTokens: 128000, InputCostPer1K: 0.00015, OutputCostPer1K: 0.0006},
	"gpt-4.1":                {ID: "gpt-4.1", Provider: ProviderOpenAI, ContextTokens: 1047576, InputCostPer1K: 0.002, OutputCostPer1K: 0.008},
	"gpt-4.1-mini":           {ID: "gpt-4.1-mini", Provider: ProviderOpenAI, ContextTokens: 1047576, InputCostPer1K: 0.0004, OutputCostPer1K: 0.0016},
	"o3":                     {ID: "o3", Provider: ProviderOpenAI, ContextTokens: 200000, InputCostPer1K: 0.002, OutputCostPer1K: 0.008},
	"o4-mini":                {ID: "o4-mini", Provider: ProviderOpenAI, ContextTokens: 200000, InputCostPer1K: 0.0011, OutputCostPer1K: 0.0044},
	"gemini-2.5-pro":         {ID: "gemini-2.5-pro", Provider: ProviderGemini, ContextTokens: 1048576, InputCostPer1K: 0.00125, OutputCostPer1K: 0.01},
	"gemini-2.5-flash":       {ID: "gemini-2.5-flash", Provider: ProviderGemini, ContextTokens: 1048576, InputCostPer1K: 0.0003, OutputCostPer1K: 0.0025},
}

// LookupModel returns the catalog entry for id.
func LookupModel(id string) (ModelInfo, bool) {
	m, ok := catalog[id]
	return m, ok
}

// Models returns the catalog sorted by provider then ID.
func Models() []ModelInfo {
	out := make([]ModelInfo, 0, len(catalog))
	for _, m := range catalog {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Provider != out[j].Provider {
			return out[i].Provider < out[j].Provider
		}
		return out[i].ID < out[j].ID
	})
	return out
}
