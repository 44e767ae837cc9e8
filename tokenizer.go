package translator

// Tokenizer counts tokens in text for a given model. Implementations fall
// back to an estimate when no exact encoding is available for the model;
// Count never fails.
type Tokenizer interface {
	Count(text, model string) int
}
