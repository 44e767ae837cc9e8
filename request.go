package translator

import "fmt"

// MaxCritiqueLoops caps the number of critique iterations per run.
const MaxCritiqueLoops = 5

// Request describes one document translation run.
// Zero values select the documented defaults.
type Request struct {
	SourceText     string // document body to translate
	Metadata       string // opaque frontmatter field block; empty = no frontmatter stage
	TargetLanguage string // human-readable language name, e.g. "Spanish"
	Model          string // model ID from the catalog
	EditEnabled    bool
	CritiqueLoops  int  // number of critique iterations, [0, MaxCritiqueLoops]
	Streaming      bool // false suppresses progress callbacks; the stream is still drained
}

// Validate checks universal constraints on Request.
func (r Request) Validate() error {
	if r.SourceText == "" {
		return fmt.Errorf("source text must not be empty: %w", ErrValidation)
	}
	if r.TargetLanguage == "" {
		return fmt.Errorf("target language must not be empty: %w", ErrValidation)
	}
	if r.CritiqueLoops < 0 || r.CritiqueLoops > MaxCritiqueLoops {
		return fmt.Errorf("critique loops must be in [0, %d], got %d: %w", MaxCritiqueLoops, r.CritiqueLoops, ErrValidation)
	}
	if _, ok := LookupModel(r.Model); !ok {
		return fmt.Errorf("model %q: %w", r.Model, ErrUnknownModel)
	}
	return nil
}
