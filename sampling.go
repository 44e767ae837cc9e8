package translator

// Sampling is a named generation profile for one stage. Nil fields defer
// to provider defaults.
type Sampling struct {
	Temperature *float64
	TopP        *float64
	MaxTokens   int
}

var (
	// Translation runs on provider defaults for maximum fidelity.
	samplingTranslate = Sampling{}
	// Editing keeps the full distribution but no temperature override.
	samplingEdit = Sampling{TopP: ptr(1.0)}
	// Critique generation benefits from some variety.
	samplingCritiqueGenerate = Sampling{Temperature: ptr(0.7)}
	// Applying feedback should stay close to the draft.
	samplingCritiqueApply = Sampling{Temperature: ptr(0.5)}
)

// SamplingFor returns the generation profile for a stage.
func SamplingFor(stage Stage) Sampling {
	switch stage {
	case StageEdit:
		return samplingEdit
	case StageCritiqueGenerate:
		return samplingCritiqueGenerate
	case StageCritiqueApply:
		return samplingCritiqueApply
	default:
		return samplingTranslate
	}
}

func ptr(v float64) *float64 { return &v }
