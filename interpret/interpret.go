// Package interpret turns a saved run log into a narrative summary via a
// single model round-trip.
package interpret

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/pipeline"
	"github.com/2389-research/translator/runlog"
)

const systemPrompt = "You are an expert translator analyst. Your task is to analyze a " +
	"translation process and provide a concise, insightful narrative about what happened " +
	"during the translation. Focus on the quality improvements made during the process, " +
	"challenges encountered, and the overall effectiveness of the translation workflow."

// excerptLen bounds how much stage output goes into the prompt.
const excerptLen = 300

// maxCritiqueExcerpts bounds how many critiques are quoted to keep the
// prompt size manageable.
const maxCritiqueExcerpts = 2

// Narrative generates a narrative interpretation of a run log.
func Narrative(ctx context.Context, provider translator.Provider, model string, run runlog.Run) (string, error) {
	call := translator.Call{
		Model:        model,
		SystemPrompt: systemPrompt,
		UserPrompt:   BuildPrompt(run),
	}

	stream, err := provider.Stream(ctx, call)
	if err != nil {
		return "", fmt.Errorf("interpret: %w", err)
	}

	col, err := pipeline.Collect(stream, nil, nil)
	if err != nil {
		return "", fmt.Errorf("interpret: %w", err)
	}
	return col.Text, nil
}

// BuildPrompt renders the run log into the analysis prompt.
func BuildPrompt(run runlog.Run) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this translation process from the log data:\n\n")
	fmt.Fprintf(&b, "- Target language: %s\n", run.TargetLanguage)
	fmt.Fprintf(&b, "- Translation model: %s\n", run.Model)
	fmt.Fprintf(&b, "- Outcome: %s\n", run.Outcome)
	fmt.Fprintf(&b, "- Total tokens used: %d\n", run.Cost.TotalUsage().Total())
	fmt.Fprintf(&b, "- Total cost: %s\n\n", translator.FormatUSD(run.Cost.TotalUSD))

	b.WriteString("Stages:\n")
	for _, s := range run.Stages {
		fmt.Fprintf(&b, "- %s", s.Stage)
		if s.Iteration > 0 {
			fmt.Fprintf(&b, " (loop %d)", s.Iteration)
		}
		fmt.Fprintf(&b, ": %d input tokens, %d output tokens, %.1fs", s.Usage.InputTokens, s.Usage.OutputTokens, s.Elapsed.Seconds())
		if s.Retried > 0 {
			fmt.Fprintf(&b, ", %d retries", s.Retried)
		}
		if s.Err != "" {
			fmt.Fprintf(&b, ", error: %s", s.Err)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if out := stageOutput(run, translator.StageTranslate); out != "" {
		fmt.Fprintf(&b, "First %d characters of the translation:\n%s\n\n", excerptLen, excerpt(out))
	}
	if out := stageOutput(run, translator.StageEdit); out != "" {
		fmt.Fprintf(&b, "First %d characters of the edited draft:\n%s\n\n", excerptLen, excerpt(out))
	}

	critiques := critiqueOutputs(run)
	if len(critiques) > 0 {
		fmt.Fprintf(&b, "Number of critique loops: %d\n\n", len(critiques))
		for i, c := range critiques {
			if i == maxCritiqueExcerpts {
				break
			}
			fmt.Fprintf(&b, "Critique %d summary (first %d chars): %s\n\n", i+1, excerptLen, excerpt(c))
		}
	}

	b.WriteString(`Based on this data, provide a concise narrative interpretation (300-500 words) of what happened during the translation process. Include:

1. A summary of the translation workflow
2. Insights about the quality improvements at each stage
3. Analysis of any challenges or issues identified in the critiques
4. Overall assessment of the translation quality and process effectiveness

Your narrative should be informative and helpful to someone who wants to understand what happened during the translation process without getting too technical.
`)
	return b.String()
}

// NarrativePath derives the narrative file path from a log path:
// post.es.md.log.json becomes post.es.log.
func NarrativePath(logPath string) string {
	base := strings.TrimSuffix(logPath, ".log.json")
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".log"
}

func stageOutput(run runlog.Run, stage translator.Stage) string {
	for _, s := range run.Stages {
		if s.Stage == stage && s.Err == "" {
			return s.Output
		}
	}
	return ""
}

func critiqueOutputs(run runlog.Run) []string {
	var outputs []string
	for _, s := range run.Stages {
		if s.Stage == translator.StageCritiqueGenerate && s.Err == "" {
			outputs = append(outputs, s.Output)
		}
	}
	return outputs
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLen {
		return text
	}
	return string(runes[:excerptLen]) + "..."
}
