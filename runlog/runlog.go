// Package runlog persists a record of each translation run as a versioned
// JSON file next to the translated output.
//
// The log captures every stage result with usage and cost so a run can be
// audited (or summarized by the interpret subcommand) after the fact. Files
// are written atomically via a temp file rename.
package runlog

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/2389-research/translator"
	"github.com/google/uuid"
)

// Run is the persisted record of one translation run.
type Run struct {
	ID             string
	CreatedAt      time.Time
	SourceFile     string
	OutputFile     string
	TargetLanguage string
	Model          string
	SourceSHA256   string
	Outcome        translator.Outcome
	Stages         []translator.StageResult
	Cost           translator.CostReport
}

// New builds a Run from a pipeline result, stamping a fresh run ID.
func New(sourceFile, outputFile string, req translator.Request, res *translator.Result) Run {
	return Run{
		ID:             uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		SourceFile:     sourceFile,
		OutputFile:     outputFile,
		TargetLanguage: req.TargetLanguage,
		Model:          req.Model,
		SourceSHA256:   hashText(req.SourceText),
		Outcome:        res.Outcome,
		Stages:         res.Log,
		Cost:           res.Cost,
	}
}

func hashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// PathFor returns the log path for a translated output file.
func PathFor(outputPath string) string {
	return outputPath + ".log.json"
}

// envelope is the v1 wire format for a persisted run.
type envelope struct {
	Version        int        `json:"version"`
	ID             string     `json:"id"`
	CreatedAt      time.Time  `json:"created_at"`
	SourceFile     string     `json:"source_file"`
	OutputFile     string     `json:"output_file"`
	TargetLanguage string     `json:"target_language"`
	Model          string     `json:"model"`
	SourceSHA256   string     `json:"source_sha256"`
	Outcome        string     `json:"outcome"`
	Stages         []stageDTO `json:"stages"`
	Cost           costDTO    `json:"cost"`
}

type stageDTO struct {
	Stage        string   `json:"stage"`
	Iteration    int      `json:"iteration"`
	Output       string   `json:"output,omitempty"`
	InputTokens  int      `json:"input_tokens"`
	OutputTokens int      `json:"output_tokens"`
	CostUSD      float64  `json:"cost_usd"`
	ElapsedMS    int64    `json:"elapsed_ms"`
	Retried      int      `json:"retried"`
	Error        string   `json:"error,omitempty"`
}

type costDTO struct {
	TotalUSD float64        `json:"total_usd"`
	Stages   []stageCostDTO `json:"stages"`
}

type stageCostDTO struct {
	Stage        string  `json:"stage"`
	Iteration    int     `json:"iteration"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// Marshal serializes a Run to JSON in v1 envelope format.
func Marshal(r Run) ([]byte, error) {
	env := envelope{
		Version:        1,
		ID:             r.ID,
		CreatedAt:      r.CreatedAt,
		SourceFile:     r.SourceFile,
		OutputFile:     r.OutputFile,
		TargetLanguage: r.TargetLanguage,
		Model:          r.Model,
		SourceSHA256:   r.SourceSHA256,
		Outcome:        string(r.Outcome),
		Stages:         make([]stageDTO, len(r.Stages)),
		Cost: costDTO{
			TotalUSD: r.Cost.TotalUSD,
			Stages:   make([]stageCostDTO, len(r.Cost.Stages)),
		},
	}
	for i, s := range r.Stages {
		env.Stages[i] = stageDTO{
			Stage:        string(s.Stage),
			Iteration:    s.Iteration,
			Output:       s.Output,
			InputTokens:  s.Usage.InputTokens,
			OutputTokens: s.Usage.OutputTokens,
			CostUSD:      s.CostUSD,
			ElapsedMS:    s.Elapsed.Milliseconds(),
			Retried:      s.Retried,
			Error:        s.Err,
		}
	}
	for i, c := range r.Cost.Stages {
		env.Cost.Stages[i] = stageCostDTO{
			Stage:        string(c.Stage),
			Iteration:    c.Iteration,
			InputTokens:  c.Usage.InputTokens,
			OutputTokens: c.Usage.OutputTokens,
			CostUSD:      c.CostUSD,
		}
	}
	return json.MarshalIndent(env, "", "  ")
}

// Unmarshal deserializes a Run from JSON in v1 envelope format.
func Unmarshal(data []byte) (Run, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Run{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return Run{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}

	r := Run{
		ID:             env.ID,
		CreatedAt:      env.CreatedAt,
		SourceFile:     env.SourceFile,
		OutputFile:     env.OutputFile,
		TargetLanguage: env.TargetLanguage,
		Model:          env.Model,
		SourceSHA256:   env.SourceSHA256,
		Outcome:        translator.Outcome(env.Outcome),
		Stages:         make([]translator.StageResult, len(env.Stages)),
		Cost: translator.CostReport{
			TotalUSD: env.Cost.TotalUSD,
			Stages:   make([]translator.StageCost, len(env.Cost.Stages)),
		},
	}
	for i, dto := range env.Stages {
		r.Stages[i] = translator.StageResult{
			Stage:     translator.Stage(dto.Stage),
			Iteration: dto.Iteration,
			Output:    dto.Output,
			Usage:     translator.Usage{InputTokens: dto.InputTokens, OutputTokens: dto.OutputTokens},
			CostUSD:   dto.CostUSD,
			Elapsed:   time.Duration(dto.ElapsedMS) * time.Millisecond,
			Retried:   dto.Retried,
			Err:       dto.Error,
		}
	}
	for i, dto := range env.Cost.Stages {
		r.Cost.Stages[i] = translator.StageCost{
			Stage:     translator.Stage(dto.Stage),
			Iteration: dto.Iteration,
			Usage:     translator.Usage{InputTokens: dto.InputTokens, OutputTokens: dto.OutputTokens},
			CostUSD:   dto.CostUSD,
		}
	}
	return r, nil
}

// Save writes a Run to a JSON file, creating parent directories as needed.
// The write is atomic: data goes to a temp file first, then a rename.
func Save(path string, r Run) error {
	data, err := Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Run from a JSON file.
func Load(path string) (Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Run{}, fmt.Errorf("read run log: %w", err)
	}
	return Unmarshal(data)
}
