package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/frontmatter"
	"github.com/2389-research/translator/markdown"
	"github.com/2389-research/translator/pipeline"
	"github.com/2389-research/translator/runlog"
	"github.com/2389-research/translator/token"
	"github.com/2389-research/translator/tui"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"
)

func runTranslate(ctx context.Context, pattern, targetLanguage string) error {
	modelID := viper.GetString("model")
	info, ok := translator.LookupModel(modelID)
	if !ok {
		return fmt.Errorf("unknown model %q, run 'translator models' for the catalog", modelID)
	}

	files, err := expandInputs(pattern)
	if err != nil {
		return err
	}
	if flagOutput != "" && len(files) > 1 {
		return fmt.Errorf("--output cannot be combined with a glob matching %d files", len(files))
	}

	critiqueLoops := viper.GetInt("critique_loops")
	if flagNoCritique {
		critiqueLoops = 0
	}

	counter := token.NewCounter()
	if flagEstimateOnly {
		return printEstimate(files, info, counter, critiqueLoops)
	}

	provider, err := resolveProvider(ctx, info, keysFromEnv())
	if err != nil {
		return err
	}
	runner := pipeline.New(provider, counter)

	tok := translator.NewCancelToken()
	stop := handleInterrupts(tok)
	defer stop()

	var failed int
	for i, file := range files {
		if tok.ShouldStop() {
			slog.Warn("cancelled, skipping remaining files", "remaining", len(files)-i)
			break
		}
		if err := translateFile(ctx, runner, tok, file, targetLanguage, info, critiqueLoops); err != nil {
			if len(files) == 1 {
				return err
			}
			slog.Error("translation failed", "file", file, "error", err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

// expandInputs resolves the FILE argument into a list of input files. A
// pattern without glob metacharacters must name an existing file.
func expandInputs(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[{") {
		if _, err := os.Stat(pattern); err != nil {
			return nil, err
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no files match %q", pattern)
	}
	sort.Strings(matches)
	return matches, nil
}

// printEstimate prints the pre-run cost estimate for each input file
// without making any network calls.
func printEstimate(files []string, info translator.ModelInfo, counter *token.Counter, critiqueLoops int) error {
	var total float64
	for _, file := range files {
		doc, err := readDocument(file)
		if err != nil {
			return err
		}
		_, hasFrontmatter := doc.FieldsBlock()

		tokens := counter.Count(doc.Body, info.ID)
		cost := translator.EstimateCost(tokens, info, hasFrontmatter, !flagNoEdit, critiqueLoops)
		total += cost
		fmt.Printf("%s: %d tokens, %s\n", file, tokens, translator.FormatUSD(cost))
	}
	if len(files) > 1 {
		fmt.Printf("Total: %s\n", translator.FormatUSD(total))
	}
	return nil
}

// readDocument loads a file and splits its frontmatter. Malformed
// frontmatter is downgraded to a warning and the whole file is treated as
// body.
func readDocument(path string) (*frontmatter.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := frontmatter.Parse(string(data))
	if err != nil {
		slog.Warn("frontmatter is malformed, translating the whole file as body", "file", path, "error", err)
		return &frontmatter.Document{Body: string(data)}, nil
	}
	return doc, nil
}

func translateFile(ctx context.Context, runner *pipeline.Runner, tok *translator.CancelToken, path, targetLanguage string, info translator.ModelInfo, critiqueLoops int) error {
	doc, err := readDocument(path)
	if err != nil {
		return err
	}

	var metadata string
	if block, ok := doc.FieldsBlock(); ok {
		metadata = block
	}

	req := translator.Request{
		SourceText:     doc.Body,
		Metadata:       metadata,
		TargetLanguage: targetLanguage,
		Model:          info.ID,
		EditEnabled:    !flagNoEdit,
		CritiqueLoops:  critiqueLoops,
		Streaming:      !flagPlain,
	}

	outPath := flagOutput
	if outPath == "" {
		outPath = defaultOutputPath(path, targetLanguage)
	}

	var res *translator.Result
	if flagPlain {
		slog.Info("translating", "file", path, "language", targetLanguage, "model", info.ID)
		res, err = runner.Run(ctx, req, pipeline.WithCancel(tok))
	} else {
		res, err = runWithPanel(ctx, runner, tok, path, req)
	}
	if err != nil {
		return err
	}

	if res.Outcome == translator.OutcomeCancelled && res.FinalText == "" {
		slog.Warn("cancelled before any draft was produced", "file", path)
		return nil
	}

	if res.Metadata != "" && doc.Present {
		if aerr := doc.ApplyTranslated(res.Metadata); aerr != nil {
			slog.Warn("could not apply translated frontmatter", "file", path, "error", aerr)
		}
	}
	doc.Body = res.FinalText
	content, err := doc.Content()
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return err
	}

	for _, m := range markdown.CheckPreservation(req.SourceText, res.FinalText) {
		slog.Warn("translation changed document structure", "file", path, "detail", m.String())
	}

	run := runlog.New(path, outPath, req, res)
	if err := runlog.Save(runlog.PathFor(outPath), run); err != nil {
		slog.Warn("could not save run log", "file", path, "error", err)
	}

	if res.Outcome == translator.OutcomeCancelled {
		fmt.Printf("Cancelled: partial translation written to %s (%s)\n", outPath, translator.FormatUSD(res.Cost.TotalUSD))
		return nil
	}
	fmt.Printf("Wrote %s (%s)\n", outPath, translator.FormatUSD(res.Cost.TotalUSD))
	return nil
}

// runWithPanel runs the pipeline behind the Bubble Tea progress panel and
// unwraps the final model.
func runWithPanel(ctx context.Context, runner *pipeline.Runner, tok *translator.CancelToken, path string, req translator.Request) (*translator.Result, error) {
	run := func(ctx context.Context, onProgress pipeline.Progress) (*translator.Result, error) {
		return runner.Run(ctx, req, pipeline.WithCancel(tok), pipeline.WithProgress(onProgress))
	}

	final, err := tui.Run(ctx, tui.New(filepath.Base(path), run, tok))
	if err != nil {
		return nil, err
	}
	if final.Err() != nil {
		return nil, final.Err()
	}
	res := final.Result()
	if res == nil {
		// Quit forced before the pipeline reported back.
		return nil, fmt.Errorf("translation interrupted before completion")
	}
	return res, nil
}

// handleInterrupts turns the first SIGINT into a graceful cancellation
// request and exits on the second. Bubble Tea handles Ctrl+C itself while
// the panel owns the terminal; this covers plain mode and SIGTERM.
func handleInterrupts(tok *translator.CancelToken) (stop func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	go func() {
		for range ch {
			if tok.Request() {
				slog.Warn("interrupt received, finishing the current call")
				continue
			}
			os.Exit(130)
		}
	}()
	return func() { signal.Stop(ch) }
}
