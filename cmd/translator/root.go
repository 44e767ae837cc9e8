package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/2389-research/translator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	flagOutput        string
	flagNoEdit        bool
	flagNoCritique    bool
	flagCritiqueLoops int
	flagEstimateOnly  bool
	flagPlain         bool
	flagQuiet         bool
	flagVerbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "translator FILE LANGUAGE",
	Short: "Translate documents with a staged LLM pipeline",
	Long: `Translator runs markdown and text documents through a staged LLM
pipeline: an initial translation, an optional editing pass, and a number
of critique loops where the model reviews its own draft and applies the
feedback. YAML frontmatter fields like title and description are
translated alongside the body while everything else is preserved
verbatim.

FILE may be a glob pattern (e.g. "posts/**/*.md") to translate a batch.
LANGUAGE is a human-readable name like Spanish or French.

API keys are read from ANTHROPIC_API_KEY, OPENAI_API_KEY and
GEMINI_API_KEY depending on the chosen model.`,
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(flagVerbose, flagQuiet)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTranslate(cmd.Context(), args[0], args[1])
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	f := rootCmd.Flags()
	f.StringVarP(&flagOutput, "output", "o", "", "output file path (single input only)")
	f.StringP("model", "m", translator.DefaultModel, "model ID (see 'translator models')")
	f.BoolVar(&flagNoEdit, "no-edit", false, "skip the editing stage")
	f.BoolVar(&flagNoCritique, "no-critique", false, "skip the critique loops")
	f.IntVar(&flagCritiqueLoops, "critique-loops", 4, "number of critique loops (0-5)")
	f.BoolVar(&flagEstimateOnly, "estimate-only", false, "print the cost estimate and exit")
	f.BoolVar(&flagPlain, "plain", false, "disable the progress panel, log to stderr instead")

	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "only log warnings and errors")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "log debug detail")

	cobra.CheckErr(viper.BindPFlag("model", f.Lookup("model")))
	cobra.CheckErr(viper.BindPFlag("critique_loops", f.Lookup("critique-loops")))

	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(interpretCmd)
}

// initConfig wires the optional config file and TRANSLATOR_* environment
// variables. Flags take precedence over both.
func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".translator"))
	}
	viper.SetEnvPrefix("TRANSLATOR")
	viper.AutomaticEnv()

	// The config file is optional.
	_ = viper.ReadInConfig()
}

// setupLogging configures the global slog handler. Default level is Info;
// quiet raises it to Warn and verbose lowers it to Debug.
func setupLogging(verbose, quiet bool) {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelWarn
	case verbose:
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
