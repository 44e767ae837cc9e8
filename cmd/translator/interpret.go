package main

import (
	"fmt"
	"os"

	"github.com/2389-research/translator"
	"github.com/2389-research/translator/interpret"
	"github.com/2389-research/translator/runlog"
	"github.com/spf13/cobra"
)

var interpretModel string

var interpretCmd = &cobra.Command{
	Use:   "interpret LOGFILE",
	Short: "Write a plain-language narrative of a run log",
	Long: `Interpret reads a .log.json file produced by a translation run and asks
a model to summarize what happened: stages, token usage, cost, retries
and failures. The narrative is written next to the log file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logPath := args[0]

		info, ok := translator.LookupModel(interpretModel)
		if !ok {
			return fmt.Errorf("unknown model %q, run 'translator models' for the catalog", interpretModel)
		}

		run, err := runlog.Load(logPath)
		if err != nil {
			return err
		}

		provider, err := resolveProvider(cmd.Context(), info, keysFromEnv())
		if err != nil {
			return err
		}

		narrative, err := interpret.Narrative(cmd.Context(), provider, info.ID, run)
		if err != nil {
			return err
		}

		outPath := interpret.NarrativePath(logPath)
		if err := os.WriteFile(outPath, []byte(narrative), 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", outPath)
		return nil
	},
}

func init() {
	interpretCmd.Flags().StringVarP(&interpretModel, "model", "m", translator.DefaultInterpretModel, "model used to write the narrative")
}
