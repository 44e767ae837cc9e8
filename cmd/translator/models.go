package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/2389-research/translator"
	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the supported models with pricing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "MODEL\tPROVIDER\tCONTEXT\tINPUT $/1K\tOUTPUT $/1K")
		for _, m := range translator.Models() {
			def := ""
			if m.ID == translator.DefaultModel {
				def = " (default)"
			}
			fmt.Fprintf(w, "%s%s\t%s\t%d\t$%.5f\t$%.5f\n",
				m.ID, def, m.Provider, m.ContextTokens, m.InputCostPer1K, m.OutputCostPer1K)
		}
		return w.Flush()
	},
}
