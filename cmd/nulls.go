package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/G3rze/edaprofile/internal/analysis"
	"github.com/G3rze/edaprofile/internal/loader"
)

var nullsFormat string

var nullsCmd = &cobra.Command{
	Use:   "nulls <file>",
	Short: "Print the per-column null analysis of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(nullsFormat)
		if err != nil {
			return err
		}
		ds, err := loader.Load(cmd.Context(), args[0], loaderOptions(settings()))
		if err != nil {
			return err
		}
		nulls := analysis.AnalyzeNulls(ds)
		out := cmd.OutOrStdout()
		if format != formatText {
			return writeEncoded(out, nulls, format)
		}
		fmt.Fprint(out, analysis.NullReport(ds, nulls))
		withNulls, complete := analysis.CountWithNulls(nulls)
		fmt.Fprintf(out, "Columns with nulls: %d\nComplete columns: %d\n", withNulls, complete)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nullsCmd)
	nullsCmd.Flags().StringVar(&nullsFormat, "format", formatText, "output format: text|json|yaml")
}
