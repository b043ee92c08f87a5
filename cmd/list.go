package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/G3rze/edaprofile/internal/manifest"
)

var listOut string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved run manifests",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := firstNonEmpty(listOut, settings().OutputDir)
		entries, err := manifest.List(dir)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "(no summaries)")
			return nil
		}
		for _, e := range entries {
			fmt.Fprintf(out, "- %s: %s (%d rows x %d columns, %d charts, run %s)\n",
				e.Name, e.Source, e.Rows, e.Columns, e.Charts, e.RunID)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listOut, "out", "", "manifest directory (default from config output_dir)")
}
