package cmd

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/G3rze/edaprofile/internal/manifest"
	"github.com/G3rze/edaprofile/internal/pipeline"
	"github.com/G3rze/edaprofile/internal/utils"
)

var (
	anaColumns    []string
	anaFormat     string
	anaOutputPath string
	anaSave       bool
	anaFlags      runFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze nulls, render charts and write a profiling report for one file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, err := parseFormat(anaFormat)
		if err != nil {
			return err
		}
		c := settings()
		out := cmd.OutOrStdout()

		var nullReport io.Writer
		if format == formatText {
			nullReport = out
		}
		a, err := anaFlags.analyzer(c, nullReport)
		if err != nil {
			return err
		}
		s := a.Run(cmd.Context(), path, anaColumns)
		if s == nil {
			return fmt.Errorf("analysis of %s failed (see log for details)", path)
		}

		if format == formatText {
			printSummary(out, s)
		} else if err := writeEncoded(out, s, format); err != nil {
			return err
		}

		if anaOutputPath != "" {
			b, err := marshal(s, formatForPath(anaOutputPath))
			if err != nil {
				return err
			}
			if err := utils.SafeWriteFile(anaOutputPath, b); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			if format == formatText {
				fmt.Fprintf(out, "✓ Wrote summary to %s\n", anaOutputPath)
			}
		}
		if anaSave {
			saved, err := manifest.New(path, s).Save(c.OutputDir)
			if err != nil {
				return err
			}
			if format == formatText {
				fmt.Fprintf(out, "✓ Saved manifest %s\n", saved)
			}
		}
		return nil
	},
}

// printSummary writes the short console summary after the null report.
func printSummary(w io.Writer, s *pipeline.Summary) {
	fmt.Fprintln(w, "=== SUMMARY ===")
	fmt.Fprintf(w, "File: %s (%.2f MB)\n", s.Metadata.Name, s.Metadata.SizeMB)
	fmt.Fprintf(w, "Rows: %d, Columns: %d\n", s.Stats.Rows, s.Stats.Columns)
	fmt.Fprintf(w, "Columns with nulls: %d\n", s.Stats.ColumnsWithNulls)
	fmt.Fprintf(w, "Complete columns: %d\n", s.Stats.CompleteColumns)

	if len(s.Nulls) > 0 {
		fmt.Fprintln(w, "\nTop 5 columns by null percentage:")
		data := pterm.TableData{{"Column", "Type", "Nulls", "Null %"}}
		for i, n := range s.Nulls {
			if i == 5 {
				break
			}
			data = append(data, []string{n.Column, n.DType, fmt.Sprint(n.NullCount), fmt.Sprintf("%.2f%%", n.NullPct)})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			logger.Warn().Err(err).Msg("render null table")
		} else {
			fmt.Fprintln(w, table)
		}
	}

	if s.Paths.Report != "" {
		fmt.Fprintf(w, "✓ Report: %s\n", s.Paths.Report)
	}
	if len(s.Charts) > 0 {
		fmt.Fprintf(w, "✓ Charts (%d):\n", len(s.Charts))
		for _, k := range s.Charts {
			art := s.Paths.Charts[k]
			fmt.Fprintf(w, "  - %s [%s] %s\n", k, art.Kind, art.Path)
		}
	} else {
		fmt.Fprintln(w, "⚠ No charts generated")
	}
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringSliceVar(&anaColumns, "columns", nil, "comma-separated columns to chart (default: columns under the null threshold)")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", formatText, "stdout format: text|json|yaml")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "also write the summary to this file (.json or .yaml)")
	analyzeCmd.Flags().BoolVar(&anaSave, "save", false, "save a run manifest into output_dir")
	anaFlags.register(analyzeCmd)
}
