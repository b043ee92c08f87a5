package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/G3rze/edaprofile/internal/manifest"
	"github.com/G3rze/edaprofile/internal/utils"
)

var (
	abOut   string
	abQuiet bool
	abFlags runFlags
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple files and save one summary manifest per file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}

		c := settings()
		outDir := firstNonEmpty(abOut, c.OutputDir)
		a, err := abFlags.analyzer(c, nil)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		total := len(files)
		var failed []string
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			s := a.Run(cmd.Context(), path, nil)
			if s == nil {
				failed = append(failed, path)
				if !abQuiet {
					fmt.Fprintf(out, "⚠ Warning: skipped %s (see log for details)\n", path)
				}
				continue
			}
			base := filepath.Base(path)
			want := filepath.Join(outDir, utils.SafeFileName(strings.TrimSuffix(base, filepath.Ext(base)))+manifest.Suffix)
			saved, err := manifest.New(path, s).Save(outDir)
			if err != nil {
				return err
			}
			if !abQuiet {
				if saved != want {
					fmt.Fprintf(out, "⚠ Detected existing summary, writing to %s to avoid overwrite.\n", filepath.Base(saved))
				}
				fmt.Fprintf(out, "✓ %s: %d rows, %d columns with nulls, %d charts -> %s\n",
					base, s.Stats.Rows, s.Stats.ColumnsWithNulls, len(s.Charts), saved)
			}
		}
		if len(failed) > 0 {
			return fmt.Errorf("%d of %d files failed: %s", len(failed), total, strings.Join(failed, ", "))
		}
		return nil
	},
}

// expandInputs resolves globs, keeping literal paths that exist, deduplicated
// and sorted.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOut, "out", "", "directory for summary manifests (default from config output_dir)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	abFlags.register(analyzeBatchCmd)
}
