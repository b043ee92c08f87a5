package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/G3rze/edaprofile/internal/analysis"
	"github.com/G3rze/edaprofile/internal/loader"
)

var (
	descProfile    bool
	descSampleRows int
	descCorr       bool
	descOutliers   bool
)

var describeCmd = &cobra.Command{
	Use:   "describe <file>",
	Short: "Print descriptive statistics for every column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := settings()
		ds, err := loader.Load(cmd.Context(), args[0], loaderOptions(c))
		if err != nil {
			return err
		}
		table, err := analysis.Describe(ds)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, table)
		if !descProfile {
			return nil
		}

		opt := analysis.DefaultOptions()
		opt.SampleRows = descSampleRows
		opt.TopN = c.TopN
		opt.Correlations = descCorr
		opt.Outliers = descOutliers
		fmt.Fprint(out, analysis.NewProfile(ds, opt).Markdown())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
	describeCmd.Flags().BoolVar(&descProfile, "profile", false, "append the column profile (quartiles, top values, sample rows)")
	describeCmd.Flags().IntVar(&descSampleRows, "sample-rows", 5, "number of sample rows in the profile")
	describeCmd.Flags().BoolVar(&descCorr, "correlations", false, "include Pearson correlations among numeric columns")
	describeCmd.Flags().BoolVar(&descOutliers, "outliers", true, "include robust outlier counts (MAD)")
}
