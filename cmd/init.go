package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/G3rze/edaprofile/internal/config"
	"github.com/G3rze/edaprofile/internal/utils"
)

var (
	initForce     bool
	initChartsDir string
	initOutputDir string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file and create the output directories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := cfgpkg.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		// Refuse to overwrite an existing config.
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config already exists at %s; use --force to overwrite", path)
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat config: %w", err)
		}

		c := cfgpkg.Default()
		if initChartsDir != "" {
			c.ChartsDir = initChartsDir
		}
		if initOutputDir != "" {
			c.OutputDir = initOutputDir
		}
		for _, dir := range []string{c.ChartsDir, c.OutputDir} {
			expanded, err := utils.ExpandHome(dir)
			if err != nil {
				return err
			}
			if err := utils.EnsureDir(expanded); err != nil {
				return err
			}
		}
		if err := cfgpkg.Save(c, path); err != nil {
			return err
		}
		cfg = c
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Config written: %s\n", path)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Charts directory: %s\n", c.ChartsDir)
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Summaries directory: %s\n", c.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	initCmd.Flags().StringVar(&initChartsDir, "charts-dir", "", "charts directory to record and create")
	initCmd.Flags().StringVar(&initOutputDir, "output-dir", "", "summaries directory to record and create")
}
