package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	cfgpkg "github.com/G3rze/edaprofile/internal/config"
	"github.com/G3rze/edaprofile/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	logFile string

	// Loaded configuration
	cfg *cfgpkg.Global

	logger   = zerolog.Nop()
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "edaprofile",
	Short: "edaprofile: null analysis, charts and profiling reports for tabular files",
	Long: `edaprofile loads a CSV, Excel, Parquet or JSON file, reports missing values per column,
renders histograms, bar charts and boxplots, and writes an HTML profiling report.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	err := rootCmd.Execute()
	_ = closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.edaprofile/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write JSON logs to this file instead of stderr")
}

func loadConfig() {
	_ = closeLog()
	l, closer, err := logging.New(logging.Options{Debug: debug, File: logFile})
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to open log file: %v\n", err)
		l, closer, _ = logging.New(logging.Options{Debug: debug})
	}
	logger, closeLog = l, closer

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	logger.Debug().Str("config", cfgFile).Msg("configuration loaded")
}

// settings returns the loaded configuration or the built-in defaults.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return cfgpkg.Default()
}
