package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/G3rze/edaprofile/internal/chart"
	cfgpkg "github.com/G3rze/edaprofile/internal/config"
	"github.com/G3rze/edaprofile/internal/loader"
	"github.com/G3rze/edaprofile/internal/pipeline"
	"github.com/G3rze/edaprofile/internal/report"
	"github.com/G3rze/edaprofile/internal/utils"
)

// Output formats accepted by --format.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", formatText:
		return formatText, nil
	case formatJSON, formatYAML:
		return f, nil
	case "yml":
		return formatYAML, nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use text|json|yaml)", s)
}

// formatForPath picks yaml for .yaml/.yml files and json otherwise.
func formatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	}
	return formatJSON
}

func marshal(v any, format string) ([]byte, error) {
	if format == formatYAML {
		b, err := yaml.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	}
	b, err := utils.PrettyJSON(v)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeEncoded(w io.Writer, v any, format string) error {
	b, err := marshal(v, format)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func loaderOptions(c *cfgpkg.Global) loader.Options {
	opts := loader.DefaultOptions()
	if len(c.NullTokens) > 0 {
		opts.NullTokens = c.NullTokens
	}
	if c.CategoricalRatio > 0 {
		opts.CategoricalRatio = c.CategoricalRatio
	}
	opts.Delimiter = c.Delimiter()
	opts.Sheet = c.ExcelSheet
	opts.ParseDates = c.ParseDates
	opts.Logger = logger
	return opts
}

// runFlags are the analysis flags shared by analyze and analyze-batch.
type runFlags struct {
	reportMode  string
	noReport    bool
	noCharts    bool
	chartsDir   string
	reportDir   string
	concurrency int
	groupColumn string
}

func (f *runFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.reportMode, "report-mode", "", "report mode: minimal|explorative (default from config)")
	fs.BoolVar(&f.noReport, "no-report", false, "skip the HTML report")
	fs.BoolVar(&f.noCharts, "no-charts", false, "skip chart generation")
	fs.StringVar(&f.chartsDir, "charts-dir", "", "directory for chart images (default from config)")
	fs.StringVar(&f.reportDir, "report-dir", "", "directory for HTML reports (default from config)")
	fs.IntVar(&f.concurrency, "concurrency", 0, "charts rendered in parallel (default from config)")
	fs.StringVar(&f.groupColumn, "group-column", "", "force the boxplot grouping column")
}

// analyzer builds a pipeline from config with flag overrides applied.
func (f *runFlags) analyzer(c *cfgpkg.Global, nullReport io.Writer) (*pipeline.Analyzer, error) {
	modeStr := c.ReportMode
	if f.reportMode != "" {
		modeStr = f.reportMode
	}
	mode, err := report.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	opts := pipeline.DefaultOptions()
	opts.Loader = loaderOptions(c)
	opts.ReportMode = mode
	opts.NoReport = f.noReport
	opts.NoCharts = f.noCharts
	opts.ChartsDir = firstNonEmpty(f.chartsDir, c.ChartsDir, opts.ChartsDir)
	opts.Concurrency = c.Concurrency
	if f.concurrency > 0 {
		opts.Concurrency = f.concurrency
	}
	opts.GroupColumn = f.groupColumn
	opts.MaxBoxplotGroups = c.MaxBoxplotGroups
	opts.DefaultNullThreshold = c.DefaultNullThreshold
	opts.NullReportWriter = nullReport

	charts := chart.New(chart.Options{Bins: c.HistogramBins, TopN: c.TopN})
	gen := report.NewHTML(firstNonEmpty(f.reportDir, c.ReportDir), logger)
	gen.Profile.TopN = c.TopN
	return pipeline.New(opts, charts, gen, logger), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
