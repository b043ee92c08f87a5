// Package pipeline runs the load, null analysis, report and chart steps for one
// file and assembles the run summary.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/G3rze/edaprofile/internal/analysis"
	"github.com/G3rze/edaprofile/internal/chart"
	"github.com/G3rze/edaprofile/internal/dataset"
	"github.com/G3rze/edaprofile/internal/errors"
	"github.com/G3rze/edaprofile/internal/loader"
	"github.com/G3rze/edaprofile/internal/logging"
	"github.com/G3rze/edaprofile/internal/report"
	"github.com/G3rze/edaprofile/internal/utils"
)

// Options configures a run.
type Options struct {
	Loader      loader.Options
	ChartsDir   string
	ReportMode  report.Mode
	NoReport    bool
	NoCharts    bool
	Concurrency int
	// GroupColumn forces the boxplot grouping column; it must still satisfy
	// MaxBoxplotGroups.
	GroupColumn          string
	MaxBoxplotGroups     int
	DefaultNullThreshold float64
	// NullReportWriter receives the null text report when set.
	NullReportWriter io.Writer
}

// DefaultOptions mirrors the built-in configuration.
func DefaultOptions() Options {
	return Options{
		Loader:               loader.DefaultOptions(),
		ChartsDir:            "graficos",
		ReportMode:           report.Minimal,
		Concurrency:          1,
		MaxBoxplotGroups:     10,
		DefaultNullThreshold: 50,
	}
}

// Stats are the dataset-level counts of a run.
type Stats struct {
	Rows             int `json:"rows" yaml:"rows"`
	Columns          int `json:"columns" yaml:"columns"`
	ColumnsWithNulls int `json:"columns_with_nulls" yaml:"columns_with_nulls"`
	CompleteColumns  int `json:"complete_columns" yaml:"complete_columns"`
}

// ChartArtifact is one generated chart image.
type ChartArtifact struct {
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path" yaml:"path"`
}

// Paths lists the artifacts written by a run.
type Paths struct {
	Report string                   `json:"report,omitempty" yaml:"report,omitempty"`
	Charts map[string]ChartArtifact `json:"charts" yaml:"charts"`
}

// Summary is the result of one run.
type Summary struct {
	RunID    string                 `json:"run_id" yaml:"run_id"`
	Metadata loader.FileMetadata    `json:"metadata" yaml:"metadata"`
	Stats    Stats                  `json:"stats" yaml:"stats"`
	Nulls    []analysis.ColumnNulls `json:"nulls" yaml:"nulls"`
	Charts   []string               `json:"charts" yaml:"charts"`
	Paths    Paths                  `json:"paths" yaml:"paths"`
}

// Analyzer wires the loader, renderer and report generator together.
type Analyzer struct {
	Options   Options
	Renderer  chart.Renderer
	Generator report.Generator
	Logger    zerolog.Logger
}

// New returns an Analyzer. A nil renderer or generator disables that step.
func New(opts Options, r chart.Renderer, g report.Generator, logger zerolog.Logger) *Analyzer {
	return &Analyzer{Options: opts, Renderer: r, Generator: g, Logger: logging.Component(logger, "pipeline")}
}

// Run analyzes the file at path. columns selects the charted columns; when
// empty every column below DefaultNullThreshold percent nulls is used. A nil
// summary means the file could not be loaded; the cause is logged.
func (a *Analyzer) Run(ctx context.Context, path string, columns []string) *Summary {
	log := a.Logger.With().Str("path", path).Logger()

	lopts := a.Options.Loader
	lopts.Logger = a.Logger
	ds, err := loader.Load(ctx, path, lopts)
	if err != nil {
		log.Error().Err(err).Str("code", errors.GetCode(err)).Msg("load failed")
		return nil
	}
	meta, err := loader.Stat(path)
	if err != nil {
		log.Error().Err(err).Str("code", errors.GetCode(err)).Msg("stat failed")
		return nil
	}

	nulls := analysis.AnalyzeNulls(ds)
	withNulls, complete := analysis.CountWithNulls(nulls)
	if a.Options.NullReportWriter != nil {
		if _, err := io.WriteString(a.Options.NullReportWriter, analysis.NullReport(ds, nulls)); err != nil {
			log.Warn().Err(err).Msg("write null report")
		}
	}

	s := &Summary{
		RunID:    uuid.NewString(),
		Metadata: meta,
		Stats: Stats{
			Rows:             ds.Rows(),
			Columns:          len(ds.Columns),
			ColumnsWithNulls: withNulls,
			CompleteColumns:  complete,
		},
		Nulls:  nulls,
		Charts: []string{},
		Paths:  Paths{Charts: map[string]ChartArtifact{}},
	}

	if !a.Options.NoReport && a.Generator != nil {
		title := "Analysis Report - " + meta.Name
		out, err := a.Generator.Generate(ctx, ds, title, a.Options.ReportMode)
		if err != nil {
			log.Error().Err(err).Str("code", errors.GetCode(err)).Msg("report generation failed")
		} else {
			s.Paths.Report = out
			log.Info().Str("report", out).Msg("report generated")
		}
	}

	if !a.Options.NoCharts && a.Renderer != nil {
		if len(columns) == 0 {
			columns = analysis.Below(nulls, a.Options.DefaultNullThreshold)
		}
		for _, res := range a.charts(ctx, ds, columns) {
			s.Charts = append(s.Charts, res.key)
			s.Paths.Charts[res.key] = ChartArtifact{Kind: res.kind, Path: res.path}
		}
	}

	log.Info().
		Str("run_id", s.RunID).
		Int("rows", s.Stats.Rows).
		Int("columns", s.Stats.Columns).
		Int("charts", len(s.Charts)).
		Msg("analysis complete")
	return s
}

type chartJob struct {
	key, kind string
	value     string
	group     string
	out       string
}

type chartResult struct {
	key, kind, path string
}

// plan returns the chart jobs for columns in generation order. Numeric and
// boolean columns get a histogram plus a boxplot against the grouping column;
// everything else gets bars. Repeated columns are planned once. Chart keys and
// output files that would collide get a __N suffix.
func (a *Analyzer) plan(ds *dataset.Dataset, columns []string) []chartJob {
	group := GroupingColumn(ds, a.Options.GroupColumn, a.Options.MaxBoxplotGroups)
	dir := a.Options.ChartsDir
	planned := make(map[string]bool, len(columns))
	keys := make(map[string]bool, 2*len(columns))
	files := make(map[string]bool, 2*len(columns))
	job := func(key, kind, value, grp string) chartJob {
		key = claim(keys, key, false)
		file := claim(files, utils.SafeFileName(key), true)
		return chartJob{key: key, kind: kind, value: value, group: grp, out: filepath.Join(dir, file+".png")}
	}

	var jobs []chartJob
	for _, name := range columns {
		if planned[name] {
			continue
		}
		c := ds.Column(name)
		if c == nil {
			a.Logger.Warn().Str("column", name).Msg("column not found, skipping")
			continue
		}
		planned[name] = true
		if c.Kind != dataset.Numeric && c.Kind != dataset.Boolean {
			jobs = append(jobs, job(name, chart.KindBars, name, ""))
			continue
		}
		jobs = append(jobs, job(name, chart.KindHistogram, name, ""))
		if group != "" {
			jobs = append(jobs, job(fmt.Sprintf("%s_by_%s", name, group), chart.KindBoxplot, name, group))
		}
	}
	return jobs
}

// claim records base in used, appending __2, __3, ... until it is free.
// Files compare case-insensitively.
func claim(used map[string]bool, base string, fold bool) string {
	id := func(s string) string {
		if fold {
			return strings.ToLower(s)
		}
		return s
	}
	name := base
	for n := 2; used[id(name)]; n++ {
		name = fmt.Sprintf("%s__%d", base, n)
	}
	used[id(name)] = true
	return name
}

func (a *Analyzer) charts(ctx context.Context, ds *dataset.Dataset, columns []string) []chartResult {
	jobs := a.plan(ds, columns)
	done := make([]*chartResult, len(jobs))

	limit := a.Options.Concurrency
	if limit < 1 {
		limit = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := a.render(ds, job)
			if err != nil {
				a.Logger.Error().Err(err).Str("code", errors.GetCode(err)).Str("chart", job.key).Msg("chart generation failed")
				return nil
			}
			a.Logger.Debug().Str("chart", job.key).Str("path", path).Msg("chart written")
			done[i] = &chartResult{key: job.key, kind: job.kind, path: path}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.Logger.Warn().Err(err).Msg("chart generation interrupted")
	}

	out := make([]chartResult, 0, len(jobs))
	for _, r := range done {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

func (a *Analyzer) render(ds *dataset.Dataset, job chartJob) (string, error) {
	switch job.kind {
	case chart.KindHistogram:
		return a.Renderer.Histogram(ds, job.value, job.out)
	case chart.KindBoxplot:
		return a.Renderer.Boxplot(ds, job.value, job.group, job.out)
	default:
		return a.Renderer.Bars(ds, job.value, job.out)
	}
}

// GroupingColumn picks the boxplot grouping column: forced when set, else the
// first text or categorical column. Either way its unique count, nulls
// included once, must not exceed limit. Empty means no boxplots.
func GroupingColumn(ds *dataset.Dataset, forced string, limit int) string {
	if limit < 1 {
		limit = 10
	}
	if forced != "" {
		c := ds.Column(forced)
		if c == nil || c.Unique() > limit {
			return ""
		}
		return forced
	}
	for _, c := range ds.Columns {
		if c.IsTextual() && c.Unique() <= limit {
			return c.Name
		}
	}
	return ""
}
