// Package report renders self-contained HTML profiling reports.
package report

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/G3rze/edaprofile/internal/analysis"
	"github.com/G3rze/edaprofile/internal/dataset"
	"github.com/G3rze/edaprofile/internal/errors"
	"github.com/G3rze/edaprofile/internal/utils"
)

// Mode selects how much of the profile a report includes.
type Mode string

const (
	Minimal     Mode = "minimal"
	Explorative Mode = "explorative"
)

// ParseMode accepts "minimal" or "explorative", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Minimal, Explorative:
		return m, nil
	}
	return "", fmt.Errorf("unknown report mode %q (want minimal or explorative)", s)
}

// Generator writes a report for a dataset and returns its path.
type Generator interface {
	Generate(ctx context.Context, ds *dataset.Dataset, title string, mode Mode) (string, error)
}

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var page = template.Must(template.New("report.html.tmpl").Funcs(template.FuncMap{
	"num":  func(f float64) string { return fmt.Sprintf("%.4g", f) },
	"pct":  func(f float64) string { return fmt.Sprintf("%.2f%%", f) },
	"corr": func(f float64) string { return fmt.Sprintf("%.3f", f) },
}).ParseFS(templateFS, "templates/report.html.tmpl"))

// HTML is the html/template Generator.
type HTML struct {
	// Dir receives report-<uuid>.html files.
	Dir     string
	Profile analysis.Options
	Logger  zerolog.Logger
	// Now is overridable in tests.
	Now func() time.Time
}

// NewHTML returns an HTML generator writing into dir.
func NewHTML(dir string, logger zerolog.Logger) *HTML {
	return &HTML{Dir: dir, Profile: analysis.DefaultOptions(), Logger: logger, Now: time.Now}
}

type columnView struct {
	analysis.ColumnSummary
	Anchor     string
	MissingPct float64
	Numeric    bool
	Outliers   bool
}

type pageView struct {
	Title         string
	Generated     string
	Mode          Mode
	Rows          int
	MissingCells  int
	MissingPct    float64
	DuplicateRows int
	Columns       []columnView
	Correlations  []analysis.PairCorr
	Header        []string
	Samples       [][]string
}

// Generate profiles ds and writes the report atomically.
func (h *HTML) Generate(ctx context.Context, ds *dataset.Dataset, title string, mode Mode) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if mode == "" {
		mode = Minimal
	}
	opt := h.Profile
	if mode == Explorative {
		opt.Correlations = true
		opt.Outliers = true
	}
	prof := analysis.NewProfile(ds, opt)
	view := h.view(prof, title, mode)

	out := filepath.Join(h.Dir, fmt.Sprintf("report-%s.html", uuid.NewString()))
	err := utils.WriteFileAtomic(out, func(w io.Writer) error {
		return page.Execute(w, view)
	})
	if err != nil {
		return "", errors.Wrap(errors.RenderFailed, err, "write report").AddContext("path", out)
	}
	h.Logger.Debug().Str("path", out).Str("mode", string(mode)).Int("columns", len(view.Columns)).Msg("report written")
	return out, nil
}

func (h *HTML) view(p *analysis.Profile, title string, mode Mode) pageView {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	v := pageView{
		Title:         title,
		Generated:     now().Format(time.RFC3339),
		Mode:          mode,
		Rows:          p.Rows,
		MissingCells:  p.MissingCells,
		MissingPct:    p.MissingPct(),
		DuplicateRows: p.DuplicateRows,
		Header:        p.Header,
		Samples:       p.Samples,
	}
	for i, c := range p.Cols {
		cv := columnView{
			ColumnSummary: c,
			Anchor:        fmt.Sprintf("%d", i),
			Numeric:       c.Kind == dataset.Numeric && c.NonNull > 0,
			Outliers:      c.OutlierThreshold > 0,
		}
		if total := c.NonNull + c.Missing; total > 0 {
			cv.MissingPct = float64(c.Missing) * 100 / float64(total)
		}
		v.Columns = append(v.Columns, cv)
	}
	if p.Corr != nil {
		v.Correlations = p.Corr.TopPairs(20)
	}
	return v
}
