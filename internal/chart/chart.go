// Package chart renders PNG charts for dataset columns with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/G3rze/edaprofile/internal/analysis"
	"github.com/G3rze/edaprofile/internal/dataset"
	"github.com/G3rze/edaprofile/internal/errors"
	"github.com/G3rze/edaprofile/internal/utils"
)

// Artifact kinds reported in summaries.
const (
	KindHistogram = "histogram"
	KindBars      = "bars"
	KindBoxplot   = "boxplot"
)

// Renderer produces chart images; each method returns the written path.
type Renderer interface {
	Histogram(ds *dataset.Dataset, column, out string) (string, error)
	Bars(ds *dataset.Dataset, column, out string) (string, error)
	Boxplot(ds *dataset.Dataset, value, group, out string) (string, error)
}

// Options controls chart geometry.
type Options struct {
	Bins   int
	TopN   int
	Width  vg.Length
	Height vg.Length
}

// DefaultOptions matches a 10x6 inch figure with 30 histogram bins.
func DefaultOptions() Options {
	return Options{Bins: 30, TopN: 10, Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

// Plotter is the gonum/plot Renderer.
type Plotter struct {
	opts Options
}

// New returns a Plotter, filling zero options with defaults.
func New(opts Options) *Plotter {
	def := DefaultOptions()
	if opts.Bins <= 0 {
		opts.Bins = def.Bins
	}
	if opts.TopN <= 0 {
		opts.TopN = def.TopN
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	return &Plotter{opts: opts}
}

var (
	fill    = color.RGBA{R: 0x2c, G: 0x7f, B: 0xb8, A: 0xff}
	outlier = color.RGBA{R: 0xe3, G: 0x4a, B: 0x33, A: 0xff}
)

func renderErr(column, msg string, cause error) *errors.Error {
	var e *errors.Error
	if cause != nil {
		e = errors.Wrap(errors.RenderFailed, cause, msg)
	} else {
		e = errors.New(errors.RenderFailed, msg)
	}
	return e.AddContext("column", column)
}

func column(ds *dataset.Dataset, name string) (*dataset.Column, error) {
	c := ds.Column(name)
	if c == nil {
		return nil, renderErr(name, fmt.Sprintf("column %q not found", name), nil)
	}
	return c, nil
}

// plottable reports whether a column can be drawn on a numeric axis.
// Booleans plot as 0 and 1.
func plottable(c *dataset.Column) bool {
	return c.Kind == dataset.Numeric || c.Kind == dataset.Boolean
}

// valueAt returns the finite numeric value of row i, if any.
func valueAt(c *dataset.Column, i int) (float64, bool) {
	if c.Kind == dataset.Boolean {
		if c.IsNull(i) {
			return 0, false
		}
		if c.Values[i].Bool {
			return 1, true
		}
		return 0, true
	}
	v, ok := c.Float(i)
	if !ok || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Histogram draws the distribution of a numeric or boolean column.
func (p *Plotter) Histogram(ds *dataset.Dataset, name, out string) (string, error) {
	c, err := column(ds, name)
	if err != nil {
		return "", err
	}
	if !plottable(c) {
		return "", renderErr(name, fmt.Sprintf("histogram needs a numeric column, %q is %s", name, c.Kind), nil)
	}
	var vals []float64
	for i := 0; i < c.Len(); i++ {
		if v, ok := valueAt(c, i); ok {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return "", renderErr(name, fmt.Sprintf("column %q has no values to plot", name), nil)
	}

	pl := plot.New()
	pl.Title.Text = "Distribution of " + name
	pl.X.Label.Text = name
	pl.Y.Label.Text = "Frequency"
	h, err := plotter.NewHist(plotter.Values(vals), p.opts.Bins)
	if err != nil {
		return "", renderErr(name, "build histogram", err)
	}
	h.FillColor = fill
	h.LineStyle.Color = color.White
	pl.Add(h)
	return p.save(pl, name, out)
}

// Bars draws the most frequent values of a column as horizontal bars,
// largest on top.
func (p *Plotter) Bars(ds *dataset.Dataset, name, out string) (string, error) {
	c, err := column(ds, name)
	if err != nil {
		return "", err
	}
	tops := analysis.TopValues(c, p.opts.TopN)
	if len(tops) == 0 {
		return "", renderErr(name, fmt.Sprintf("column %q has no values to plot", name), nil)
	}
	counts := make(plotter.Values, len(tops))
	labels := make([]string, len(tops))
	for i, tv := range tops {
		j := len(tops) - 1 - i
		counts[j] = float64(tv.Count)
		labels[j] = analysis.Truncate(tv.Value, 40)
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Top %d categories in %s", p.opts.TopN, name)
	pl.X.Label.Text = "Count"
	bars, err := plotter.NewBarChart(counts, vg.Points(18))
	if err != nil {
		return "", renderErr(name, "build bar chart", err)
	}
	bars.Horizontal = true
	bars.Color = fill
	bars.LineStyle.Width = 0
	pl.Add(bars)
	pl.NominalY(labels...)
	return p.save(pl, name, out)
}

// Boxplot draws one box of value per distinct group, in order of first
// appearance. Rows with a null value or group are skipped.
func (p *Plotter) Boxplot(ds *dataset.Dataset, value, group, out string) (string, error) {
	vc, err := column(ds, value)
	if err != nil {
		return "", err
	}
	gc, err := column(ds, group)
	if err != nil {
		return "", err
	}
	if !plottable(vc) {
		return "", renderErr(value, fmt.Sprintf("boxplot needs a numeric column, %q is %s", value, vc.Kind), nil)
	}

	var order []string
	byGroup := make(map[string]plotter.Values)
	for i := 0; i < vc.Len(); i++ {
		v, ok := valueAt(vc, i)
		if !ok || gc.IsNull(i) {
			continue
		}
		key := gc.String(i)
		if _, seen := byGroup[key]; !seen {
			order = append(order, key)
		}
		byGroup[key] = append(byGroup[key], v)
	}
	if len(order) == 0 {
		return "", renderErr(value, fmt.Sprintf("no %q values with a %q group", value, group), nil)
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("Distribution of %s by %s", value, group)
	pl.X.Label.Text = group
	pl.Y.Label.Text = value
	pl.X.Tick.Label.Rotation = math.Pi / 4
	width := vg.Points(20)
	labels := make([]string, len(order))
	for i, key := range order {
		b, err := plotter.NewBoxPlot(width, float64(i), byGroup[key])
		if err != nil {
			return "", renderErr(value, "build boxplot", err)
		}
		b.FillColor = fill
		b.GlyphStyle.Color = outlier
		pl.Add(b)
		labels[i] = analysis.Truncate(key, 30)
	}
	pl.NominalX(labels...)
	return p.save(pl, value, out)
}

func (p *Plotter) save(pl *plot.Plot, column, out string) (string, error) {
	wt, err := pl.WriterTo(p.opts.Width, p.opts.Height, "png")
	if err != nil {
		return "", renderErr(column, "create png canvas", err)
	}
	err = utils.WriteFileAtomic(out, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
	if err != nil {
		return "", renderErr(column, "write chart", err).AddContext("path", out)
	}
	return out, nil
}
