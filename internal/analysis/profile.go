package analysis

import (
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/G3rze/edaprofile/internal/dataset"
)

// Options controls profiling behavior.
type Options struct {
	// SampleRows determines how many leading rows are kept for display.
	SampleRows int
	// TopN limits the top values kept per non-numeric column.
	TopN int
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset profiling.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		TopN:             10,
		OutlierThreshold: 3.5,
	}
}

// Profile summarizes a dataset column by column.
type Profile struct {
	Name          string
	Rows          int
	MissingCells  int
	DuplicateRows int
	Cols          []ColumnSummary
	Header        []string
	Samples       [][]string
	Corr          *CorrMatrix
}

// MissingPct is the share of null cells over all cells.
func (p *Profile) MissingPct() float64 {
	cells := p.Rows * len(p.Cols)
	if cells == 0 {
		return 0
	}
	return round2(float64(p.MissingCells) / float64(cells) * 100)
}

// ColumnSummary captures kind and statistics per column.
type ColumnSummary struct {
	Name    string
	Kind    dataset.Kind
	DType   string
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min    float64
	Max    float64
	Mean   float64
	Std    float64
	Q1     float64
	Median float64
	Q3     float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Non-numeric top values
	TopValues    []CategoryCount
	ExampleTexts []string
}

type CategoryCount struct {
	Value string
	Count int
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// NewProfile computes the profile of ds.
func NewProfile(ds *dataset.Dataset, opt Options) *Profile {
	p := &Profile{Name: ds.Name, Rows: ds.Rows(), Header: ds.Names()}
	sampleRows := opt.SampleRows
	if sampleRows <= 0 {
		sampleRows = 5
	}
	for i := 0; i < min(sampleRows, p.Rows); i++ {
		row := make([]string, len(ds.Columns))
		for j, c := range ds.Columns {
			row[j] = c.String(i)
		}
		p.Samples = append(p.Samples, row)
	}
	p.DuplicateRows = duplicateRows(ds)

	var numeric []*dataset.Column
	for _, c := range ds.Columns {
		s := summarize(c, opt)
		p.MissingCells += s.Missing
		p.Cols = append(p.Cols, s)
		if c.Kind == dataset.Numeric && s.NonNull > 0 {
			numeric = append(numeric, c)
		}
	}
	if opt.Correlations && len(numeric) >= 2 {
		p.Corr = correlations(numeric)
	}
	return p
}

func summarize(c *dataset.Column, opt Options) ColumnSummary {
	missing := c.NullCount()
	s := ColumnSummary{
		Name:    c.Name,
		Kind:    c.Kind,
		DType:   c.DType(),
		NonNull: c.Len() - missing,
		Missing: missing,
		Unique:  c.Distinct(),
	}
	if c.Kind != dataset.Numeric {
		topN := opt.TopN
		if topN <= 0 {
			topN = 10
		}
		s.TopValues = TopValues(c, topN)
		s.ExampleTexts = examples(c, MaxExamples)
		return s
	}

	vals := c.Floats()
	if len(vals) == 0 {
		return s
	}
	// Welford
	var n int
	var mean, m2 float64
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	for _, x := range vals {
		n++
		if x < s.Min {
			s.Min = x
		}
		if x > s.Max {
			s.Max = x
		}
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
	}
	s.Mean = mean
	if n > 1 {
		s.Std = math.Sqrt(m2 / float64(n-1))
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)

	if opt.Outliers && len(vals) >= 8 {
		median, mad := medianMAD(vals)
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		if mad > 0 {
			for _, v := range vals {
				az := math.Abs(0.6745 * (v - median) / mad)
				if az > thr {
					s.OutliersCount++
				}
				if az > s.OutliersMaxAbsZ {
					s.OutliersMaxAbsZ = az
				}
			}
		}
		s.OutlierThreshold = thr
	}
	return s
}

// TopValues returns the n most frequent non-null values of c, ties broken by
// value ascending.
func TopValues(c *dataset.Column, n int) []CategoryCount {
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			counts[c.String(i)]++
		}
	}
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if n > 0 && len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

// correlations computes pairwise-complete Pearson r for every column pair.
func correlations(cols []*dataset.Column) *CorrMatrix {
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			var xs, ys []float64
			for i := 0; i < cols[a].Len(); i++ {
				x, okx := cols[a].Float(i)
				y, oky := cols[b].Float(i)
				if okx && oky {
					xs = append(xs, x)
					ys = append(ys, y)
				}
			}
			var r float64
			if len(xs) >= 2 {
				r = stat.Correlation(xs, ys, nil)
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			r = math.Max(-1, math.Min(1, r))
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m
}

// TopPairs lists correlation pairs by |r| descending.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai := math.Abs(pairs[i].R)
		aj := math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}

func duplicateRows(ds *dataset.Dataset) int {
	seen := make(map[string]struct{}, ds.Rows())
	dups := 0
	parts := make([]string, len(ds.Columns))
	for i := 0; i < ds.Rows(); i++ {
		for j, c := range ds.Columns {
			parts[j] = c.Key(i)
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := seen[key]; ok {
			dups++
			continue
		}
		seen[key] = struct{}{}
	}
	return dups
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

// quantile interpolates linearly between closest ranks of sorted data.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
