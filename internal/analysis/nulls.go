// Package analysis computes per-column statistics over a loaded dataset:
// null counts, numeric profiles, correlations and descriptive tables.
package analysis

import (
	"math"
	"sort"

	"github.com/G3rze/edaprofile/internal/dataset"
)

// ColumnNulls is the null report for a single column.
type ColumnNulls struct {
	Column       string   `json:"column" yaml:"column"`
	DType        string   `json:"dtype" yaml:"dtype"`
	NullCount    int      `json:"null_count" yaml:"null_count"`
	NullPct      float64  `json:"null_pct" yaml:"null_pct"`
	NonNullCount int      `json:"non_null_count" yaml:"non_null_count"`
	NonNullPct   float64  `json:"non_null_pct" yaml:"non_null_pct"`
	Unique       int      `json:"unique" yaml:"unique"`
	Examples     []string `json:"examples" yaml:"examples"`
}

// MaxExamples is the number of sample values kept per column.
const MaxExamples = 3

// AnalyzeNulls reports nulls for every column, ordered by null percentage
// descending. Columns with equal percentages keep their dataset order.
func AnalyzeNulls(ds *dataset.Dataset) []ColumnNulls {
	rows := ds.Rows()
	out := make([]ColumnNulls, 0, len(ds.Columns))
	for _, col := range ds.Columns {
		nulls := col.NullCount()
		pct := 0.0
		if rows > 0 {
			pct = round2(float64(nulls) / float64(rows) * 100)
		}
		out = append(out, ColumnNulls{
			Column:       col.Name,
			DType:        col.DType(),
			NullCount:    nulls,
			NullPct:      pct,
			NonNullCount: rows - nulls,
			NonNullPct:   round2(100 - pct),
			Unique:       col.Distinct(),
			Examples:     examples(col, MaxExamples),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].NullPct > out[j].NullPct })
	return out
}

func examples(col *dataset.Column, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < col.Len() && len(out) < n; i++ {
		if !col.IsNull(i) {
			out = append(out, col.String(i))
		}
	}
	return out
}

// CountWithNulls returns how many columns have at least one null and how many have none.
func CountWithNulls(nulls []ColumnNulls) (withNulls, complete int) {
	for _, n := range nulls {
		if n.NullCount > 0 {
			withNulls++
		} else {
			complete++
		}
	}
	return withNulls, complete
}

// Below lists, in report order, the columns whose null percentage is strictly under threshold.
func Below(nulls []ColumnNulls, threshold float64) []string {
	var out []string
	for _, n := range nulls {
		if n.NullPct < threshold {
			out = append(out, n.Column)
		}
	}
	return out
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
