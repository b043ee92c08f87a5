package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G3rze/edaprofile/internal/dataset"
)

// num builds a numeric column; nil entries are nulls.
func num(name string, vals ...any) *dataset.Column {
	c := &dataset.Column{Name: name, Kind: dataset.Numeric}
	for _, v := range vals {
		switch x := v.(type) {
		case nil:
			c.Values = append(c.Values, dataset.Null())
		case int:
			c.Values = append(c.Values, dataset.NumberValue(float64(x)))
		case float64:
			c.Values = append(c.Values, dataset.NumberValue(x))
		}
	}
	return c
}

// text builds a text column; "" entries are nulls.
func text(name string, vals ...string) *dataset.Column {
	c := &dataset.Column{Name: name, Kind: dataset.Text}
	for _, v := range vals {
		if v == "" {
			c.Values = append(c.Values, dataset.Null())
			continue
		}
		c.Values = append(c.Values, dataset.TextValue(v))
	}
	return c
}

func mustDataset(t *testing.T, cols ...*dataset.Column) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New("test.csv", cols...)
	require.NoError(t, err)
	return ds
}

func TestAnalyzeNullsRanksByNullPct(t *testing.T) {
	ds := mustDataset(t,
		num("A", 1, nil, 3, nil, 5, nil, 7, 8, 9, 10),
		text("B", "a", "b", "c", "d", "e", "f", "g", "h", "i", "j"),
		num("C", 1, 2, 3, 4, 5, 6, 7, 8, 9, nil),
		text("D", "x", "x", "y", "y", "z", "z", "w", "w", "v", "v"),
	)
	got := AnalyzeNulls(ds)

	require.Len(t, got, 4)
	assert.Equal(t, []string{"A", "C", "B", "D"}, []string{got[0].Column, got[1].Column, got[2].Column, got[3].Column})
	assert.Equal(t, 3, got[0].NullCount)
	assert.Equal(t, 30.0, got[0].NullPct)
	assert.Equal(t, 7, got[0].NonNullCount)
	assert.Equal(t, 70.0, got[0].NonNullPct)
	assert.Equal(t, []string{"1.0", "3.0", "5.0"}, got[0].Examples)
	assert.Equal(t, 0.0, got[2].NullPct)
	assert.Equal(t, 100.0, got[2].NonNullPct)
}

func TestAnalyzeNullsInvariants(t *testing.T) {
	ds := mustDataset(t,
		num("n", 1, nil, nil),
		text("t", "", "q", ""),
		num("k", 1, 1, 2),
	)
	for _, c := range AnalyzeNulls(ds) {
		assert.Equal(t, ds.Rows(), c.NullCount+c.NonNullCount, c.Column)
		assert.InDelta(t, 100, c.NullPct+c.NonNullPct, 0.011, c.Column)
	}
}

func TestAnalyzeNullsRounding(t *testing.T) {
	ds := mustDataset(t, num("third", nil, 1, 2))
	got := AnalyzeNulls(ds)[0]
	assert.Equal(t, 33.33, got.NullPct)
	assert.Equal(t, 66.67, got.NonNullPct)
}

func TestAnalyzeNullsStableOnTies(t *testing.T) {
	ds := mustDataset(t,
		text("first", "a", ""),
		text("second", "", "b"),
		text("third", "c", "d"),
		text("fourth", "", "e"),
	)
	got := AnalyzeNulls(ds)
	names := make([]string, len(got))
	for i, g := range got {
		names[i] = g.Column
	}
	assert.Equal(t, []string{"first", "second", "fourth", "third"}, names)
}

func TestAnalyzeNullsZeroRows(t *testing.T) {
	ds := mustDataset(t, num("a"), text("b"))
	for _, c := range AnalyzeNulls(ds) {
		assert.Equal(t, 0.0, c.NullPct)
		assert.Equal(t, 100.0, c.NonNullPct)
		assert.Equal(t, 0, c.NullCount)
		assert.Empty(t, c.Examples)
	}
}

func TestAnalyzeNullsAllNullColumn(t *testing.T) {
	ds := mustDataset(t, text("empty", "", "", ""), num("full", 1, 2, 3))
	got := AnalyzeNulls(ds)
	require.Equal(t, "empty", got[0].Column)
	assert.NotNil(t, got[0].Examples)
	assert.Empty(t, got[0].Examples)
	assert.Equal(t, 0, got[0].Unique)
	assert.Equal(t, 100.0, got[0].NullPct)
}

func TestAnalyzeNullsUniqueExcludesNulls(t *testing.T) {
	ds := mustDataset(t, text("c", "a", "", "a", "b"))
	assert.Equal(t, 2, AnalyzeNulls(ds)[0].Unique)
}

func TestCountWithNullsAndBelow(t *testing.T) {
	ds := mustDataset(t,
		num("X", nil, nil, nil, nil, nil, nil, 1, 2, 3, 4),
		num("Y", nil, 1, 2, 3, 4, 5, 6, 7, 8, 9),
		num("Z", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
		num("H", nil, nil, nil, nil, nil, 1, 2, 3, 4, 5),
	)
	nulls := AnalyzeNulls(ds)
	withNulls, complete := CountWithNulls(nulls)
	assert.Equal(t, 3, withNulls)
	assert.Equal(t, 1, complete)
	assert.Equal(t, []string{"Y", "Z"}, Below(nulls, 50))
}

func TestNullReport(t *testing.T) {
	ds := mustDataset(t,
		num("score", nil, nil, 3, nil),
		text("name", "ann", "", "bo", "cy"),
		num("id", 1, 2, 3, 4),
		text("void", "", "", "", ""),
	)
	report := NullReport(ds, AnalyzeNulls(ds))

	assert.True(t, strings.HasPrefix(report, "=== NULL VALUE ANALYSIS BY COLUMN ===\n\n"))
	assert.Contains(t, report, "Total rows in dataset: 4\nTotal columns: 4\n")
	assert.Contains(t, report, "Column: void (object)\n  - Null values: 4 (100.0%)\n  - Non-null values: 0 (0.0%)\n")
	assert.Contains(t, report, "  - Examples: ALL VALUES ARE NULL\n")
	assert.Contains(t, report, "Column: score (float64)\n  - Null values: 3 (75.0%)")
	assert.Contains(t, report, "  - Examples: ann, bo, cy\n  - RECOMMENDATION: evaluate imputation\n")
	assert.Contains(t, report, "Column: id (float64)\n  - Null values: 0 (0.0%)\n  - Non-null values: 4 (100.0%)\n  - Unique values: 4\n  - Examples: 1.0, 2.0, 3.0\n  - RECOMMENDATION: no missing values\n")
	assert.Equal(t, "No null data available\n", NullReport(ds, nil))
}

func TestRecommendationThresholds(t *testing.T) {
	assert.Equal(t, "consider dropping or imputing this column", Recommendation(30.01))
	assert.Equal(t, "evaluate imputation", Recommendation(30))
	assert.Equal(t, "evaluate imputation", Recommendation(0.01))
	assert.Equal(t, "no missing values", Recommendation(0))
}
