package analysis

import (
	"fmt"
	"strings"

	"github.com/G3rze/edaprofile/internal/dataset"
)

// Recommendation thresholds, in percent of rows.
const (
	dropOrImputeAbove = 30
)

// Recommendation returns the advice printed for a column's null percentage.
func Recommendation(nullPct float64) string {
	switch {
	case nullPct > dropOrImputeAbove:
		return "consider dropping or imputing this column"
	case nullPct > 0:
		return "evaluate imputation"
	default:
		return "no missing values"
	}
}

// NullReport renders the human-readable null analysis printed after a run.
func NullReport(ds *dataset.Dataset, nulls []ColumnNulls) string {
	if len(nulls) == 0 {
		return "No null data available\n"
	}
	var b strings.Builder
	b.WriteString("=== NULL VALUE ANALYSIS BY COLUMN ===\n\n")
	fmt.Fprintf(&b, "Total rows in dataset: %d\n", ds.Rows())
	fmt.Fprintf(&b, "Total columns: %d\n\n", len(ds.Columns))

	for _, c := range nulls {
		fmt.Fprintf(&b, "Column: %s (%s)\n", c.Column, c.DType)
		fmt.Fprintf(&b, "  - Null values: %d (%s%%)\n", c.NullCount, pct(c.NullPct))
		fmt.Fprintf(&b, "  - Non-null values: %d (%s%%)\n", c.NonNullCount, pct(c.NonNullPct))
		fmt.Fprintf(&b, "  - Unique values: %d\n", c.Unique)
		if len(c.Examples) > 0 {
			fmt.Fprintf(&b, "  - Examples: %s\n", strings.Join(c.Examples, ", "))
		} else {
			b.WriteString("  - Examples: ALL VALUES ARE NULL\n")
		}
		fmt.Fprintf(&b, "  - RECOMMENDATION: %s\n\n", Recommendation(c.NullPct))
	}
	return b.String()
}

func pct(p float64) string { return dataset.FormatNumber(p) }
