package loader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/G3rze/edaprofile/internal/dataset"
)

// table is the raw string grid produced by the text-based readers.
type table struct {
	header []string
	rows   [][]string
}

// build infers a typed column for every header entry.
func (t table) build(name string, opts Options) (*dataset.Dataset, error) {
	names := uniqueHeader(t.header)
	cols := make([]*dataset.Column, len(names))
	cells := make([]string, len(t.rows))
	for j, colName := range names {
		for i, row := range t.rows {
			if j < len(row) {
				cells[i] = row[j]
			} else {
				cells[i] = ""
			}
		}
		cols[j] = inferColumn(colName, cells, opts)
	}
	return dataset.New(name, cols...)
}

// uniqueHeader names blank headers "Unnamed: N" and suffixes repeats with ".1", ".2", ...
func uniqueHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; seen[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

func isNullToken(s string, tokens []string) bool {
	for _, t := range tokens {
		if s == t {
			return true
		}
	}
	return false
}

// inferColumn picks the narrowest kind every present cell satisfies:
// numeric, then boolean, then (with ParseDates) temporal, otherwise text.
// Null tokens match the raw cell; surrounding blanks are only ignored when
// parsing numbers, booleans and dates. A column with no present cells is
// float64, and integers stay int64 only without nulls.
func inferColumn(name string, cells []string, opts Options) *dataset.Column {
	n := len(cells)
	present := make([]bool, n)
	trimmed := make([]string, n)
	nulls := 0
	for i, c := range cells {
		trimmed[i] = strings.TrimSpace(c)
		present[i] = c != "" && !isNullToken(c, opts.NullTokens)
		if !present[i] {
			nulls++
		}
	}

	if vals, integer, ok := inferNumeric(trimmed, present); ok {
		return &dataset.Column{Name: name, Kind: dataset.Numeric, Integer: integer && nulls == 0 && n > 0, Values: vals}
	}
	if nulls == 0 {
		if vals, ok := inferBool(trimmed); ok {
			return &dataset.Column{Name: name, Kind: dataset.Boolean, Values: vals}
		}
	}
	if opts.ParseDates {
		if vals, ok := inferTemporal(trimmed, present); ok {
			return &dataset.Column{Name: name, Kind: dataset.Temporal, Values: vals}
		}
	}

	vals := make([]dataset.Value, n)
	for i, c := range cells {
		if present[i] {
			vals[i] = dataset.TextValue(c)
		}
	}
	return &dataset.Column{Name: name, Kind: dataset.Text, Values: vals}
}

func inferNumeric(cells []string, present []bool) ([]dataset.Value, bool, bool) {
	vals := make([]dataset.Value, len(cells))
	integer := true
	for i, c := range cells {
		if !present[i] {
			continue
		}
		f, ok := parseNumber(c)
		if !ok {
			return nil, false, false
		}
		if n, err := strconv.ParseInt(c, 10, 64); err == nil {
			vals[i] = dataset.IntValue(n)
			continue
		}
		integer = false
		vals[i] = dataset.NumberValue(f)
	}
	return vals, integer, true
}

// parseNumber accepts decimal and scientific notation plus inf/nan spellings.
func parseNumber(s string) (float64, bool) {
	if strings.ContainsAny(s, "_xXpP") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func inferBool(cells []string) ([]dataset.Value, bool) {
	vals := make([]dataset.Value, len(cells))
	for i, c := range cells {
		switch c {
		case "True", "true", "TRUE":
			vals[i] = dataset.BoolValue(true)
		case "False", "false", "FALSE":
			vals[i] = dataset.BoolValue(false)
		default:
			return nil, false
		}
	}
	return vals, len(cells) > 0
}

func inferTemporal(cells []string, present []bool) ([]dataset.Value, bool) {
	vals := make([]dataset.Value, len(cells))
	found := false
	for i, c := range cells {
		if !present[i] {
			continue
		}
		t, ok := parseTimeMaybe(c)
		if !ok {
			return nil, false
		}
		vals[i] = dataset.TimeValue(t)
		found = true
	}
	return vals, found
}

func parseTimeMaybe(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
