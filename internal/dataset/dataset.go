// Package dataset holds the in-memory tabular model shared by the loader,
// analyzers, report and chart generators. A Dataset is treated as read-only
// once the loader returns it.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// Kind is the declared data kind of a column.
type Kind int

const (
	Numeric Kind = iota
	Text
	Categorical
	Temporal
	Boolean
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Text:
		return "text"
	case Categorical:
		return "categorical"
	case Temporal:
		return "temporal"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a single nullable cell. Only the field matching the column kind is meaningful.
// Integer columns carry the exact value in Int; Num holds its float64 image.
type Value struct {
	Valid bool
	Num   float64
	Int   int64
	Str   string
	Time  time.Time
	Bool  bool
}

func Null() Value                 { return Value{} }
func NumberValue(f float64) Value { return Value{Valid: true, Num: f} }
func IntValue(i int64) Value      { return Value{Valid: true, Num: float64(i), Int: i} }
func TextValue(s string) Value    { return Value{Valid: true, Str: s} }
func TimeValue(t time.Time) Value { return Value{Valid: true, Time: t} }
func BoolValue(b bool) Value      { return Value{Valid: true, Bool: b} }

// Column is a named, typed sequence of cells.
//
// Categorical columns keep their payload in Levels/Codes instead of Values;
// a code of -1 marks a null row.
type Column struct {
	Name    string
	Kind    Kind
	Integer bool
	Values  []Value

	Levels []string
	Codes  []int32
}

// Len returns the row count of the column.
func (c *Column) Len() int {
	if c.Kind == Categorical {
		return len(c.Codes)
	}
	return len(c.Values)
}

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool {
	if c.Kind == Categorical {
		return c.Codes[i] < 0
	}
	v := c.Values[i]
	if !v.Valid {
		return true
	}
	return c.Kind == Numeric && math.IsNaN(v.Num)
}

// NullCount counts missing rows.
func (c *Column) NullCount() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			n++
		}
	}
	return n
}

// Float returns the numeric payload of row i and whether it is present.
func (c *Column) Float(i int) (float64, bool) {
	if c.Kind != Numeric || c.IsNull(i) {
		return 0, false
	}
	return c.Values[i].Num, true
}

// Floats returns every non-null numeric value in row order.
func (c *Column) Floats() []float64 {
	if c.Kind != Numeric {
		return nil
	}
	out := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

// String returns the canonical string form of row i, or "" for nulls.
func (c *Column) String(i int) string {
	if c.IsNull(i) {
		return ""
	}
	switch c.Kind {
	case Categorical:
		return c.Levels[c.Codes[i]]
	case Numeric:
		if c.Integer {
			return strconv.FormatInt(c.Values[i].Int, 10)
		}
		return FormatNumber(c.Values[i].Num)
	case Temporal:
		return FormatTime(c.Values[i].Time)
	case Boolean:
		if c.Values[i].Bool {
			return "True"
		}
		return "False"
	default:
		return c.Values[i].Str
	}
}

// NonNullStrings returns the canonical strings of every present row, in order.
func (c *Column) NonNullStrings() []string {
	out := make([]string, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			out = append(out, c.String(i))
		}
	}
	return out
}

// Key returns a comparable identity for row i; all nulls share one key.
func (c *Column) Key(i int) string {
	if c.IsNull(i) {
		return "\x00null"
	}
	return c.String(i)
}

// Distinct counts distinct non-null values.
func (c *Column) Distinct() int {
	if c.Kind == Categorical {
		seen := make(map[int32]struct{}, len(c.Levels))
		for _, code := range c.Codes {
			if code >= 0 {
				seen[code] = struct{}{}
			}
		}
		return len(seen)
	}
	seen := make(map[string]struct{})
	for i := 0; i < c.Len(); i++ {
		if !c.IsNull(i) {
			seen[c.String(i)] = struct{}{}
		}
	}
	return len(seen)
}

// Unique counts distinct values with null counted once when present.
func (c *Column) Unique() int {
	n := c.Distinct()
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			return n + 1
		}
	}
	return n
}

// IsTextual reports whether the column holds free text or categories.
func (c *Column) IsTextual() bool {
	return c.Kind == Text || c.Kind == Categorical
}

// DType returns the data-kind label reported for the column.
func (c *Column) DType() string {
	switch c.Kind {
	case Numeric:
		if c.Integer {
			return "int64"
		}
		return "float64"
	case Text:
		return "object"
	case Categorical:
		return "category"
	case Temporal:
		return "datetime64"
	case Boolean:
		return "bool"
	default:
		return "unknown"
	}
}

// Dataset is an ordered collection of equally long columns.
type Dataset struct {
	Name    string
	Columns []*Column
}

// New validates that every column has the same length.
func New(name string, cols ...*Column) (*Dataset, error) {
	if len(cols) > 0 {
		n := cols[0].Len()
		for _, c := range cols[1:] {
			if c.Len() != n {
				return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), n)
			}
		}
	}
	return &Dataset{Name: name, Columns: cols}, nil
}

// Rows returns the shared row count.
func (d *Dataset) Rows() int {
	if d == nil || len(d.Columns) == 0 {
		return 0
	}
	return d.Columns[0].Len()
}

// Column returns the column with the given name, or nil.
func (d *Dataset) Column(name string) *Column {
	for _, c := range d.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Names lists column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// FormatNumber renders floats the way the report shows them: integral floats keep a ".0".
func FormatNumber(f float64) string {
	if math.IsInf(f, 0) {
		if f > 0 {
			return "inf"
		}
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if f == math.Trunc(f) && math.Abs(f) < 1e16 {
		s += ".0"
	}
	return s
}

// FormatTime renders dates without a time-of-day when it is midnight UTC.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}
