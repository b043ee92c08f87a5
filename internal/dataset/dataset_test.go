package dataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsRaggedColumns(t *testing.T) {
	a := &Column{Name: "a", Kind: Numeric, Values: []Value{NumberValue(1), NumberValue(2)}}
	b := &Column{Name: "b", Kind: Text, Values: []Value{TextValue("x")}}

	_, err := New("t", a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"b"`)
}

func TestRowsAndLookup(t *testing.T) {
	a := &Column{Name: "a", Kind: Numeric, Values: []Value{NumberValue(1), Null()}}
	b := &Column{Name: "b", Kind: Categorical, Levels: []string{"x"}, Codes: []int32{0, -1}}
	ds, err := New("t", a, b)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Rows())
	assert.Same(t, b, ds.Column("b"))
	assert.Nil(t, ds.Column("missing"))
	assert.Equal(t, []string{"a", "b"}, ds.Names())
	assert.Equal(t, 0, (&Dataset{}).Rows())
}

func TestNullHandling(t *testing.T) {
	c := &Column{Name: "n", Kind: Numeric, Values: []Value{NumberValue(1.5), Null(), NumberValue(math.NaN()), NumberValue(1.5)}}

	assert.Equal(t, 2, c.NullCount())
	assert.Equal(t, 1, c.Distinct())
	assert.Equal(t, 2, c.Unique())
	assert.Equal(t, []float64{1.5, 1.5}, c.Floats())
	_, ok := c.Float(1)
	assert.False(t, ok)
	assert.Equal(t, c.Key(1), c.Key(2))
	assert.Equal(t, []string{"1.5", "1.5"}, c.NonNullStrings())
}

func TestCanonicalStrings(t *testing.T) {
	num := &Column{Kind: Numeric, Values: []Value{NumberValue(3), NumberValue(2.25)}}
	ints := &Column{Kind: Numeric, Integer: true, Values: []Value{IntValue(42)}}
	ts := &Column{Kind: Temporal, Values: []Value{
		TimeValue(time.Date(2024, 8, 10, 0, 0, 0, 0, time.UTC)),
		TimeValue(time.Date(2024, 8, 10, 13, 5, 0, 0, time.UTC)),
	}}
	bools := &Column{Kind: Boolean, Values: []Value{BoolValue(true), BoolValue(false)}}
	cat := &Column{Kind: Categorical, Levels: []string{"alpha", "beta"}, Codes: []int32{1, 0}}

	assert.Equal(t, "3.0", num.String(0))
	assert.Equal(t, "2.25", num.String(1))
	assert.Equal(t, "42", ints.String(0))
	assert.Equal(t, "2024-08-10", ts.String(0))
	assert.Equal(t, "2024-08-10 13:05:00", ts.String(1))
	assert.Equal(t, "True", bools.String(0))
	assert.Equal(t, "False", bools.String(1))
	assert.Equal(t, "beta", cat.String(0))
}

func TestDTypeLabels(t *testing.T) {
	tests := []struct {
		col  Column
		want string
	}{
		{Column{Kind: Numeric}, "float64"},
		{Column{Kind: Numeric, Integer: true}, "int64"},
		{Column{Kind: Text}, "object"},
		{Column{Kind: Categorical}, "category"},
		{Column{Kind: Temporal}, "datetime64"},
		{Column{Kind: Boolean}, "bool"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.col.DType())
	}
}

func TestIntegerColumnsKeepExactValues(t *testing.T) {
	ids := &Column{Kind: Numeric, Integer: true, Values: []Value{
		IntValue(9007199254740993),
		IntValue(9007199254740992),
		IntValue(-1),
	}}

	assert.Equal(t, "9007199254740993", ids.String(0))
	assert.Equal(t, "9007199254740992", ids.String(1))
	assert.Equal(t, "-1", ids.String(2))
	assert.Equal(t, 3, ids.Distinct())
	assert.NotEqual(t, ids.Key(0), ids.Key(1))
}
