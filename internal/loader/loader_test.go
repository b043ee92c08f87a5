package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/G3rze/edaprofile/internal/dataset"
	"github.com/G3rze/edaprofile/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func load(t *testing.T, path string) *dataset.Dataset {
	t.Helper()
	ds, err := Load(context.Background(), path, DefaultOptions())
	require.NoError(t, err)
	return ds
}

func repeatRows(vals ...string) string {
	return "v\n" + strings.Join(vals, "\n") + "\n"
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.FileNotFound))
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeFile(t, "notes.txt", "a,b\n1,2\n")
	_, err := Load(context.Background(), path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.UnsupportedFormat))
	assert.Equal(t, ".txt", errors.GetContext(err)["extension"])
}

func TestLoadParseFailure(t *testing.T) {
	path := writeFile(t, "bad.csv", "a,b\n1,2,3\n")
	_, err := Load(context.Background(), path, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ParseFailed))
	assert.Contains(t, err.Error(), "expected 2 fields")
}

func TestCSVNullTokensAndTypes(t *testing.T) {
	path := writeFile(t, "mixed.csv", strings.Join([]string{
		"id,price,city,when,flag",
		"1,2.5,Lima,2024-01-05,True",
		"2,NA,NULL,2024-01-06,False",
		"3,NaN,,2024-01-07,True",
		"4,4,Quito,,False",
	}, "\n"))
	ds := load(t, path)

	require.Equal(t, 4, ds.Rows())
	id := ds.Column("id")
	assert.Equal(t, dataset.Numeric, id.Kind)
	assert.True(t, id.Integer)
	assert.Equal(t, "int64", id.DType())

	price := ds.Column("price")
	assert.Equal(t, "float64", price.DType())
	assert.Equal(t, 2, price.NullCount())
	assert.Equal(t, "4.0", price.String(3))

	city := ds.Column("city")
	assert.Equal(t, 2, city.NullCount())

	when := ds.Column("when")
	assert.Equal(t, dataset.Text, when.Kind)
	assert.Equal(t, "object", when.DType())
	assert.Equal(t, 1, when.NullCount())

	assert.Equal(t, dataset.Boolean, ds.Column("flag").Kind)
}

func TestCSVParseDatesOption(t *testing.T) {
	path := writeFile(t, "dates.csv", "when\n2024-01-05\n2024-01-06\nNA\n2024-01-07\n")
	opts := DefaultOptions()
	opts.ParseDates = true
	ds, err := Load(context.Background(), path, opts)
	require.NoError(t, err)

	when := ds.Column("when")
	assert.Equal(t, dataset.Temporal, when.Kind)
	assert.Equal(t, 1, when.NullCount())
	assert.Equal(t, "2024-01-06", when.String(1))
}

func TestLowCardinalityDatesBecomeCategorical(t *testing.T) {
	path := writeFile(t, "days.csv", strings.Join([]string{
		"v,day",
		"1,2024-01-01", "2,2024-01-01", "3,2024-01-01",
		"4,2024-01-02", "5,2024-01-02", "6,2024-01-02",
	}, "\n"))
	ds := load(t, path)

	day := ds.Column("day")
	assert.Equal(t, dataset.Categorical, day.Kind)
	assert.Equal(t, []string{"2024-01-01", "2024-01-02"}, day.Levels)
}

func TestCSVLargeIntegersStayExact(t *testing.T) {
	ds := load(t, writeFile(t, "ids.csv", "id\n9007199254740993\n9007199254740992\n"))

	id := ds.Column("id")
	require.Equal(t, dataset.Numeric, id.Kind)
	assert.Equal(t, "int64", id.DType())
	assert.Equal(t, 2, id.Unique())
	assert.Equal(t, "9007199254740993", id.String(0))
	assert.Equal(t, "9007199254740992", id.String(1))
}

func TestJSONLargeIntegersStayExact(t *testing.T) {
	ds := load(t, writeFile(t, "ids.json", `[{"id":9007199254740993},{"id":9007199254740992}]`))

	id := ds.Column("id")
	assert.Equal(t, "int64", id.DType())
	assert.Equal(t, 2, id.Distinct())
	assert.Equal(t, "9007199254740993", id.String(0))
}

func TestNullTokensMatchRawCells(t *testing.T) {
	ds := load(t, writeFile(t, "padded.csv", "name,qty\n NA ,1\nNA,2\nx, 3 \n"))

	name := ds.Column("name")
	assert.False(t, name.IsNull(0))
	assert.Equal(t, " NA ", name.String(0))
	assert.True(t, name.IsNull(1))

	qty := ds.Column("qty")
	assert.Equal(t, dataset.Numeric, qty.Kind)
	assert.Equal(t, "3", qty.String(2))
}

func TestSupportedMatchesRegisteredReaders(t *testing.T) {
	exts := Supported()
	for _, ext := range []string{".csv", ".tsv", ".xlsx", ".xlsm", ".xls", ".parquet", ".pq", ".json"} {
		assert.Contains(t, exts, ext)
	}
	for _, ext := range exts {
		claimed := false
		for _, r := range registry {
			if r.CanRead("data" + ext) {
				claimed = true
			}
		}
		assert.True(t, claimed, ext)
	}

	_, err := Load(context.Background(), writeFile(t, "notes.txt", "x"), DefaultOptions())
	assert.Contains(t, errors.GetContext(err)["supported"], ".pq")
}

func TestCSVWithBOMAndShortRows(t *testing.T) {
	path := writeFile(t, "bom.csv", "\ufeffname,qty\nwidget,3\ngadget\n")
	ds := load(t, path)

	assert.Equal(t, []string{"name", "qty"}, ds.Names())
	assert.True(t, ds.Column("qty").IsNull(1))
}

func TestTSVUsesTabs(t *testing.T) {
	path := writeFile(t, "data.tsv", "a\tb\nx y\t1\nz\t2\n")
	ds := load(t, path)
	assert.Equal(t, "x y", ds.Column("a").String(0))
	assert.Equal(t, dataset.Numeric, ds.Column("b").Kind)
}

func TestDuplicateAndBlankHeaders(t *testing.T) {
	path := writeFile(t, "dup.csv", "a,a,,a\n1,2,3,4\n")
	ds := load(t, path)
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.2"}, ds.Names())
}

func TestCategoricalBoundary(t *testing.T) {
	tests := []struct {
		name string
		vals []string
		want dataset.Kind
	}{
		{"five distinct of ten stays text", []string{"a", "b", "c", "d", "e", "a", "b", "c", "d", "e"}, dataset.Text},
		{"four distinct of ten converts", []string{"a", "b", "c", "d", "a", "b", "c", "d", "a", "b"}, dataset.Categorical},
		{"null counts as a value", []string{"a", "b", "c", "d", "NA", "a", "b", "c", "d", "a"}, dataset.Text},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := load(t, writeFile(t, "cat.csv", repeatRows(tt.vals...)))
			col := ds.Column("v")
			assert.Equal(t, tt.want, col.Kind)
			assert.Equal(t, 10, col.Len())
		})
	}
}

func TestCategoricalKeepsValuesAndNulls(t *testing.T) {
	ds := load(t, writeFile(t, "cat.csv", repeatRows("x", "y", "NA", "x", "x", "y", "x", "y", "x", "x")))
	col := ds.Column("v")
	require.Equal(t, dataset.Categorical, col.Kind)
	assert.Equal(t, []string{"x", "y"}, col.Levels)
	assert.True(t, col.IsNull(2))
	assert.Equal(t, "y", col.String(5))
	assert.Equal(t, "category", col.DType())
}

func TestHeaderOnlyCSV(t *testing.T) {
	ds := load(t, writeFile(t, "empty.csv", "a,b\n"))
	assert.Equal(t, 0, ds.Rows())
	assert.Equal(t, "float64", ds.Column("a").DType())
}

func TestLoadHonoursCancellation(t *testing.T) {
	var b strings.Builder
	b.WriteString("n\n")
	for i := 0; i < 5000; i++ {
		b.WriteString("1\n")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Load(ctx, writeFile(t, "big.csv", b.String()), DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJSONLayouts(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"records", `[{"a":1,"b":"x"},{"a":null,"b":"y"},{"b":"z"}]`},
		{"columns", `{"a":{"0":1,"1":null,"2":null},"b":{"0":"x","1":"y","2":"z"}}`},
		{"arrays", `{"a":[1,null,null],"b":["x","y","z"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := load(t, writeFile(t, "data.json", tt.body))
			require.Equal(t, 3, ds.Rows())
			assert.Equal(t, []string{"a", "b"}, ds.Names())
			a := ds.Column("a")
			assert.Equal(t, dataset.Numeric, a.Kind)
			assert.Equal(t, 2, a.NullCount())
			assert.Equal(t, "1.0", a.String(0))
			assert.Equal(t, "z", ds.Column("b").String(2))
		})
	}
}

func TestJSONRejectsScalars(t *testing.T) {
	_, err := Load(context.Background(), writeFile(t, "x.json", `42`), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ParseFailed))
}

func TestStat(t *testing.T) {
	path := writeFile(t, "Sales.CSV", strings.Repeat("x", 2048))
	md, err := Stat(path)
	require.NoError(t, err)

	assert.Equal(t, "Sales.CSV", md.Name)
	assert.True(t, filepath.IsAbs(md.Path))
	assert.Equal(t, int64(2048), md.SizeBytes)
	assert.Equal(t, 0.0, md.SizeMB)
	assert.Equal(t, ".csv", md.Extension)
	assert.Equal(t, "utf-8", md.Encoding)
	assert.WithinDuration(t, time.Now(), md.ModifiedAt, time.Minute)

	_, err = Stat(filepath.Join(t.TempDir(), "gone.csv"))
	assert.True(t, errors.HasCode(err, errors.FileNotFound))
}
