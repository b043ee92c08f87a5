package loader

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/G3rze/edaprofile/internal/dataset"
)

func writeParquet(t *testing.T) string {
	t.Helper()
	schema := arrow.NewSchema([]arrow.Field{
		{Name: "id", Type: arrow.PrimitiveTypes.Int64},
		{Name: "score", Type: arrow.PrimitiveTypes.Float64, Nullable: true},
		{Name: "city", Type: arrow.BinaryTypes.String, Nullable: true},
		{Name: "active", Type: arrow.FixedWidthTypes.Boolean},
		{Name: "seen", Type: &arrow.TimestampType{Unit: arrow.Millisecond}},
	}, nil)

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	b.Field(0).(*array.Int64Builder).AppendValues([]int64{1, 2, 3, 4}, nil)
	b.Field(1).(*array.Float64Builder).AppendValues([]float64{0.5, 0, 2, 3.25}, []bool{true, false, true, true})
	b.Field(2).(*array.StringBuilder).AppendValues([]string{"Lima", "", "Quito", "Cusco"}, []bool{true, false, true, true})
	b.Field(3).(*array.BooleanBuilder).AppendValues([]bool{true, false, true, true}, nil)
	ms := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC).UnixMilli()
	b.Field(4).(*array.TimestampBuilder).AppendValues([]arrow.Timestamp{
		arrow.Timestamp(ms), arrow.Timestamp(ms), arrow.Timestamp(ms), arrow.Timestamp(ms),
	}, nil)
	rec := b.NewRecord()
	defer rec.Release()

	path := filepath.Join(t.TempDir(), "people.parquet")
	f, err := os.Create(path)
	require.NoError(t, err)
	w, err := pqarrow.NewFileWriter(schema, f, nil, pqarrow.DefaultWriterProps())
	require.NoError(t, err)
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())
	return path
}

func TestParquetReader(t *testing.T) {
	ds := load(t, writeParquet(t))

	require.Equal(t, 4, ds.Rows())
	assert.Equal(t, []string{"id", "score", "city", "active", "seen"}, ds.Names())

	id := ds.Column("id")
	assert.Equal(t, "int64", id.DType())
	assert.Equal(t, "3", id.String(2))

	score := ds.Column("score")
	assert.Equal(t, "float64", score.DType())
	assert.Equal(t, 1, score.NullCount())

	city := ds.Column("city")
	assert.Equal(t, dataset.Text, city.Kind)
	assert.True(t, city.IsNull(1))

	assert.Equal(t, dataset.Boolean, ds.Column("active").Kind)
	assert.Equal(t, "2024-03-01 12:00:00", ds.Column("seen").String(0))
}

func TestXLSXReader(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]interface{}{
		{"product", "units"},
		{"bolt", 10},
		{"nut", nil},
		{"washer", 7},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	path := filepath.Join(t.TempDir(), "stock.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds := load(t, path)
	require.Equal(t, 3, ds.Rows())
	units := ds.Column("units")
	assert.Equal(t, dataset.Numeric, units.Kind)
	assert.Equal(t, 1, units.NullCount())
	assert.Equal(t, "washer", ds.Column("product").String(2))
}

func TestXLSXMissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "x"))
	path := filepath.Join(t.TempDir(), "one.xlsx")
	require.NoError(t, f.SaveAs(path))

	opts := DefaultOptions()
	opts.Sheet = "Other"
	_, err := xlsxReader{}.Read(t.Context(), path, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Other"`)
}
