package loader

import (
	"context"
	"math"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/go-faster/errors"

	"github.com/G3rze/edaprofile/internal/dataset"
)

type parquetReader struct{}

func (parquetReader) Extensions() []string { return []string{".parquet", ".pq"} }

func (r parquetReader) CanRead(path string) bool { return hasExt(path, r.Extensions()...) }

func (parquetReader) Read(ctx context.Context, path string, _ Options) (*dataset.Dataset, error) {
	pf, err := file.OpenParquetFile(path, false)
	if err != nil {
		return nil, errors.Wrap(err, "open parquet")
	}
	defer pf.Close()

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	if err != nil {
		return nil, errors.Wrap(err, "create arrow reader")
	}
	tbl, err := fr.ReadTable(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "read table")
	}
	defer tbl.Release()

	cols := make([]*dataset.Column, 0, tbl.NumCols())
	for i := 0; i < int(tbl.NumCols()); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		col := tbl.Column(i)
		c, err := arrowColumn(col.Name(), col.DataType(), col.Data().Chunks())
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name())
		}
		cols = append(cols, c)
	}
	return dataset.New(filepath.Base(path), cols...)
}

// arrowColumn copies chunked arrow data into a dataset column.
func arrowColumn(name string, dt arrow.DataType, chunks []arrow.Array) (*dataset.Column, error) {
	col := &dataset.Column{Name: name, Kind: kindOf(dt)}
	integer := isIntegerType(dt)
	for _, chunk := range chunks {
		for i := 0; i < chunk.Len(); i++ {
			if chunk.IsNull(i) {
				col.Values = append(col.Values, dataset.Null())
				integer = false
				continue
			}
			v, err := arrowValue(chunk, i)
			if err != nil {
				return nil, err
			}
			if u, ok := chunk.(*array.Uint64); ok && u.Value(i) > math.MaxInt64 {
				integer = false
			}
			col.Values = append(col.Values, v)
		}
	}
	col.Integer = integer
	return col, nil
}

func kindOf(dt arrow.DataType) dataset.Kind {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return dataset.Numeric
	case arrow.BOOL:
		return dataset.Boolean
	case arrow.TIMESTAMP, arrow.DATE32, arrow.DATE64:
		return dataset.Temporal
	default:
		return dataset.Text
	}
}

func isIntegerType(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return true
	}
	return false
}

func arrowValue(arr arrow.Array, i int) (dataset.Value, error) {
	switch a := arr.(type) {
	case *array.Int8:
		return dataset.IntValue(int64(a.Value(i))), nil
	case *array.Int16:
		return dataset.IntValue(int64(a.Value(i))), nil
	case *array.Int32:
		return dataset.IntValue(int64(a.Value(i))), nil
	case *array.Int64:
		return dataset.IntValue(int64(a.Value(i))), nil
	case *array.Uint8:
		return dataset.IntValue(int64(a.Value(i))), nil
	case *array.Uint16:
		return dataset.IntValue(int64(a.Value(i))), nil
	case *array.Uint32:
		return dataset.IntValue(int64(a.Value(i))), nil
	case *array.Uint64:
		if v := a.Value(i); v <= math.MaxInt64 {
			return dataset.IntValue(int64(v)), nil
		}
		return dataset.NumberValue(float64(a.Value(i))), nil
	case *array.Float16:
		return dataset.NumberValue(float64(a.Value(i).Float32())), nil
	case *array.Float32:
		return dataset.NumberValue(float64(a.Value(i))), nil
	case *array.Float64:
		return dataset.NumberValue(a.Value(i)), nil
	case *array.Boolean:
		return dataset.BoolValue(a.Value(i)), nil
	case *array.String:
		return dataset.TextValue(a.Value(i)), nil
	case *array.LargeString:
		return dataset.TextValue(a.Value(i)), nil
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return dataset.TimeValue(a.Value(i).ToTime(unit).UTC()), nil
	case *array.Date32:
		return dataset.TimeValue(a.Value(i).ToTime().UTC()), nil
	case *array.Date64:
		return dataset.TimeValue(a.Value(i).ToTime().UTC()), nil
	case *array.Dictionary:
		return dataset.TextValue(a.Dictionary().ValueStr(a.GetValueIndex(i))), nil
	default:
		if kindOf(arr.DataType()) != dataset.Text {
			return dataset.Value{}, errors.Errorf("unsupported arrow type %s", arr.DataType())
		}
		return dataset.TextValue(arr.ValueStr(i)), nil
	}
}
