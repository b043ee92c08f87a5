package loader

import (
	"context"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/tidwall/gjson"

	"github.com/G3rze/edaprofile/internal/dataset"
)

type jsonReader struct{}

func (jsonReader) Extensions() []string { return []string{".json"} }

func (r jsonReader) CanRead(path string) bool { return hasExt(path, r.Extensions()...) }

// Read accepts three layouts:
//
//	[{"a":1,"b":"x"}, ...]          records
//	{"a":{"0":1,"1":2}, ...}        columns keyed by row label
//	{"a":[1,2], ...}                columns as arrays
func (jsonReader) Read(ctx context.Context, path string, _ Options) (*dataset.Dataset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read json")
	}
	if !gjson.ValidBytes(b) {
		return nil, errors.New("invalid json document")
	}
	root := gjson.ParseBytes(b)
	name := filepath.Base(path)

	var (
		names []string
		cells map[string][]gjson.Result
	)
	switch {
	case root.IsArray():
		names, cells, err = jsonRecords(ctx, root)
	case root.IsObject():
		names, cells, err = jsonColumns(root)
	default:
		return nil, errors.New("json root must be an array of records or an object of columns")
	}
	if err != nil {
		return nil, err
	}

	cols := make([]*dataset.Column, len(names))
	for i, n := range names {
		cols[i] = jsonColumn(n, cells[n])
	}
	return dataset.New(name, cols...)
}

func jsonRecords(ctx context.Context, root gjson.Result) ([]string, map[string][]gjson.Result, error) {
	var names []string
	cells := make(map[string][]gjson.Result)
	rows := 0
	var failure error
	root.ForEach(func(_, rec gjson.Result) bool {
		if rows%1024 == 0 {
			if err := ctx.Err(); err != nil {
				failure = err
				return false
			}
		}
		if !rec.IsObject() {
			failure = errors.Errorf("record %d is not an object", rows)
			return false
		}
		rec.ForEach(func(k, v gjson.Result) bool {
			key := k.String()
			col, ok := cells[key]
			if !ok {
				names = append(names, key)
				col = make([]gjson.Result, rows)
			}
			cells[key] = append(col, v)
			return true
		})
		rows++
		for _, n := range names {
			for len(cells[n]) < rows {
				cells[n] = append(cells[n], gjson.Result{})
			}
		}
		return true
	})
	if failure != nil {
		return nil, nil, failure
	}
	return names, cells, nil
}

func jsonColumns(root gjson.Result) ([]string, map[string][]gjson.Result, error) {
	var names []string
	cells := make(map[string][]gjson.Result)
	byLabel := make(map[string]map[string]gjson.Result)
	var labels []string
	seenLabel := make(map[string]bool)
	arrays, objects := 0, 0
	root.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		names = append(names, key)
		switch {
		case v.IsArray():
			arrays++
			cells[key] = v.Array()
		case v.IsObject():
			objects++
			m := make(map[string]gjson.Result)
			v.ForEach(func(lk, lv gjson.Result) bool {
				label := lk.String()
				m[label] = lv
				if !seenLabel[label] {
					seenLabel[label] = true
					labels = append(labels, label)
				}
				return true
			})
			byLabel[key] = m
		}
		return true
	})
	if len(names) == 0 {
		return nil, cells, nil
	}
	if arrays+objects != len(names) || (arrays > 0 && objects > 0) {
		return nil, nil, errors.New("json object must map every column to an array or to an object of rows")
	}
	if objects > 0 {
		for _, n := range names {
			col := make([]gjson.Result, len(labels))
			for i, l := range labels {
				col[i] = byLabel[n][l]
			}
			cells[n] = col
		}
		return names, cells, nil
	}
	for _, n := range names[1:] {
		if len(cells[n]) != len(cells[names[0]]) {
			return nil, nil, errors.Errorf("column %q has %d values, want %d", n, len(cells[n]), len(cells[names[0]]))
		}
	}
	return names, cells, nil
}

// jsonColumn types a column from its JSON values: all numbers become
// numeric, all booleans boolean, anything else text.
func jsonColumn(name string, vals []gjson.Result) *dataset.Column {
	numbers, bools, present := 0, 0, 0
	integer := true
	for _, v := range vals {
		switch v.Type {
		case gjson.Null:
			continue
		case gjson.Number:
			numbers++
			if _, err := strconv.ParseInt(v.Raw, 10, 64); err != nil {
				integer = false
			}
		case gjson.True, gjson.False:
			bools++
		}
		present++
	}
	nulls := len(vals) - present

	col := &dataset.Column{Name: name, Values: make([]dataset.Value, len(vals))}
	switch {
	case numbers == present:
		col.Kind = dataset.Numeric
		col.Integer = integer && nulls == 0 && len(vals) > 0
		for i, v := range vals {
			switch {
			case v.Type != gjson.Number:
			case col.Integer:
				n, _ := strconv.ParseInt(v.Raw, 10, 64)
				col.Values[i] = dataset.IntValue(n)
			default:
				col.Values[i] = dataset.NumberValue(v.Float())
			}
		}
	case bools == present:
		col.Kind = dataset.Boolean
		for i, v := range vals {
			if v.Type != gjson.Null {
				col.Values[i] = dataset.BoolValue(v.Bool())
			}
		}
	default:
		col.Kind = dataset.Text
		for i, v := range vals {
			switch v.Type {
			case gjson.Null:
			case gjson.String:
				col.Values[i] = dataset.TextValue(v.String())
			case gjson.True:
				col.Values[i] = dataset.TextValue("True")
			case gjson.False:
				col.Values[i] = dataset.TextValue("False")
			default:
				col.Values[i] = dataset.TextValue(v.Raw)
			}
		}
	}
	return col
}
