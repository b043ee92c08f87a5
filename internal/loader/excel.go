package loader

import (
	"context"
	"path/filepath"

	"github.com/extrame/xls"
	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/G3rze/edaprofile/internal/dataset"
)

type xlsxReader struct{}

func (xlsxReader) Extensions() []string { return []string{".xlsx", ".xlsm"} }

func (r xlsxReader) CanRead(path string) bool { return hasExt(path, r.Extensions()...) }

func (xlsxReader) Read(ctx context.Context, path string, opts Options) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]
	if opts.Sheet != "" {
		idx, err := f.GetSheetIndex(opts.Sheet)
		if err != nil || idx < 0 {
			return nil, errors.Errorf("sheet %q not found", opts.Sheet)
		}
		sheet = opts.Sheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read sheet %q", sheet)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sheetTable(rows).build(filepath.Base(path), opts)
}

type xlsReader struct{}

func (xlsReader) Extensions() []string { return []string{".xls"} }

func (r xlsReader) CanRead(path string) bool { return hasExt(path, r.Extensions()...) }

func (xlsReader) Read(ctx context.Context, path string, opts Options) (*dataset.Dataset, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, errors.Wrap(err, "open workbook")
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if opts.Sheet != "" {
		sheet = nil
		for i := 0; i < wb.NumSheets(); i++ {
			if s := wb.GetSheet(i); s != nil && s.Name == opts.Sheet {
				sheet = s
				break
			}
		}
		if sheet == nil {
			return nil, errors.Errorf("sheet %q not found", opts.Sheet)
		}
	}
	if sheet == nil {
		return nil, errors.New("cannot read first sheet")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return sheetTable(rows).build(filepath.Base(path), opts)
}

// sheetTable drops leading blank rows, takes the next one as header and
// trims trailing blank rows.
func sheetTable(rows [][]string) table {
	for len(rows) > 0 && blankRow(rows[0]) {
		rows = rows[1:]
	}
	for len(rows) > 0 && blankRow(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}
	if len(rows) == 0 {
		return table{}
	}
	header := rows[0]
	body := rows[1:]
	width := len(header)
	for _, r := range body {
		width = max(width, len(r))
	}
	for len(header) < width {
		header = append(header, "")
	}
	return table{header: header, rows: body}
}

func blankRow(r []string) bool {
	for _, c := range r {
		if c != "" {
			return false
		}
	}
	return true
}
