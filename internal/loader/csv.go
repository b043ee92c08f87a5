package loader

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/go-faster/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/G3rze/edaprofile/internal/dataset"
)

type csvReader struct{}

func (csvReader) Extensions() []string { return []string{".csv", ".tsv"} }

func (r csvReader) CanRead(path string) bool { return hasExt(path, r.Extensions()...) }

func (csvReader) Read(ctx context.Context, path string, opts Options) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open csv")
	}
	defer f.Close()
	return readDelimited(ctx, f, filepath.Base(path), delimiterFor(path, opts.Delimiter), opts)
}

func delimiterFor(path string, configured rune) rune {
	if configured != 0 {
		return configured
	}
	if hasExt(path, ".tsv") {
		return '\t'
	}
	return ','
}

// readDelimited decodes UTF-8 text (with or without a BOM) into a dataset.
// The first record is the header; short rows are padded with nulls.
func readDelimited(ctx context.Context, src io.Reader, name string, delim rune, opts Options) (*dataset.Dataset, error) {
	r := csv.NewReader(transform.NewReader(src, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return dataset.New(name)
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}

	t := table{header: header}
	for line := 2; ; line++ {
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read row")
		}
		if len(rec) > len(header) {
			return nil, errors.Errorf("line %d: expected %d fields, saw %d", line, len(header), len(rec))
		}
		if len(rec) == 1 && rec[0] == "" && len(header) > 1 {
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t.build(name, opts)
}
