// Package loader turns a tabular file on disk into a dataset.Dataset.
//
// Readers are selected by lower-cased file extension. Every failure is
// reported as a coded error: loader.file_not_found when the path is missing,
// loader.unsupported_format when no reader claims the extension and
// loader.parse_failed for anything that goes wrong while decoding.
package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/G3rze/edaprofile/internal/dataset"
	"github.com/G3rze/edaprofile/internal/errors"
	"github.com/G3rze/edaprofile/internal/logging"
)

// Options controls decoding.
type Options struct {
	// NullTokens are cell texts read as missing in text-based formats.
	NullTokens []string
	// CategoricalRatio re-encodes text columns whose unique/rows ratio is below it.
	CategoricalRatio float64
	// Delimiter for CSV. If 0, ',' for .csv and '\t' for .tsv.
	Delimiter rune
	// Sheet selects an Excel sheet by name; empty means the first sheet.
	Sheet string
	// ParseDates turns CSV and Excel text columns whose every present cell is
	// a date into temporal columns. Off by default: such columns stay text and
	// may be re-encoded as categorical.
	ParseDates bool
	Logger zerolog.Logger
}

// DefaultOptions mirrors the built-in configuration.
func DefaultOptions() Options {
	return Options{
		NullTokens:       []string{"", "NA", "NULL", "NaN"},
		CategoricalRatio: 0.5,
		Logger:           zerolog.Nop(),
	}
}

// Reader decodes one family of file formats.
type Reader interface {
	// Extensions lists the lower-cased extensions the reader claims.
	Extensions() []string
	CanRead(path string) bool
	Read(ctx context.Context, path string, opts Options) (*dataset.Dataset, error)
}

var registry []Reader

// Register adds a reader implementation to the registry.
func Register(r Reader) {
	registry = append(registry, r)
}

func init() {
	Register(csvReader{})
	Register(xlsxReader{})
	Register(xlsReader{})
	Register(parquetReader{})
	Register(jsonReader{})
}

// Supported lists the extensions handled by the registered readers, in
// registration order.
func Supported() []string {
	var out []string
	for _, r := range registry {
		out = append(out, r.Extensions()...)
	}
	return out
}

// Load reads path with the reader registered for its extension and applies
// categorical re-encoding.
func Load(ctx context.Context, path string, opts Options) (*dataset.Dataset, error) {
	log := logging.Component(opts.Logger, "loader").With().Str("path", path).Logger()

	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.FileNotFound, err, "file not found").
			AddContext("path", path)
	}

	var reader Reader
	for _, r := range registry {
		if r.CanRead(path) {
			reader = r
			break
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if reader == nil {
		return nil, errors.Newf(errors.UnsupportedFormat, "unsupported file format %q", ext).
			AddContext("path", path).
			AddContext("extension", ext).
			AddContext("supported", strings.Join(Supported(), ", "))
	}

	ds, err := reader.Read(ctx, path, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ParseFailed, err, "failed to read file").
			AddContext("path", path).
			AddContext("extension", ext)
	}
	if ds.Name == "" {
		ds.Name = filepath.Base(path)
	}

	converted := Categorize(ds, opts.CategoricalRatio)
	log.Debug().
		Int("rows", ds.Rows()).
		Int("columns", len(ds.Columns)).
		Strs("categorical", converted).
		Msg("dataset loaded")
	return ds, nil
}

func hasExt(path string, exts ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
