package loader

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/G3rze/edaprofile/internal/errors"
)

// FileMetadata describes the input file of a run.
type FileMetadata struct {
	Name       string    `json:"name" yaml:"name"`
	Path       string    `json:"path" yaml:"path"`
	SizeBytes  int64     `json:"size_bytes" yaml:"size_bytes"`
	SizeMB     float64   `json:"size_mb" yaml:"size_mb"`
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`
	Extension  string    `json:"extension" yaml:"extension"`
	Encoding   string    `json:"encoding" yaml:"encoding"`
}

// Stat reads file-system metadata for path.
func Stat(path string) (FileMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileMetadata{}, errors.Wrap(errors.FileNotFound, err, "cannot stat file").
			AddContext("path", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return FileMetadata{
		Name:       info.Name(),
		Path:       abs,
		SizeBytes:  info.Size(),
		SizeMB:     math.Round(float64(info.Size())/(1024*1024)*100) / 100,
		ModifiedAt: info.ModTime(),
		Extension:  strings.ToLower(filepath.Ext(path)),
		Encoding:   "utf-8",
	}, nil
}
