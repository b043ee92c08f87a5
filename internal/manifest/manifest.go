// Package manifest persists run summaries as <name>.summary.json files.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/G3rze/edaprofile/internal/pipeline"
	"github.com/G3rze/edaprofile/internal/utils"
)

// Suffix is appended to every manifest file name.
const Suffix = ".summary.json"

// Manifest is a run summary persisted on disk.
type Manifest struct {
	Source    string            `json:"source"`
	CreatedAt time.Time         `json:"created_at"`
	Summary   *pipeline.Summary `json:"summary"`

	// Not serialized: on-disk location of the manifest.
	path string
}

// New wraps a summary for persistence.
func New(source string, s *pipeline.Summary) *Manifest {
	return &Manifest{Source: source, CreatedAt: time.Now(), Summary: s}
}

// Path returns where the manifest was saved or loaded from.
func (m *Manifest) Path() string { return m.path }

// Save writes the manifest into dir as <source base>.summary.json, picking a
// __N suffix instead of overwriting an existing manifest.
func (m *Manifest) Save(dir string) (string, error) {
	if m.Summary == nil {
		return "", errors.New("manifest has no summary")
	}
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("ensure dir: %w", err)
	}
	base := filepath.Base(m.Source)
	base = utils.SafeFileName(strings.TrimSuffix(base, filepath.Ext(base)))
	out := utils.UniquePath(dir, base, Suffix)

	data, err := utils.PrettyJSON(m)
	if err != nil {
		return "", err
	}
	if err := utils.SafeWriteFile(out, data); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	m.path = out
	return out, nil
}

// Load reads a manifest file.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.path = path
	return &m, nil
}

// Entry is a listing row for one manifest.
type Entry struct {
	Name      string
	Source    string
	RunID     string
	Rows      int
	Columns   int
	Charts    int
	CreatedAt time.Time
}

// List returns the manifests in dir sorted by file name. A missing dir yields
// no entries; unreadable manifests are skipped.
func List(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var out []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), Suffix) {
			continue
		}
		m, err := Load(filepath.Join(dir, f.Name()))
		if err != nil || m.Summary == nil {
			continue
		}
		out = append(out, Entry{
			Name:      f.Name(),
			Source:    m.Source,
			RunID:     m.Summary.RunID,
			Rows:      m.Summary.Stats.Rows,
			Columns:   m.Summary.Stats.Columns,
			Charts:    len(m.Summary.Charts),
			CreatedAt: m.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
