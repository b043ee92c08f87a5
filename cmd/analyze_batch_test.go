package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/G3rze/edaprofile/internal/manifest"
)

func TestAnalyzeBatch_ManifestsWithCollisionSuffix(t *testing.T) {
	home := isolate(t)

	// Prepare two CSV files with the same basename in different directories
	d1 := filepath.Join(home, "d1")
	d2 := filepath.Join(home, "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	csv := "col1,col2\nA,1\nB,NA\nC,3\n"
	p1 := filepath.Join(d1, "metrics.csv")
	p2 := filepath.Join(d2, "metrics.csv")
	if err := os.WriteFile(p1, []byte(csv), 0o644); err != nil {
		t.Fatalf("write p1: %v", err)
	}
	if err := os.WriteFile(p2, []byte(csv), 0o644); err != nil {
		t.Fatalf("write p2: %v", err)
	}

	outDir := filepath.Join(home, "summaries")
	out := runCmd(t, "analyze-batch", filepath.Join(home, "d*", "metrics.csv"),
		"--out", outDir, "--no-report", "--charts-dir", filepath.Join(home, "graficos"))

	if !strings.Contains(out, "[2/2] Processing metrics.csv...") {
		t.Fatalf("missing progress output:\n%s", out)
	}
	if !strings.Contains(out, "writing to metrics__2.summary.json to avoid overwrite") {
		t.Fatalf("missing collision warning:\n%s", out)
	}

	m1, err := manifest.Load(filepath.Join(outDir, "metrics.summary.json"))
	if err != nil {
		t.Fatalf("missing first summary: %v", err)
	}
	m2, err := manifest.Load(filepath.Join(outDir, "metrics__2.summary.json"))
	if err != nil {
		t.Fatalf("missing second summary: %v", err)
	}
	if m1.Source != p1 || m2.Source != p2 {
		t.Fatalf("unexpected sources: %s, %s", m1.Source, m2.Source)
	}
	if m1.Summary.Stats.ColumnsWithNulls != 1 {
		t.Fatalf("expected one column with nulls, got %+v", m1.Summary.Stats)
	}
	if m1.Summary.RunID == m2.Summary.RunID {
		t.Fatalf("run ids should differ")
	}
}

func TestAnalyzeBatch_QuietAndFailures(t *testing.T) {
	home := isolate(t)
	good := filepath.Join(home, "good.csv")
	bad := filepath.Join(home, "bad.txt")
	if err := os.WriteFile(good, []byte("a\n1\n2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("a\n1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := filepath.Join(home, "summaries")
	out, err := execCmd(t, "analyze-batch", good, bad, "--out", outDir, "--quiet", "--no-report", "--no-charts")
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if strings.Contains(out, "Processing") {
		t.Fatalf("quiet mode printed progress:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(outDir, "good.summary.json")); err != nil {
		t.Fatalf("good file should still be summarized: %v", err)
	}

	if _, err := execCmd(t, "analyze-batch", filepath.Join(home, "none*.csv")); err == nil {
		t.Fatalf("expected error when nothing matches")
	}
}
