package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPGM = `P2
# four quadrants, one uniform
4 4
15
0 0 8 8
0 0 8 8
15 15 3 3
15 15 3 3
`

func writePGM(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.pgm")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing raster: %v", err)
	}
	return path
}

func TestLoadTree(t *testing.T) {
	tree, err := loadTree(writePGM(t, testPGM))
	if err != nil {
		t.Fatalf("loadTree failed: %v", err)
	}
	// Each quadrant fuses to a single color at construction, leaving the
	// root plus four leaves.
	if tree.Count() != 5 {
		t.Errorf("count = %d, want 5", tree.Count())
	}
}

func TestLoadTreeErrors(t *testing.T) {
	if _, err := loadTree(filepath.Join(t.TempDir(), "missing.pgm")); err == nil {
		t.Error("expected an error for a missing file")
	}
	if _, err := loadTree(writePGM(t, "P5\n4 4\n15\n")); err == nil {
		t.Error("expected an error for a non-P2 raster")
	}
}

func TestSaveGridRoundTrip(t *testing.T) {
	tree, err := loadTree(writePGM(t, testPGM))
	if err != nil {
		t.Fatalf("loadTree failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.pgm")
	if err := saveGrid(tree.Grid(), out); err != nil {
		t.Fatalf("saveGrid failed: %v", err)
	}

	reloaded, err := loadTree(out)
	if err != nil {
		t.Fatalf("reloading saved raster failed: %v", err)
	}
	if reloaded.Count() != tree.Count() {
		t.Errorf("reloaded count = %d, want %d", reloaded.Count(), tree.Count())
	}
}

func TestWriteOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.dot")
	if err := writeOutput([]byte("digraph {}\n"), path); err != nil {
		t.Fatalf("writeOutput failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("unexpected contents %q", data)
	}
}
