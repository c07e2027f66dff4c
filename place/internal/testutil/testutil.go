// Package testutil provides shared test infrastructure for the placer
// packages: float assertions, coordinate grids and temp-file fixtures.
// It imports nothing from place so that place's own tests can use it.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// XY is a bare coordinate pair.
type XY struct {
	X, Y float64
}

// GridPoints returns nx*ny points on a square lattice with the given pitch,
// row by row starting at the origin.
func GridPoints(nx, ny int, pitch float64) []XY {
	out := make([]XY, 0, nx*ny)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			out = append(out, XY{X: float64(x) * pitch, Y: float64(y) * pitch})
		}
	}
	return out
}

// WriteTempFile writes content to name inside a per-test temp directory and
// returns its path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// TestdataPath resolves a file under the repository's testdata directory.
// The path is resolved relative to this source file: place/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, name string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
