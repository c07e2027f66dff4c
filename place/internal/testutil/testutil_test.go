package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridPoints_RowMajor(t *testing.T) {
	pts := GridPoints(3, 2, 2)
	require.Len(t, pts, 6)
	assert.Equal(t, XY{0, 0}, pts[0])
	assert.Equal(t, XY{4, 0}, pts[2])
	assert.Equal(t, XY{0, 2}, pts[3])
}

func TestWriteTempFile_RoundTrip(t *testing.T) {
	path := WriteTempFile(t, "a.yaml", "x: 1\n")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x: 1\n", string(data))
}

func TestAssertFloat64Equal_WithinTolerance(t *testing.T) {
	AssertFloat64Equal(t, "close", 100, 100.0000001, 1e-6)
	AssertFloat64Equal(t, "zero", 0, 0, 1e-9)
}
