package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sasic-place/sasic-place/place"
	"github.com/sasic-place/sasic-place/place/report"
)

const tinyDesign = "../testdata/tiny.yaml"

// parsed returns a throwaway command with flags registered by add and
// parsed from args. Registering rebinds the package flag variables to their
// defaults, so every test starts clean.
func parsed(t *testing.T, add func(*cobra.Command), args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	add(c)
	require.NoError(t, c.Flags().Parse(args))
	return c
}

func TestRunPlace_WritesReportMapAndTrace(t *testing.T) {
	// GIVEN a quick placement of the tiny design
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "tiny.map")
	tracePath := filepath.Join(dir, "trace.json")
	c := parsed(t, addPlaceFlags,
		"--design", tinyDesign,
		"--moves-per-temp", "10",
		"--max-temp-steps", "5",
		"--map", mapPath,
		"--trace", tracePath,
	)

	// WHEN the place command runs
	var out bytes.Buffer
	require.NoError(t, runPlace(c, &out))

	// THEN the report on stdout describes the run
	var rep report.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))
	assert.Equal(t, "tiny", rep.Design)
	assert.Equal(t, int64(place.DefaultSeed), rep.Seed)
	require.NotNil(t, rep.Anneal)
	assert.Equal(t, 5, rep.Anneal.Steps)
	require.NotNil(t, rep.CTS)
	assert.Equal(t, 1, rep.CTS.Buffers)

	// AND the map lists every netlist cell plus the claimed clock buffer
	data, err := os.ReadFile(mapPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 6)
	assert.Contains(t, string(data), "cts_htree_0_0 ")

	// AND the trace has one record per temperature step
	var tr struct {
		Steps []json.RawMessage
	}
	data, err = os.ReadFile(tracePath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &tr))
	assert.Len(t, tr.Steps, 5)

	// AND check accepts the written map
	parsed(t, addCheckFlags, "--design", tinyDesign, "--map", mapPath)
	out.Reset()
	require.NoError(t, runCheck(&out))
	var chk report.CheckReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &chk))
	assert.True(t, chk.Valid)
	assert.Equal(t, 1, chk.Claimed)
	assert.InDelta(t, rep.HPWL, chk.HPWL, 1e-9)
}

func TestRunPlace_ReportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	c := parsed(t, addPlaceFlags, "--design", tinyDesign, "--no-anneal", "--no-cts", "--report", path)

	var out bytes.Buffer
	require.NoError(t, runPlace(c, &out))
	assert.Zero(t, out.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rep report.Report
	require.NoError(t, json.Unmarshal(data, &rep))
	assert.Nil(t, rep.Anneal)
	assert.Nil(t, rep.CTS)
	assert.Equal(t, rep.Greedy.HPWL, rep.HPWL)
}

func TestRunPlace_MissingDesign(t *testing.T) {
	c := parsed(t, addPlaceFlags)
	err := runPlace(c, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--design")
}

func TestBuildOptions_FlagsOverrideConfig(t *testing.T) {
	// GIVEN a run config that sets the seed and the cooling rate
	cfg := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("anneal:\n  seed: 7\n  cooling_rate: 0.8\ncts:\n  skip: true\n"), 0o644))

	// WHEN only --seed is passed on the command line
	c := parsed(t, addPlaceFlags, "--config", cfg, "--seed", "9")
	opts, err := buildOptions(c)
	require.NoError(t, err)

	// THEN the flag wins for the seed and the file wins for the rest
	assert.Equal(t, int64(9), opts.Anneal.Seed)
	assert.Equal(t, 0.8, opts.Anneal.CoolingRate)
	assert.Equal(t, place.DefaultMovesPerTemp, opts.Anneal.MovesPerTemp)
	assert.True(t, opts.SkipCTS)
}

func TestBuildOptions_DefaultsWithoutConfig(t *testing.T) {
	c := parsed(t, addPlaceFlags)
	opts, err := buildOptions(c)
	require.NoError(t, err)
	assert.Equal(t, place.NewAnnealConfig(), opts.Anneal)
	assert.False(t, opts.SkipAnneal)
}

func TestBuildOptions_BadConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("anneal:\n  cooling_rate: 2\n"), 0o644))

	c := parsed(t, addPlaceFlags, "--config", cfg)
	_, err := buildOptions(c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cooling_rate")
}

func TestRunCheck_IncompleteMap(t *testing.T) {
	mapPath := filepath.Join(t.TempDir(), "partial.map")
	require.NoError(t, os.WriteFile(mapPath, []byte("# partial\nu1 T0Y0__NAND_0\n"), 0o644))
	parsed(t, addCheckFlags, "--design", tinyDesign, "--map", mapPath)

	var out bytes.Buffer
	err := runCheck(&out)
	assert.ErrorIs(t, err, errInvalidPlacement)

	var chk report.CheckReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &chk))
	assert.False(t, chk.Valid)
	assert.Equal(t, 4, chk.Unplaced)
}

func TestRunSweep(t *testing.T) {
	c := parsed(t, addSweepFlags,
		"--design", tinyDesign,
		"--knob", "seed",
		"--values", "1,2",
		"--no-cts",
	)
	var out bytes.Buffer
	require.NoError(t, runSweep(c, &out))

	var rows []sweepRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 1.0, rows[0].Value)
	assert.Equal(t, 2.0, rows[1].Value)
	assert.Empty(t, rows[0].Error)
	assert.Equal(t, rows[0].GreedyHPWL, rows[1].GreedyHPWL)
}

func TestRunSweep_RequiresKnob(t *testing.T) {
	c := parsed(t, addSweepFlags, "--design", tinyDesign)
	err := runSweep(c, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_temp_steps")
}

func TestExpandPath(t *testing.T) {
	p, err := expandPath("~/designs/tiny.yaml")
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(p, "~"))
	assert.True(t, strings.HasSuffix(p, filepath.Join("designs", "tiny.yaml")))

	p, err = expandPath("rel/path.yaml")
	require.NoError(t, err)
	assert.Equal(t, "rel/path.yaml", p)
}
