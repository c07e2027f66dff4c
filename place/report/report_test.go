package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sasic-place/sasic-place/place/design"
	"github.com/sasic-place/sasic-place/place/flow"
	"github.com/sasic-place/sasic-place/place/internal/testutil"
)

func runTiny(t *testing.T, opts flow.Options) (*design.Design, *flow.Result) {
	t.Helper()
	d, err := design.Load(testutil.TestdataPath(t, "tiny.yaml"))
	require.NoError(t, err)
	res, err := flow.Run(d.Fabric, d.Netlist, opts)
	require.NoError(t, err)
	return d, res
}

func quickOptions() flow.Options {
	o := flow.DefaultOptions()
	o.Anneal.MovesPerTemp = 10
	o.Anneal.MaxTempSteps = 5
	o.Anneal.BatchSize = 4
	return o
}

func TestNew_FullRun(t *testing.T) {
	opts := quickOptions()
	d, res := runTiny(t, opts)

	r := New(d.Name, opts, res, 4)
	assert.Equal(t, "tiny", r.Design)
	assert.Equal(t, opts.Anneal.Seed, r.Seed)
	assert.Equal(t, 5, r.Cells)
	assert.Equal(t, res.HPWL, r.HPWL)
	assert.InDelta(t, r.HPWL, r.NetHPWL.Total, 1e-9)
	assert.Equal(t, r.Nets, r.NetHPWL.Nets)
	assert.InDelta(t, 2.0/3.0, r.Utilization["DFF"], 1e-12)
	assert.Equal(t, 5, r.Greedy.Seeded+r.Greedy.Grown)

	require.NotNil(t, r.Anneal)
	require.NotNil(t, r.Anneal.Trace)
	assert.Equal(t, r.Anneal.Steps, r.Anneal.Trace.Steps)
	assert.GreaterOrEqual(t, r.Anneal.Improvement, 0.0)

	require.NotNil(t, r.CTS)
	assert.Equal(t, 2, r.CTS.Sinks)
	assert.Equal(t, 1, r.CTS.Buffers)
	require.Len(t, r.CTS.Tree, 1)
	assert.Equal(t, "ROOT:clk", r.CTS.Tree[0].Parent)

	fanout := 0
	for _, b := range r.FanoutHistogram {
		fanout += b.Count
	}
	assert.Equal(t, r.Nets, fanout)
}

func TestNew_SkippedPhasesOmitted(t *testing.T) {
	opts := quickOptions()
	opts.SkipAnneal = true
	opts.SkipCTS = true
	d, res := runTiny(t, opts)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, New(d.Name, opts, res, 4)))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.NotContains(t, doc, "anneal")
	assert.NotContains(t, doc, "cts")
	assert.Contains(t, doc, "net_hpwl")
}

func TestCheck(t *testing.T) {
	d, res := runTiny(t, quickOptions())

	r := Check(d.Name, res.State, 4)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Problem)
	assert.Equal(t, 6, r.Placed)
	assert.Equal(t, 1, r.Claimed)
	assert.Zero(t, r.Unplaced)
	assert.InDelta(t, res.HPWL, r.HPWL, 1e-9)
}

func TestCheck_PartialMap(t *testing.T) {
	d, err := design.Load(testutil.TestdataPath(t, "tiny.yaml"))
	require.NoError(t, err)
	s, err := design.ApplyMap(d, map[string]string{"u1": "T0Y0__NAND_0", "r0": "T0Y0__DFF_0"})
	require.NoError(t, err)

	r := Check(d.Name, s, 4)
	assert.False(t, r.Valid)
	assert.True(t, strings.Contains(r.Problem, "not placed"))
	assert.Equal(t, 2, r.Placed)
	assert.Equal(t, 3, r.Unplaced)
}
