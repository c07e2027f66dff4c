package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sasic-place/sasic-place/place/internal/testutil"
)

func TestLoadBundle_AppliesOnlySetFields(t *testing.T) {
	path := testutil.WriteTempFile(t, "run.yaml", `
anneal:
  cooling_rate: 0.8
  seed: 7
  keep_best: false
levelize:
  max_net_fanout: 16
cts:
  buffer_types: [BUF]
  max_leaf_sinks: 2
`)
	b, err := LoadBundle(path)
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	o := DefaultOptions()
	b.ApplyTo(&o)
	assert.Equal(t, 0.8, o.Anneal.CoolingRate)
	assert.Equal(t, int64(7), o.Anneal.Seed)
	assert.False(t, o.Anneal.KeepBest)
	assert.Equal(t, 16, o.Levels.MaxNetFanout)
	assert.Equal(t, []string{"BUF"}, o.CTS.BufferTypes)
	assert.Empty(t, o.CTS.SinkTypes)
	assert.Equal(t, 2, o.CTS.MaxLeafSinks)

	// untouched knobs keep their defaults
	def := DefaultOptions()
	assert.Equal(t, def.Anneal.MovesPerTemp, o.Anneal.MovesPerTemp)
	assert.Equal(t, def.Anneal.PRefine, o.Anneal.PRefine)
	assert.False(t, o.SkipAnneal)
	assert.False(t, o.SkipCTS)
}

func TestLoadBundle_EmptyFile(t *testing.T) {
	b, err := LoadBundle(testutil.WriteTempFile(t, "run.yaml", ""))
	require.NoError(t, err)
	o := DefaultOptions()
	b.ApplyTo(&o)
	assert.Equal(t, DefaultOptions(), o)
}

func TestLoadBundle_RejectsUnknownKeys(t *testing.T) {
	_, err := LoadBundle(testutil.WriteTempFile(t, "run.yaml", "anneal:\n  colling_rate: 0.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colling_rate")
}

func TestLoadBundle_MissingFile(t *testing.T) {
	_, err := LoadBundle("/nonexistent/run.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading run config")
}

func TestRunBundle_Validate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"moves", "anneal: {moves_per_temp: 0}", "moves_per_temp"},
		{"cooling", "anneal: {cooling_rate: 1.0}", "cooling_rate"},
		{"batch", "anneal: {batch_size: -3}", "batch_size"},
		{"fanout", "levelize: {max_net_fanout: -1}", "max_net_fanout"},
		{"leaf", "cts: {max_leaf_sinks: 0}", "max_leaf_sinks"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := LoadBundle(testutil.WriteTempFile(t, "run.yaml", tc.yaml))
			require.NoError(t, err)
			err = b.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestRunBundle_SkipFlags(t *testing.T) {
	b, err := LoadBundle(testutil.WriteTempFile(t, "run.yaml", "anneal: {skip: true}\ncts: {skip: true}\n"))
	require.NoError(t, err)
	o := DefaultOptions()
	b.ApplyTo(&o)
	assert.True(t, o.SkipAnneal)
	assert.True(t, o.SkipCTS)
}

func TestSetKnob(t *testing.T) {
	o := DefaultOptions()
	require.NoError(t, SetKnob(&o, "moves_per_temp", 12))
	require.NoError(t, SetKnob(&o, "max_buffer_distance", 2.5))
	assert.Equal(t, 12, o.Anneal.MovesPerTemp)
	assert.Equal(t, 2.5, o.CTS.MaxBufferDistance)

	err := SetKnob(&o, "temperature", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cooling_rate")
}

func TestKnobNames_Sorted(t *testing.T) {
	names := KnobNames()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "seed")
}
