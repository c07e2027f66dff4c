package flow

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RunBundle holds a run configuration loadable from a YAML file.
// Nil pointer fields mean "not set in YAML": they do not override Options.
type RunBundle struct {
	Anneal   AnnealSection   `yaml:"anneal"`
	Levelize LevelizeSection `yaml:"levelize"`
	CTS      CTSSection      `yaml:"cts"`
}

// AnnealSection holds annealer knobs.
type AnnealSection struct {
	MovesPerTemp       *int     `yaml:"moves_per_temp"`
	CoolingRate        *float64 `yaml:"cooling_rate"`
	InitialTemperature *float64 `yaml:"initial_temperature"`
	PRefine            *float64 `yaml:"p_refine"`
	RefineMaxDistance  *float64 `yaml:"refine_max_distance"`
	InitialWindow      *float64 `yaml:"initial_window"`
	BatchSize          *int     `yaml:"batch_size"`
	Seed               *int64   `yaml:"seed"`
	MinTemperature     *float64 `yaml:"min_temperature"`
	MaxTempSteps       *int     `yaml:"max_temp_steps"`
	WindowCoolingRate  *float64 `yaml:"window_cooling_rate"`
	VerifyEvery        *int     `yaml:"verify_every"`
	KeepBest           *bool    `yaml:"keep_best"`
	Skip               *bool    `yaml:"skip"`
}

// LevelizeSection holds levelization knobs.
type LevelizeSection struct {
	MaxNetFanout *int `yaml:"max_net_fanout"`
}

// CTSSection holds clock tree knobs.
type CTSSection struct {
	SinkTypes         []string `yaml:"sink_types"`
	BufferTypes       []string `yaml:"buffer_types"`
	MaxLeafSinks      *int     `yaml:"max_leaf_sinks"`
	MaxBufferDistance *float64 `yaml:"max_buffer_distance"`
	Skip              *bool    `yaml:"skip"`
}

// LoadBundle reads and strictly parses a YAML run configuration file.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func LoadBundle(path string) (*RunBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading run config")
	}
	var bundle RunBundle
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&bundle); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "parsing run config %s", path)
	}
	return &bundle, nil
}

// Validate checks parameter ranges that can be judged without a design.
// Full range checks run again on the merged Options.
func (b *RunBundle) Validate() error {
	a := b.Anneal
	if a.MovesPerTemp != nil && *a.MovesPerTemp <= 0 {
		return fmt.Errorf("moves_per_temp must be positive, got %d", *a.MovesPerTemp)
	}
	if a.CoolingRate != nil && (*a.CoolingRate <= 0 || *a.CoolingRate >= 1) {
		return fmt.Errorf("cooling_rate must be in (0, 1), got %f", *a.CoolingRate)
	}
	if a.BatchSize != nil && *a.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", *a.BatchSize)
	}
	if b.Levelize.MaxNetFanout != nil && *b.Levelize.MaxNetFanout < 0 {
		return fmt.Errorf("max_net_fanout must be non-negative, got %d", *b.Levelize.MaxNetFanout)
	}
	if b.CTS.MaxLeafSinks != nil && *b.CTS.MaxLeafSinks < 1 {
		return fmt.Errorf("max_leaf_sinks must be >= 1, got %d", *b.CTS.MaxLeafSinks)
	}
	return nil
}

// ApplyTo overrides the fields of o that the bundle sets.
func (b *RunBundle) ApplyTo(o *Options) {
	a := b.Anneal
	setInt(&o.Anneal.MovesPerTemp, a.MovesPerTemp)
	setFloat(&o.Anneal.CoolingRate, a.CoolingRate)
	setFloat(&o.Anneal.InitialTemperature, a.InitialTemperature)
	setFloat(&o.Anneal.PRefine, a.PRefine)
	setFloat(&o.Anneal.RefineMaxDistance, a.RefineMaxDistance)
	setFloat(&o.Anneal.InitialWindow, a.InitialWindow)
	setInt(&o.Anneal.BatchSize, a.BatchSize)
	if a.Seed != nil {
		o.Anneal.Seed = *a.Seed
	}
	setFloat(&o.Anneal.MinTemperature, a.MinTemperature)
	setInt(&o.Anneal.MaxTempSteps, a.MaxTempSteps)
	setFloat(&o.Anneal.WindowCoolingRate, a.WindowCoolingRate)
	setInt(&o.Anneal.VerifyEvery, a.VerifyEvery)
	setBool(&o.Anneal.KeepBest, a.KeepBest)
	setBool(&o.SkipAnneal, a.Skip)

	setInt(&o.Levels.MaxNetFanout, b.Levelize.MaxNetFanout)

	if len(b.CTS.SinkTypes) > 0 {
		o.CTS.SinkTypes = append([]string(nil), b.CTS.SinkTypes...)
	}
	if len(b.CTS.BufferTypes) > 0 {
		o.CTS.BufferTypes = append([]string(nil), b.CTS.BufferTypes...)
	}
	setInt(&o.CTS.MaxLeafSinks, b.CTS.MaxLeafSinks)
	setFloat(&o.CTS.MaxBufferDistance, b.CTS.MaxBufferDistance)
	setBool(&o.SkipCTS, b.CTS.Skip)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

// knobs maps numeric knob names, as spelled in the run file, to their
// Options fields. Used by parameter sweeps.
var knobs = map[string]func(o *Options, v float64){
	"moves_per_temp":      func(o *Options, v float64) { o.Anneal.MovesPerTemp = int(v) },
	"cooling_rate":        func(o *Options, v float64) { o.Anneal.CoolingRate = v },
	"initial_temperature": func(o *Options, v float64) { o.Anneal.InitialTemperature = v },
	"p_refine":            func(o *Options, v float64) { o.Anneal.PRefine = v },
	"refine_max_distance": func(o *Options, v float64) { o.Anneal.RefineMaxDistance = v },
	"initial_window":      func(o *Options, v float64) { o.Anneal.InitialWindow = v },
	"batch_size":          func(o *Options, v float64) { o.Anneal.BatchSize = int(v) },
	"seed":                func(o *Options, v float64) { o.Anneal.Seed = int64(v) },
	"min_temperature":     func(o *Options, v float64) { o.Anneal.MinTemperature = v },
	"max_temp_steps":      func(o *Options, v float64) { o.Anneal.MaxTempSteps = int(v) },
	"window_cooling_rate": func(o *Options, v float64) { o.Anneal.WindowCoolingRate = v },
	"max_net_fanout":      func(o *Options, v float64) { o.Levels.MaxNetFanout = int(v) },
	"max_leaf_sinks":      func(o *Options, v float64) { o.CTS.MaxLeafSinks = int(v) },
	"max_buffer_distance": func(o *Options, v float64) { o.CTS.MaxBufferDistance = v },
}

// KnobNames returns the names accepted by SetKnob, sorted.
func KnobNames() []string {
	out := make([]string, 0, len(knobs))
	for k := range knobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// SetKnob sets the named numeric knob on o.
func SetKnob(o *Options, name string, v float64) error {
	set, ok := knobs[name]
	if !ok {
		return fmt.Errorf("unknown knob %q (valid: %v)", name, KnobNames())
	}
	set(o, v)
	return nil
}
