// Package flow runs the placement pipeline on a loaded design:
// feasibility, levelization, seed & grow, annealing, validation and CTS.
package flow

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/sasic-place/sasic-place/place"
	"github.com/sasic-place/sasic-place/place/cts"
	"github.com/sasic-place/sasic-place/place/trace"
)

// CTSOptions configures the clock tree by type name. Empty type lists fall
// back to cts.DefaultTypes.
type CTSOptions struct {
	SinkTypes         []string
	BufferTypes       []string
	MaxLeafSinks      int
	MaxBufferDistance float64
}

// Options configures one pipeline run.
type Options struct {
	Anneal     place.AnnealConfig
	Levels     place.LevelOptions
	CTS        CTSOptions
	SkipAnneal bool
	SkipCTS    bool
}

// DefaultOptions returns the default pipeline configuration.
func DefaultOptions() Options {
	return Options{
		Anneal: place.NewAnnealConfig(),
		CTS:    CTSOptions{MaxLeafSinks: cts.DefaultMaxLeafSinks},
	}
}

// Result is everything a run produced.
type Result struct {
	State      *place.State
	Levels     *place.Levels
	Greedy     place.GreedyStats
	GreedyHPWL float64
	Anneal     *place.AnnealResult // nil when annealing was skipped
	Trace      *trace.AnnealTrace  // nil when annealing was skipped
	CTS        *cts.Result         // nil when CTS was skipped
	HPWL       float64             // final total HPWL
	Runtime    time.Duration
}

// Run places nl on fab. Inputs are not modified; all mutable state lives in
// the returned Result. Errors carry the failing phase and keep their typed
// cause for errors.As.
func Run(fab *place.Fabric, nl *place.Netlist, opts Options) (*Result, error) {
	start := time.Now()
	if err := opts.Anneal.Validate(); err != nil {
		return nil, err
	}
	ctsCfg, err := opts.ctsConfig(fab.Types())
	if err != nil {
		return nil, err
	}
	if err := place.CheckFeasibility(fab, nl); err != nil {
		return nil, errors.Wrap(err, "feasibility")
	}

	res := &Result{State: place.NewState(fab, nl)}
	res.Levels = place.Levelize(nl, opts.Levels)
	logrus.Infof("levelize: %d cells, max level %d, %d unreachable",
		nl.NumCells(), res.Levels.MaxLevel, res.Levels.Unreachable)

	res.Greedy, err = place.PlaceGreedy(res.State, res.Levels, opts.Levels)
	if err != nil {
		return nil, errors.Wrap(err, "greedy placement")
	}
	if err := res.State.Assign.Validate(true); err != nil {
		return nil, errors.Wrap(err, "greedy placement")
	}
	res.GreedyHPWL = place.TotalHPWL(res.State)
	logrus.Infof("greedy: HPWL %.3f", res.GreedyHPWL)

	if !opts.SkipAnneal {
		an, err := place.NewAnnealer(res.State, res.Levels, opts.Anneal)
		if err != nil {
			return nil, errors.Wrap(err, "anneal")
		}
		res.Anneal = an.Run()
		res.Trace = an.Trace()
		if err := res.State.Assign.Validate(true); err != nil {
			return nil, errors.Wrap(err, "anneal")
		}
	}

	if !opts.SkipCTS {
		res.CTS, err = cts.Build(res.State, ctsCfg)
		if err != nil {
			return nil, errors.Wrap(err, "cts")
		}
		if err := res.State.Assign.Validate(true); err != nil {
			return nil, errors.Wrap(err, "cts")
		}
	}

	res.HPWL = place.TotalHPWL(res.State)
	res.Runtime = time.Since(start)
	logrus.Infof("flow: final HPWL %.3f in %v", res.HPWL, res.Runtime)
	return res, nil
}

func (o Options) ctsConfig(reg *place.TypeRegistry) (cts.Config, error) {
	cfg := cts.NewConfig(reg)
	var err error
	if len(o.CTS.SinkTypes) > 0 {
		if cfg.SinkTypes, err = cts.ResolveTypes(reg, "sink_types", o.CTS.SinkTypes); err != nil {
			return cfg, err
		}
	}
	if len(o.CTS.BufferTypes) > 0 {
		if cfg.BufferTypes, err = cts.ResolveTypes(reg, "buffer_types", o.CTS.BufferTypes); err != nil {
			return cfg, err
		}
	}
	cfg.MaxLeafSinks = o.CTS.MaxLeafSinks
	cfg.MaxBufferDistance = o.CTS.MaxBufferDistance
	if o.SkipCTS {
		return cfg, nil
	}
	return cfg, cfg.Validate()
}
