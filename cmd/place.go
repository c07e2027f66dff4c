package cmd

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sasic-place/sasic-place/place"
	"github.com/sasic-place/sasic-place/place/design"
	"github.com/sasic-place/sasic-place/place/flow"
	"github.com/sasic-place/sasic-place/place/report"
)

var (
	// Annealer knobs; they override the run config only when set
	seed              int64   // Master seed of the partitioned RNG
	movesPerTemp      int     // Moves per batch per temperature step
	coolingRate       float64 // Geometric cooling factor
	initialTemp       float64 // Initial temperature, 0 = auto
	pRefine           float64 // Probability of a refine move
	refineMaxDistance float64 // Refine move radius
	initialWindow     float64 // Explore radius as a fraction of die extent
	batchSize         int     // Cells per same-type batch
	maxTempSteps      int     // Temperature step budget
	verifyEvery       int     // Full HPWL recomputation interval, 0 = off
	maxNetFanout      int     // Levelization fanout limit, 0 = unlimited
	noAnneal          bool    // Stop after greedy placement
	noCTS             bool    // Skip clock tree synthesis

	// Outputs
	mapOut    string // Placement map path
	reportOut string // Report path, stdout when empty
	traceOut  string // Annealing trace path
)

// placeCmd runs the full pipeline on a design
var placeCmd = &cobra.Command{
	Use:   "place",
	Short: "Place a design and build its clock tree",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if err := runPlace(cmd, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("place: %v", err)
		}
	},
}

func runPlace(cmd *cobra.Command, w io.Writer) error {
	d, err := loadDesign(designPath)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	logrus.Infof("Placing %s: seed=%d, moves/temp=%d, cooling=%v, batch=%d",
		d.Name, opts.Anneal.Seed, opts.Anneal.MovesPerTemp, opts.Anneal.CoolingRate, opts.Anneal.BatchSize)

	res, err := flow.Run(d.Fabric, d.Netlist, opts)
	if err != nil {
		return err
	}
	if res.CTS != nil && res.CTS.Warning != nil && len(res.CTS.Warning.Uncovered) > 0 {
		logrus.Warnf("CTS left sinks on the raw clock net: %s", res.CTS.Warning.UncoveredNames(res.State))
	}

	if mapOut != "" {
		err := writeOutput(mapOut, func(f io.Writer) error {
			return design.WriteMap(f, res.State.Assign.Rows())
		})
		if err != nil {
			return err
		}
	}
	if traceOut != "" && res.Trace != nil {
		if err := writeOutput(traceOut, func(f io.Writer) error { return report.Write(f, res.Trace) }); err != nil {
			return err
		}
	}

	rep := report.New(d.Name, opts, res, histogramBins)
	if reportOut != "" {
		return writeOutput(reportOut, func(f io.Writer) error { return report.Write(f, rep) })
	}
	return report.Write(w, rep)
}

// buildOptions layers defaults, the run config file and explicitly set
// flags, in that order.
func buildOptions(cmd *cobra.Command) (flow.Options, error) {
	opts := flow.DefaultOptions()
	if configPath != "" {
		p, err := expandPath(configPath)
		if err != nil {
			return opts, err
		}
		bundle, err := flow.LoadBundle(p)
		if err != nil {
			return opts, err
		}
		if err := bundle.Validate(); err != nil {
			return opts, errors.Wrapf(err, "run config %s", p)
		}
		bundle.ApplyTo(&opts)
	}

	f := cmd.Flags()
	overrides := []struct {
		flag  string
		apply func()
	}{
		{"seed", func() { opts.Anneal.Seed = seed }},
		{"moves-per-temp", func() { opts.Anneal.MovesPerTemp = movesPerTemp }},
		{"cooling-rate", func() { opts.Anneal.CoolingRate = coolingRate }},
		{"initial-temperature", func() { opts.Anneal.InitialTemperature = initialTemp }},
		{"p-refine", func() { opts.Anneal.PRefine = pRefine }},
		{"refine-max-distance", func() { opts.Anneal.RefineMaxDistance = refineMaxDistance }},
		{"initial-window", func() { opts.Anneal.InitialWindow = initialWindow }},
		{"batch-size", func() { opts.Anneal.BatchSize = batchSize }},
		{"max-temp-steps", func() { opts.Anneal.MaxTempSteps = maxTempSteps }},
		{"verify-every", func() { opts.Anneal.VerifyEvery = verifyEvery }},
		{"max-net-fanout", func() { opts.Levels.MaxNetFanout = maxNetFanout }},
		{"no-anneal", func() { opts.SkipAnneal = noAnneal }},
		{"no-cts", func() { opts.SkipCTS = noCTS }},
	}
	for _, o := range overrides {
		if f.Lookup(o.flag) != nil && f.Changed(o.flag) {
			o.apply()
		}
	}
	return opts, nil
}

func addPlaceFlags(c *cobra.Command) {
	addCommonFlags(c)
	c.Flags().StringVar(&configPath, "config", "", "Run configuration YAML (anneal, levelize, cts sections)")

	c.Flags().Int64Var(&seed, "seed", place.DefaultSeed, "Seed for the annealer")
	c.Flags().IntVar(&movesPerTemp, "moves-per-temp", place.DefaultMovesPerTemp, "Moves per batch per temperature step")
	c.Flags().Float64Var(&coolingRate, "cooling-rate", place.DefaultCoolingRate, "Geometric cooling factor in (0, 1)")
	c.Flags().Float64Var(&initialTemp, "initial-temperature", 0, "Initial temperature (0 = auto from greedy HPWL)")
	c.Flags().Float64Var(&pRefine, "p-refine", place.DefaultPRefine, "Probability of a short-range refine move")
	c.Flags().Float64Var(&refineMaxDistance, "refine-max-distance", place.DefaultRefineMaxDistance, "Manhattan radius of refine moves")
	c.Flags().Float64Var(&initialWindow, "initial-window", place.DefaultInitialWindow, "Initial explore radius as a fraction of die extent")
	c.Flags().IntVar(&batchSize, "batch-size", place.DefaultBatchSize, "Cells per same-type batch")
	c.Flags().IntVar(&maxTempSteps, "max-temp-steps", place.DefaultMaxTempSteps, "Temperature step budget")
	c.Flags().IntVar(&verifyEvery, "verify-every", 0, "Recompute full HPWL every K moves (0 = off)")
	c.Flags().IntVar(&maxNetFanout, "max-net-fanout", 0, "Ignore nets above this fanout during levelization (0 = unlimited)")
	c.Flags().BoolVar(&noAnneal, "no-anneal", false, "Stop after greedy placement")
	c.Flags().BoolVar(&noCTS, "no-cts", false, "Skip clock tree synthesis")

	c.Flags().StringVar(&mapOut, "map", "", "Write the placement map to this path")
	c.Flags().StringVar(&reportOut, "report", "", "Write the JSON report to this path instead of stdout")
	c.Flags().StringVar(&traceOut, "trace", "", "Write the per-step annealing trace as JSON")
}
