package cmd

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sasic-place/sasic-place/place"
	"github.com/sasic-place/sasic-place/place/flow"
	"github.com/sasic-place/sasic-place/place/report"
)

var (
	sweepKnob   string    // Knob to vary
	sweepValues []float64 // Values to try
)

// sweepRow is one line of the sweep output.
type sweepRow struct {
	Value          float64 `json:"value"`
	GreedyHPWL     float64 `json:"greedy_hpwl"`
	HPWL           float64 `json:"hpwl"`
	RuntimeSeconds float64 `json:"runtime_seconds"`
	Error          string  `json:"error,omitempty"`
}

// sweepCmd reruns the pipeline over a list of values for one knob
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the placer once per value of a numeric knob",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if err := runSweep(cmd, cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("sweep: %v", err)
		}
	},
}

func runSweep(cmd *cobra.Command, w io.Writer) error {
	if sweepKnob == "" || len(sweepValues) == 0 {
		return errors.Errorf("--knob and --values are required (knobs: %v)", flow.KnobNames())
	}
	d, err := loadDesign(designPath)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	pts, err := flow.Sweep(d.Fabric, d.Netlist, opts, sweepKnob, sweepValues)
	if err != nil {
		return err
	}
	rows := make([]sweepRow, len(pts))
	for i, p := range pts {
		rows[i] = sweepRow{
			Value:          p.Value,
			GreedyHPWL:     p.GreedyHPWL,
			HPWL:           p.HPWL,
			RuntimeSeconds: p.Runtime.Seconds(),
		}
		if p.Err != nil {
			rows[i].Error = p.Err.Error()
		}
	}
	return report.Write(w, rows)
}

func addSweepFlags(c *cobra.Command) {
	addCommonFlags(c)
	c.Flags().StringVar(&configPath, "config", "", "Run configuration YAML applied before the sweep")
	c.Flags().StringVar(&sweepKnob, "knob", "", "Knob to sweep, spelled as in the run config")
	c.Flags().Float64SliceVar(&sweepValues, "values", nil, "Comma-separated knob values")
	c.Flags().Int64Var(&seed, "seed", place.DefaultSeed, "Seed for the annealer")
	c.Flags().BoolVar(&noCTS, "no-cts", false, "Skip clock tree synthesis")
}
