package report

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/sasic-place/sasic-place/place"
	"github.com/sasic-place/sasic-place/place/cts"
	"github.com/sasic-place/sasic-place/place/flow"
	"github.com/sasic-place/sasic-place/place/trace"
)

// Report is the machine-readable summary of one placement run.
type Report struct {
	Design          string             `json:"design"`
	Seed            int64              `json:"seed"`
	Cells           int                `json:"cells"`
	Nets            int                `json:"nets"`
	Utilization     map[string]float64 `json:"utilization"`
	Greedy          GreedySection      `json:"greedy"`
	Anneal          *AnnealSection     `json:"anneal,omitempty"`
	CTS             *CTSSection        `json:"cts,omitempty"`
	HPWL            float64            `json:"hpwl"`
	NetHPWL         NetStats           `json:"net_hpwl"`
	HPWLHistogram   []Bin              `json:"hpwl_histogram"`
	FanoutHistogram []Bin              `json:"fanout_histogram"`
	RuntimeSeconds  float64            `json:"runtime_seconds"`
}

type GreedySection struct {
	Seeded   int     `json:"seeded"`
	Grown    int     `json:"grown"`
	Fallback int     `json:"fallback"`
	HPWL     float64 `json:"hpwl"`
}

type AnnealSection struct {
	InitialHPWL        float64        `json:"initial_hpwl"`
	FinalHPWL          float64        `json:"final_hpwl"`
	BestHPWL           float64        `json:"best_hpwl"`
	Improvement        float64        `json:"improvement"` // 1 - final/initial
	InitialTemperature float64        `json:"initial_temperature"`
	FinalTemperature   float64        `json:"final_temperature"`
	Steps              int            `json:"steps"`
	Moves              int            `json:"moves"`
	Restored           bool           `json:"restored"`
	Trace              *trace.Summary `json:"trace"`
}

type CTSSection struct {
	Sinks     int          `json:"sinks"`
	Buffers   int          `json:"buffers"`
	Depth     int          `json:"depth"`
	Degraded  int          `json:"degraded_partitions"`
	Uncovered []string     `json:"uncovered,omitempty"`
	Tree      []cts.Record `json:"tree"`
}

// New builds the report of a finished run. bins sets the histogram size.
func New(name string, opts flow.Options, res *flow.Result, bins int) *Report {
	s := res.State
	perNet := place.PerNetHPWL(s)
	r := &Report{
		Design:          name,
		Seed:            opts.Anneal.Seed,
		Cells:           s.Netlist.NumCells(),
		Nets:            s.Netlist.NumNets(),
		Utilization:     place.Utilization(s.Fabric, s.Netlist),
		HPWL:            res.HPWL,
		NetHPWL:         ComputeNetStats(perNet),
		HPWLHistogram:   Histogram(perNet, bins),
		FanoutHistogram: Histogram(fanouts(s.Netlist), bins),
		RuntimeSeconds:  res.Runtime.Seconds(),
		Greedy: GreedySection{
			Seeded:   res.Greedy.Seeded,
			Grown:    res.Greedy.Grown,
			Fallback: res.Greedy.Fallback,
			HPWL:     res.GreedyHPWL,
		},
	}
	if a := res.Anneal; a != nil {
		r.Anneal = &AnnealSection{
			InitialHPWL:        a.InitialHPWL,
			FinalHPWL:          a.FinalHPWL,
			BestHPWL:           a.BestHPWL,
			InitialTemperature: a.InitialTemperature,
			FinalTemperature:   a.FinalTemperature,
			Steps:              a.Steps,
			Moves:              a.Moves,
			Restored:           a.Restored,
			Trace:              trace.Summarize(res.Trace),
		}
		if a.InitialHPWL > 0 {
			r.Anneal.Improvement = 1 - a.FinalHPWL/a.InitialHPWL
		}
	}
	if c := res.CTS; c != nil {
		r.CTS = &CTSSection{
			Sinks:   c.Sinks,
			Buffers: len(c.Tree.Buffers),
			Depth:   c.Tree.Depth(),
			Tree:    c.Tree.Records(s),
		}
		if w := c.Warning; w != nil {
			r.CTS.Degraded = w.Partitions
			for _, id := range w.Uncovered {
				r.CTS.Uncovered = append(r.CTS.Uncovered, s.Assign.Name(id))
			}
		}
	}
	return r
}

// CheckReport is the outcome of validating an existing placement map.
type CheckReport struct {
	Design        string   `json:"design"`
	Placed        int      `json:"placed"`
	Unplaced      int      `json:"unplaced"`
	Claimed       int      `json:"claimed"` // placed cells outside the netlist
	Valid         bool     `json:"valid"`
	Problem       string   `json:"problem,omitempty"`
	HPWL          float64  `json:"hpwl"`
	NetHPWL       NetStats `json:"net_hpwl"`
	HPWLHistogram []Bin    `json:"hpwl_histogram"`
}

// Check validates s and summarizes its wirelength. HPWL covers placed cells
// only, so a partial map still gets a figure.
func Check(name string, s *place.State, bins int) *CheckReport {
	placedNetlist := 0
	for c := 0; c < s.Netlist.NumCells(); c++ {
		if _, ok := s.Assign.SlotOf(place.CellID(c)); ok {
			placedNetlist++
		}
	}
	perNet := place.PerNetHPWL(s)
	r := &CheckReport{
		Design:        name,
		Placed:        s.Assign.NumAssigned(),
		Unplaced:      s.Netlist.NumCells() - placedNetlist,
		Claimed:       s.Assign.NumAssigned() - placedNetlist,
		Valid:         true,
		HPWL:          place.TotalHPWL(s),
		NetHPWL:       ComputeNetStats(perNet),
		HPWLHistogram: Histogram(perNet, bins),
	}
	if err := s.Assign.Validate(true); err != nil {
		r.Valid = false
		r.Problem = err.Error()
	}
	return r
}

// fanouts returns the terminal count (cell ports plus pins) of every net.
func fanouts(nl *place.Netlist) []int {
	out := make([]int, nl.NumNets())
	for i := range out {
		n := nl.Net(i)
		out[i] = len(n.Members) + len(n.Pins)
	}
	return out
}

// Write encodes v as indented JSON.
func Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "writing report")
}
