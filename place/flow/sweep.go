package flow

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sasic-place/sasic-place/place"
)

// SweepPoint is the outcome of one value of a knob sweep.
type SweepPoint struct {
	Value      float64
	GreedyHPWL float64
	HPWL       float64
	Runtime    time.Duration
	Err        error // run failure for this value; other values still run
}

// Sweep runs the whole flow once per value of knob, each on a fresh state
// over the same fabric and netlist.
func Sweep(fab *place.Fabric, nl *place.Netlist, base Options, knob string, values []float64) ([]SweepPoint, error) {
	if err := SetKnob(&Options{}, knob, 0); err != nil {
		return nil, err
	}
	out := make([]SweepPoint, 0, len(values))
	for _, v := range values {
		opts := base
		_ = SetKnob(&opts, knob, v)
		pt := SweepPoint{Value: v}
		res, err := Run(fab, nl, opts)
		if err != nil {
			logrus.Warnf("sweep: %s=%v failed: %v", knob, v, err)
			pt.Err = err
		} else {
			pt.GreedyHPWL = res.GreedyHPWL
			pt.HPWL = res.HPWL
			pt.Runtime = res.Runtime
		}
		out = append(out, pt)
	}
	return out, nil
}
