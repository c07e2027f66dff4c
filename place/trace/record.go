// Package trace provides annealing-trace recording for placement analysis.
// It has no dependencies on place/ and stores pure data types.
package trace

// StepRecord captures one annealing temperature step.
type StepRecord struct {
	Step        int     `json:"step"`
	Temperature float64 `json:"temperature"`
	Window      float64 `json:"window"` // explore radius in fabric units
	Accepted    int     `json:"accepted"`
	Rejected    int     `json:"rejected"`
	Skipped     int     `json:"skipped"` // moves with no same-type partner in range
	HPWL        float64 `json:"hpwl"`
}

// CheckRecord captures one full-HPWL consistency check.
type CheckRecord struct {
	Move       int     `json:"move"`
	Tracked    float64 `json:"tracked"`
	Recomputed float64 `json:"recomputed"`
}

// Drift returns the absolute difference between tracked and recomputed HPWL.
func (c CheckRecord) Drift() float64 {
	d := c.Tracked - c.Recomputed
	if d < 0 {
		return -d
	}
	return d
}
