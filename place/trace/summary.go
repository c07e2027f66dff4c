package trace

// Summary aggregates statistics from an AnnealTrace.
type Summary struct {
	Steps          int     `json:"steps"`
	Accepted       int     `json:"accepted"`
	Rejected       int     `json:"rejected"`
	Skipped        int     `json:"skipped"`
	AcceptanceRate float64 `json:"acceptance_rate"` // accepted / (accepted + rejected)
	FirstHPWL      float64 `json:"first_hpwl"`
	LastHPWL       float64 `json:"last_hpwl"`
	BestHPWL       float64 `json:"best_hpwl"`
	BestStep       int     `json:"best_step"`
	Checks         int     `json:"checks"`
	MaxDrift       float64 `json:"max_drift"`
}

// Summarize computes aggregate statistics from an AnnealTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(t *AnnealTrace) *Summary {
	s := &Summary{BestStep: -1}
	if t == nil {
		return s
	}

	for i, r := range t.Steps {
		s.Accepted += r.Accepted
		s.Rejected += r.Rejected
		s.Skipped += r.Skipped
		if i == 0 {
			s.FirstHPWL = r.HPWL
		}
		if s.BestStep < 0 || r.HPWL < s.BestHPWL {
			s.BestHPWL = r.HPWL
			s.BestStep = r.Step
		}
		s.LastHPWL = r.HPWL
	}
	s.Steps = len(t.Steps)
	if decided := s.Accepted + s.Rejected; decided > 0 {
		s.AcceptanceRate = float64(s.Accepted) / float64(decided)
	}

	s.Checks = len(t.Checks)
	for _, c := range t.Checks {
		if d := c.Drift(); d > s.MaxDrift {
			s.MaxDrift = d
		}
	}
	return s
}
