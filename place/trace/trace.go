package trace

// AnnealTrace collects step and consistency-check records during one run.
type AnnealTrace struct {
	Steps  []StepRecord
	Checks []CheckRecord
}

// NewAnnealTrace creates an AnnealTrace ready for recording.
func NewAnnealTrace() *AnnealTrace {
	return &AnnealTrace{
		Steps:  make([]StepRecord, 0),
		Checks: make([]CheckRecord, 0),
	}
}

// RecordStep appends a temperature step record.
func (t *AnnealTrace) RecordStep(record StepRecord) {
	t.Steps = append(t.Steps, record)
}

// RecordCheck appends a consistency check record.
func (t *AnnealTrace) RecordCheck(record CheckRecord) {
	t.Checks = append(t.Checks, record)
}
