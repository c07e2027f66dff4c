package trace

import "testing"

func TestAnnealTrace_RecordsInOrder(t *testing.T) {
	at := NewAnnealTrace()
	for i := 0; i < 3; i++ {
		at.RecordStep(StepRecord{Step: i})
	}
	at.RecordCheck(CheckRecord{Move: 7})

	if len(at.Steps) != 3 {
		t.Fatalf("expected 3 step records, got %d", len(at.Steps))
	}
	for i, r := range at.Steps {
		if r.Step != i {
			t.Errorf("record %d has step %d", i, r.Step)
		}
	}
	if len(at.Checks) != 1 || at.Checks[0].Move != 7 {
		t.Errorf("unexpected checks %+v", at.Checks)
	}
}

func TestCheckRecord_DriftIsAbsolute(t *testing.T) {
	if d := (CheckRecord{Tracked: 3, Recomputed: 5}).Drift(); d != 2 {
		t.Errorf("expected drift 2, got %f", d)
	}
	if d := (CheckRecord{Tracked: 5, Recomputed: 3}).Drift(); d != 2 {
		t.Errorf("expected drift 2, got %f", d)
	}
}
