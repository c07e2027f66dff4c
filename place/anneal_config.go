package place

import (
	"fmt"
	"math"
)

// AnnealConfig groups the simulated annealing knobs.
type AnnealConfig struct {
	MovesPerTemp       int     // N: moves per batch per temperature step (> 0)
	CoolingRate        float64 // α: T ← T·α per step (0 < α < 1)
	InitialTemperature float64 // T₀; 0 = auto from the initial HPWL
	PRefine            float64 // probability of a refine move (0..1)
	RefineMaxDistance  float64 // R_refine: Manhattan radius of refine moves (≥ 0)
	InitialWindow      float64 // W₀: explore radius as a fraction of die extent (0..1)
	BatchSize          int     // B: cells per same-type batch (> 0)
	Seed               int64   // master seed of the partitioned RNG

	MinTemperature    float64 // floor; 0 = auto (T₀·1e-3)
	MaxTempSteps      int     // temperature step budget (> 0)
	WindowCoolingRate float64 // W ← W·rate per step; 0 = coupled to the temperature ratio
	VerifyEvery       int     // full HPWL recomputation every K moves; 0 = off
	KeepBest          bool    // restore the best assignment seen at step boundaries
}

// Defaults mirror the knob values the flow was tuned with.
const (
	DefaultMovesPerTemp      = 200
	DefaultCoolingRate       = 0.90
	DefaultPRefine           = 0.7
	DefaultRefineMaxDistance = 100.0
	DefaultInitialWindow     = 0.5
	DefaultBatchSize         = 24
	DefaultSeed              = 42
	DefaultMaxTempSteps      = 100

	// autoTemperatureDivisor sets T₀ = max(1, HPWL₀ / divisor).
	autoTemperatureDivisor = 50.0
	// autoFloorRatio sets the auto floor to T₀ · ratio.
	autoFloorRatio = 1e-3
)

// NewAnnealConfig returns the default annealing configuration.
func NewAnnealConfig() AnnealConfig {
	return AnnealConfig{
		MovesPerTemp:      DefaultMovesPerTemp,
		CoolingRate:       DefaultCoolingRate,
		PRefine:           DefaultPRefine,
		RefineMaxDistance: DefaultRefineMaxDistance,
		InitialWindow:     DefaultInitialWindow,
		BatchSize:         DefaultBatchSize,
		Seed:              DefaultSeed,
		MaxTempSteps:      DefaultMaxTempSteps,
		KeepBest:          true,
	}
}

// Validate rejects out-of-range knobs with *ConfigError.
func (c AnnealConfig) Validate() error {
	bad := func(field, format string, args ...any) error {
		return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
	}
	switch {
	case c.MovesPerTemp <= 0:
		return bad("moves_per_temp", "must be > 0, got %d", c.MovesPerTemp)
	case !(c.CoolingRate > 0 && c.CoolingRate < 1):
		return bad("cooling_rate", "must be in (0, 1), got %v", c.CoolingRate)
	case c.InitialTemperature < 0 || math.IsNaN(c.InitialTemperature) || math.IsInf(c.InitialTemperature, 0):
		return bad("initial_temperature", "must be finite and >= 0 (0 = auto), got %v", c.InitialTemperature)
	case !(c.PRefine >= 0 && c.PRefine <= 1):
		return bad("p_refine", "must be in [0, 1], got %v", c.PRefine)
	case !(c.RefineMaxDistance >= 0) || math.IsInf(c.RefineMaxDistance, 0):
		return bad("refine_max_distance", "must be finite and >= 0, got %v", c.RefineMaxDistance)
	case !(c.InitialWindow >= 0 && c.InitialWindow <= 1):
		return bad("initial_window", "must be in [0, 1], got %v", c.InitialWindow)
	case c.BatchSize <= 0:
		return bad("batch_size", "must be > 0, got %d", c.BatchSize)
	case !(c.MinTemperature >= 0) || math.IsInf(c.MinTemperature, 0):
		return bad("min_temperature", "must be finite and >= 0 (0 = auto), got %v", c.MinTemperature)
	case c.MaxTempSteps <= 0:
		return bad("max_temp_steps", "must be > 0, got %d", c.MaxTempSteps)
	case !(c.WindowCoolingRate >= 0 && c.WindowCoolingRate < 1):
		return bad("window_cooling_rate", "must be in [0, 1) (0 = coupled), got %v", c.WindowCoolingRate)
	case c.VerifyEvery < 0:
		return bad("verify_every", "must be >= 0, got %d", c.VerifyEvery)
	}
	return nil
}

// autoTemperature derives T₀ from the initial total HPWL.
func autoTemperature(hpwl float64) float64 {
	return math.Max(1.0, hpwl/autoTemperatureDivisor)
}
