package place

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/sasic-place/sasic-place/place/trace"
)

// partnerAttempts bounds the uniform draws from a type's population before
// falling back to a spatial scan of the move radius.
const partnerAttempts = 16

// driftTolerance is the relative HPWL drift tolerated by the consistency check.
const driftTolerance = 1e-6

// batch is a same-type group of cells processed together per temperature step.
type batch struct {
	typ   CellType
	cells []CellID
}

// AnnealResult summarizes one annealing run.
type AnnealResult struct {
	InitialHPWL        float64
	FinalHPWL          float64
	BestHPWL           float64 // best HPWL seen at a step boundary (or initially)
	InitialTemperature float64
	FinalTemperature   float64
	Steps              int
	Moves              int
	Accepted           int
	Rejected           int
	Skipped            int
	Restored           bool // final assignment was rolled back to the best snapshot
}

// Annealer refines a complete Assignment in place by same-type slot swaps
// under a Metropolis acceptance rule. Every move preserves the bijection and
// type invariants, so no move can fail.
//
// Thread-safety: NOT thread-safe. Batches run sequentially because
// acceptance depends on shared occupancy and a shared temperature schedule.
type Annealer struct {
	s        *State
	cfg      AnnealConfig
	rng      *PartitionedRNG
	batches  []batch
	pop      [][]CellID  // CellType → netlist cells
	occupied []*slotGrid // CellType → slots held by pop; fixed under swaps
	netCost  []float64   // tracked HPWL per net
	total    float64
	moves    int
	trace    *trace.AnnealTrace

	scratchNets []int
	scratchCost []float64
	cands       []CellID
}

// NewAnnealer validates cfg and prepares batches over a fully placed state.
// Cells are batched per type in levelized order (CellID order if lv is nil).
func NewAnnealer(s *State, lv *Levels, cfg AnnealConfig) (*Annealer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nl := s.Netlist
	for i := 0; i < nl.NumCells(); i++ {
		if _, ok := s.Assign.SlotOf(CellID(i)); !ok {
			return nil, fmt.Errorf("annealer needs a complete placement: cell %s is unassigned", nl.Cell(CellID(i)).Name)
		}
	}

	an := &Annealer{
		s:       s,
		cfg:     cfg,
		rng:     NewPartitionedRNG(NewRunKey(cfg.Seed)),
		pop:     make([][]CellID, nl.Types().Len()),
		netCost: make([]float64, nl.NumNets()),
		trace:   trace.NewAnnealTrace(),
	}

	order := make([]CellID, 0, nl.NumCells())
	if lv != nil {
		order = append(order, lv.Order...)
	} else {
		for i := 0; i < nl.NumCells(); i++ {
			order = append(order, CellID(i))
		}
	}
	for _, c := range order {
		t := nl.Cell(c).Type
		an.pop[t] = append(an.pop[t], c)
	}

	an.occupied = make([]*slotGrid, len(an.pop))
	for t, cells := range an.pop {
		slots := make([]SlotID, len(cells))
		for i, c := range cells {
			slots[i], _ = s.Assign.SlotOf(c)
		}
		an.occupied[t] = newSlotGrid(s.Fabric, slots)
		for i := 0; i < len(cells); i += cfg.BatchSize {
			end := i + cfg.BatchSize
			if end > len(cells) {
				end = len(cells)
			}
			an.batches = append(an.batches, batch{typ: CellType(t), cells: cells[i:end]})
		}
	}

	an.resync()
	return an, nil
}

// HPWL returns the incrementally tracked total HPWL.
func (an *Annealer) HPWL() float64 { return an.total }

// Trace returns the per-step trace of the last Run.
func (an *Annealer) Trace() *trace.AnnealTrace { return an.trace }

// resync recomputes every net's cost and the total from scratch.
func (an *Annealer) resync() {
	an.total = 0
	for i := range an.netCost {
		an.netCost[i] = NetHPWL(an.s, i)
		an.total += an.netCost[i]
	}
}

// Run anneals until the temperature drops below the floor or the step budget
// is spent. Same seed and configuration on the same input give the same
// final assignment.
func (an *Annealer) Run() *AnnealResult {
	cfg := an.cfg
	res := &AnnealResult{InitialHPWL: an.total, BestHPWL: an.total}

	temp := cfg.InitialTemperature
	if temp == 0 {
		temp = autoTemperature(an.total)
	}
	floor := cfg.MinTemperature
	if floor == 0 {
		floor = temp * autoFloorRatio
	}
	res.InitialTemperature = temp

	window := cfg.InitialWindow
	extent := an.s.Fabric.Extent()
	var best []SlotID
	if cfg.KeepBest {
		best = an.s.Assign.Snapshot()
	}

	logrus.Infof("anneal: %d batches, HPWL=%.3f, T0=%.4g, floor=%.4g", len(an.batches), an.total, temp, floor)

	for step := 0; step < cfg.MaxTempSteps && temp >= floor; step++ {
		explore := math.Max(window*extent, cfg.RefineMaxDistance)
		rec := trace.StepRecord{Step: step, Temperature: temp, Window: explore}
		for _, b := range an.batches {
			if len(an.pop[b.typ]) < 2 {
				continue
			}
			rng := an.rng.ForSubsystem(SubsystemType(an.s.typeName(b.typ)))
			for i := 0; i < cfg.MovesPerTemp; i++ {
				switch an.move(b, rng, temp, explore) {
				case moveAccepted:
					rec.Accepted++
				case moveRejected:
					rec.Rejected++
				default:
					rec.Skipped++
				}
				an.moves++
				if cfg.VerifyEvery > 0 && an.moves%cfg.VerifyEvery == 0 {
					an.verify()
				}
			}
		}
		rec.HPWL = an.total
		an.trace.RecordStep(rec)
		logrus.Debugf("anneal: step %d T=%.4g window=%.3f accepted=%d rejected=%d HPWL=%.3f",
			step, temp, explore, rec.Accepted, rec.Rejected, an.total)

		res.Accepted += rec.Accepted
		res.Rejected += rec.Rejected
		res.Skipped += rec.Skipped
		res.Steps++
		if an.total < res.BestHPWL {
			res.BestHPWL = an.total
			if cfg.KeepBest {
				best = an.s.Assign.Snapshot()
			}
		}

		next := temp * cfg.CoolingRate
		if cfg.WindowCoolingRate > 0 {
			window *= cfg.WindowCoolingRate
		} else {
			window *= next / temp
		}
		temp = next
	}

	if cfg.KeepBest && res.BestHPWL < an.total {
		an.s.Assign.Restore(best)
		an.resync()
		res.Restored = true
	}
	res.Moves = an.moves
	res.FinalHPWL = an.total
	res.FinalTemperature = temp
	logrus.Infof("anneal: %d steps, %d moves (%d accepted), HPWL %.3f → %.3f",
		res.Steps, res.Moves, res.Accepted, res.InitialHPWL, res.FinalHPWL)
	return res
}

type moveOutcome int

const (
	moveSkipped moveOutcome = iota
	moveAccepted
	moveRejected
)

// move draws one refine or explore move for a random cell of b.
func (an *Annealer) move(b batch, rng *rand.Rand, temp, explore float64) moveOutcome {
	radius := explore
	if rng.Float64() < an.cfg.PRefine {
		radius = an.cfg.RefineMaxDistance
	}
	c1 := b.cells[rng.Intn(len(b.cells))]
	c2, ok := an.pickPartner(c1, radius, rng)
	if !ok {
		return moveSkipped
	}
	if an.trySwap(c1, c2, temp, rng) {
		return moveAccepted
	}
	return moveRejected
}

// pickPartner returns a different cell of c's type whose slot lies within
// Manhattan radius of c's slot: first by uniform draws from the type's
// population, then by a uniform pick among every cell inside the radius.
func (an *Annealer) pickPartner(c CellID, radius float64, rng *rand.Rand) (CellID, bool) {
	a := an.s.Assign
	t := a.Type(c)
	pop := an.pop[t]
	if len(pop) < 2 {
		return NoCell, false
	}
	p := a.Pos(c)
	for k := 0; k < partnerAttempts; k++ {
		o := pop[rng.Intn(len(pop))]
		if o != c && Manhattan(a.Pos(o), p) <= radius {
			return o, true
		}
	}

	an.cands = an.cands[:0]
	an.occupied[t].within(an.s.Fabric, p, radius, func(s SlotID) {
		if o, ok := a.CellAt(s); ok && o != c {
			an.cands = append(an.cands, o)
		}
	})
	if len(an.cands) == 0 {
		return NoCell, false
	}
	return an.cands[rng.Intn(len(an.cands))], true
}

// affectedNets returns the nets whose HPWL a swap of c1 and c2 can change:
// nets touching exactly one of them. Nets shared by both see the same point
// set after the swap.
func (an *Annealer) affectedNets(c1, c2 CellID) []int {
	n1, n2 := an.s.Netlist.CellNets(c1), an.s.Netlist.CellNets(c2)
	out := an.scratchNets[:0]
	i, j := 0, 0
	for i < len(n1) && j < len(n2) {
		switch {
		case n1[i] < n2[j]:
			out = append(out, n1[i])
			i++
		case n1[i] > n2[j]:
			out = append(out, n2[j])
			j++
		default:
			i++
			j++
		}
	}
	out = append(out, n1[i:]...)
	out = append(out, n2[j:]...)
	an.scratchNets = out
	return out
}

// trySwap applies the swap, evaluates delta HPWL over the affected nets only,
// and keeps or reverts it by the Metropolis criterion.
func (an *Annealer) trySwap(c1, c2 CellID, temp float64, rng *rand.Rand) bool {
	nets := an.affectedNets(c1, c2)
	before := 0.0
	for _, n := range nets {
		before += an.netCost[n]
	}

	an.s.Assign.Swap(c1, c2)
	after := 0.0
	costs := an.scratchCost[:0]
	for _, n := range nets {
		v := NetHPWL(an.s, n)
		costs = append(costs, v)
		after += v
	}
	an.scratchCost = costs

	delta := after - before
	if delta <= 0 || rng.Float64() < math.Exp(-delta/temp) {
		for i, n := range nets {
			an.netCost[n] = costs[i]
		}
		an.total += delta
		return true
	}
	an.s.Assign.Swap(c1, c2)
	return false
}

// verify recomputes the full HPWL and compares it with the tracked value.
func (an *Annealer) verify() {
	recomputed := TotalHPWL(an.s)
	check := trace.CheckRecord{Move: an.moves, Tracked: an.total, Recomputed: recomputed}
	an.trace.RecordCheck(check)
	if check.Drift() > driftTolerance*math.Max(1, recomputed) {
		logrus.Warnf("anneal: HPWL drift %.6g after %d moves (tracked %.6f, recomputed %.6f)",
			check.Drift(), an.moves, an.total, recomputed)
	}
	an.total = recomputed
}
