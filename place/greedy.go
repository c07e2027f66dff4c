package place

import (
	"github.com/sirupsen/logrus"
)

// GreedyStats summarizes one seed & grow pass.
type GreedyStats struct {
	Seeded     int // I/O cells bound next to their pins
	Grown      int // cells placed at their neighbor barycenter
	Fallback   int // grown cells with no placed neighbor (fabric centroid target)
	Unassigned int // cells still free after the pass (0 on success)
}

// PlaceGreedy builds the initial assignment in two phases over lv.Order:
// seed binds every I/O cell through SeatIOCell, grow places the remaining
// cells on the free slot nearest (Manhattan, then Euclidean, then slot ID) to
// the barycenter of their already placed neighbors. Deterministic for a given
// input and order.
func PlaceGreedy(s *State, lv *Levels, opts LevelOptions) (GreedyStats, error) {
	var stats GreedyStats
	nl := s.Netlist

	for _, c := range lv.Order {
		if !lv.IO[c] {
			continue
		}
		if _, placed := s.Assign.SlotOf(c); placed {
			continue
		}
		if _, err := s.SeatIOCell(c, opts); err != nil {
			return stats, err
		}
		stats.Seeded++
	}
	logrus.Infof("greedy: seeded %d I/O cells", stats.Seeded)

	demand := nl.TypeDemand()
	seen := make([]int, nl.NumCells())
	stamp := 0
	for _, c := range lv.Order {
		if _, placed := s.Assign.SlotOf(c); placed {
			continue
		}
		stamp++
		target, ok := s.barycenter(c, opts, seen, stamp)
		if !ok {
			target = s.Fabric.Centroid()
			stats.Fallback++
		}
		cell := nl.Cell(c)
		slot, found := s.Index.Nearest(cell.Type, target, ManhattanFirst)
		if !found {
			return stats, &PlacementExhaustedError{
				Cell:   cell.Name,
				Type:   s.typeName(cell.Type),
				Demand: demand[cell.Type],
				Supply: len(s.Fabric.SlotsOfType(cell.Type)),
			}
		}
		if err := s.seat(c, slot); err != nil {
			return stats, err
		}
		stats.Grown++
	}
	stats.Unassigned = nl.NumCells() - s.Assign.NumAssigned()
	logrus.Infof("greedy: grew %d cells (%d without placed neighbors)", stats.Grown, stats.Fallback)
	return stats, nil
}

// barycenter returns the mean position of the placed cells sharing a usable
// net with c. Each neighbor counts once; seen/stamp dedupe without allocating.
func (s *State) barycenter(c CellID, opts LevelOptions, seen []int, stamp int) (Point, bool) {
	nl := s.Netlist
	var sum Point
	n := 0
	seen[c] = stamp
	for _, ni := range nl.CellNets(c) {
		if !usableNet(nl, opts, ni) {
			continue
		}
		for _, m := range nl.Net(ni).Members {
			if seen[m.Cell] == stamp {
				continue
			}
			seen[m.Cell] = stamp
			if _, placed := s.Assign.SlotOf(m.Cell); !placed {
				continue
			}
			p := s.Assign.Pos(m.Cell)
			sum.X += p.X
			sum.Y += p.Y
			n++
		}
	}
	if n == 0 {
		return Point{}, false
	}
	return Point{X: sum.X / float64(n), Y: sum.Y / float64(n)}, true
}
