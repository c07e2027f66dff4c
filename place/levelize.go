package place

import "sort"

// LevelOptions tunes which nets count as connectivity for levelization and
// for the greedy barycenter.
type LevelOptions struct {
	// MaxNetFanout ignores nets with more members than this. 0 = no limit.
	MaxNetFanout int
}

// Levels is the output of Levelize.
type Levels struct {
	// Order is the traversal order for the greedy placer.
	Order []CellID
	// Level holds each cell's net-hop distance from the nearest I/O cell.
	// Unreachable cells get MaxLevel+1.
	Level []int
	// IO marks cells sharing a non-clock net with a pin-bound top-level port.
	IO []bool
	// MaxLevel is the largest level among reachable cells, -1 if none.
	MaxLevel int
	// Unreachable counts cells with no path to an I/O cell.
	Unreachable int
}

// usableNet reports whether net i carries placement connectivity. The clock
// net is left to CTS; very high fanout nets would collapse every level to 1.
func usableNet(nl *Netlist, opts LevelOptions, i int) bool {
	if ck, ok := nl.ClockNet(); ok && ck == i {
		return false
	}
	return opts.MaxNetFanout <= 0 || len(nl.Net(i).Members) <= opts.MaxNetFanout
}

// Levelize orders cells so that well-connected, I/O-proximate cells are
// placed first. The netlist is treated as an undirected hypergraph; a
// multi-source BFS from every I/O cell assigns each cell its minimum number
// of net hops. Reachable cells are ordered by (level, name); unreachable ones
// come last by descending net degree, then name.
func Levelize(nl *Netlist, opts LevelOptions) *Levels {
	n := nl.NumCells()
	lv := &Levels{
		Level:    make([]int, n),
		IO:       make([]bool, n),
		MaxLevel: -1,
	}
	for i := range lv.Level {
		lv.Level[i] = -1
	}

	queue := make([]CellID, 0, n)
	for i := 0; i < nl.NumNets(); i++ {
		net := nl.Net(i)
		if len(net.Pins) == 0 || !usableNet(nl, opts, i) {
			continue
		}
		for _, m := range net.Members {
			if !lv.IO[m.Cell] {
				lv.IO[m.Cell] = true
				lv.Level[m.Cell] = 0
				queue = append(queue, m.Cell)
			}
		}
	}

	netDone := make([]bool, nl.NumNets())
	for head := 0; head < len(queue); head++ {
		c := queue[head]
		for _, ni := range nl.CellNets(c) {
			if netDone[ni] || !usableNet(nl, opts, ni) {
				continue
			}
			// BFS visits cells in non-decreasing level, so the first expansion
			// of a net already assigns every member its minimum level.
			netDone[ni] = true
			for _, m := range nl.Net(ni).Members {
				if lv.Level[m.Cell] < 0 {
					lv.Level[m.Cell] = lv.Level[c] + 1
					queue = append(queue, m.Cell)
				}
			}
		}
	}

	var reached, isolated []CellID
	for i := 0; i < n; i++ {
		c := CellID(i)
		if lv.Level[c] < 0 {
			isolated = append(isolated, c)
			continue
		}
		reached = append(reached, c)
		if lv.Level[c] > lv.MaxLevel {
			lv.MaxLevel = lv.Level[c]
		}
	}

	sort.Slice(reached, func(i, j int) bool {
		a, b := reached[i], reached[j]
		if lv.Level[a] != lv.Level[b] {
			return lv.Level[a] < lv.Level[b]
		}
		return nl.Cell(a).Name < nl.Cell(b).Name
	})
	sort.Slice(isolated, func(i, j int) bool {
		a, b := isolated[i], isolated[j]
		da, db := len(nl.CellNets(a)), len(nl.CellNets(b))
		if da != db {
			return da > db
		}
		return nl.Cell(a).Name < nl.Cell(b).Name
	})
	for _, c := range isolated {
		lv.Level[c] = lv.MaxLevel + 1
	}

	lv.Unreachable = len(isolated)
	lv.Order = append(reached, isolated...)
	return lv
}
