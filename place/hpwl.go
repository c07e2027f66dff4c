package place

import "math"

// NetHPWL returns the half-perimeter wirelength of net i:
// (max_x − min_x) + (max_y − min_y) over the slots of its placed member
// cells and the pins of its bound ports. Nets with fewer than two points
// contribute 0.
func NetHPWL(s *State, i int) float64 {
	net := s.Netlist.Net(i)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	points := 0
	add := func(p Point) {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
		points++
	}
	for _, m := range net.Members {
		if _, placed := s.Assign.SlotOf(m.Cell); placed {
			add(s.Assign.Pos(m.Cell))
		}
	}
	for _, p := range net.Pins {
		add(s.Fabric.Pin(p).Pos)
	}
	if points < 2 {
		return 0
	}
	return (maxX - minX) + (maxY - minY)
}

// PerNetHPWL returns NetHPWL for every net, indexed by dense net index.
func PerNetHPWL(s *State) []float64 {
	out := make([]float64, s.Netlist.NumNets())
	for i := range out {
		out[i] = NetHPWL(s, i)
	}
	return out
}

// TotalHPWL sums NetHPWL over all nets.
func TotalHPWL(s *State) float64 {
	total := 0.0
	for i := 0; i < s.Netlist.NumNets(); i++ {
		total += NetHPWL(s, i)
	}
	return total
}
