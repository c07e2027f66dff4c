package place

// CheckFeasibility compares per-type cell demand against slot supply before
// any placement work. The first deficient type in CellType order is reported
// as *PlacementExhaustedError.
func CheckFeasibility(fab *Fabric, nl *Netlist) error {
	demand := nl.TypeDemand()
	for t, d := range demand {
		supply := len(fab.SlotsOfType(CellType(t)))
		if d > supply {
			return &PlacementExhaustedError{
				Type:   fab.Types().Name(CellType(t)),
				Demand: d,
				Supply: supply,
			}
		}
	}
	return nil
}

// Utilization returns demand/supply per type name for types with slots.
func Utilization(fab *Fabric, nl *Netlist) map[string]float64 {
	demand := nl.TypeDemand()
	out := make(map[string]float64)
	for t, d := range demand {
		supply := len(fab.SlotsOfType(CellType(t)))
		if supply == 0 {
			continue
		}
		out[fab.Types().Name(CellType(t))] = float64(d) / float64(supply)
	}
	return out
}
