package place

// IOPins returns the pins bound to the nets of c, in net order. Clock and
// fanout-filtered nets are skipped, matching the I/O classification of
// Levelize.
func IOPins(nl *Netlist, opts LevelOptions, c CellID) []PinID {
	var pins []PinID
	for _, ni := range nl.CellNets(c) {
		if !usableNet(nl, opts, ni) {
			continue
		}
		pins = append(pins, nl.Net(ni).Pins...)
	}
	return pins
}

// SeatIOCell binds an I/O-connected cell to the free slot of its type that is
// closest to its pin (Euclidean, then Manhattan, then slot ID). A cell on
// several pin nets targets the mean of their pins. Returns
// *NoAvailableSlotError when the type's pool is empty.
func (s *State) SeatIOCell(c CellID, opts LevelOptions) (SlotID, error) {
	cell := s.Netlist.Cell(c)
	pins := IOPins(s.Netlist, opts, c)
	target := s.Fabric.Centroid()
	if len(pins) > 0 {
		var sum Point
		for _, p := range pins {
			pos := s.Fabric.Pin(p).Pos
			sum.X += pos.X
			sum.Y += pos.Y
		}
		target = Point{X: sum.X / float64(len(pins)), Y: sum.Y / float64(len(pins))}
	}

	slot, ok := s.Index.Nearest(cell.Type, target, EuclideanFirst)
	if !ok {
		return NoSlot, &NoAvailableSlotError{Cell: cell.Name, Type: s.typeName(cell.Type)}
	}
	if err := s.seat(c, slot); err != nil {
		return NoSlot, err
	}
	return slot, nil
}
