package place

// CoordIndex answers "nearest free slot of type t to point p" over the slots
// currently unoccupied in an Assignment. It is derived state: callers that
// change occupancy must call Remove (or Insert) for the affected slot, or
// rebuild it with NewCoordIndex.
type CoordIndex struct {
	fab   *Fabric
	grids []*slotGrid // CellType → free slots
}

// NewCoordIndex indexes every slot that a leaves unoccupied.
func NewCoordIndex(fab *Fabric, a *Assignment) *CoordIndex {
	ix := &CoordIndex{fab: fab, grids: make([]*slotGrid, fab.Types().Len())}
	for t := range ix.grids {
		// Grid geometry spans the whole pool so vacated slots can be reinserted.
		all := fab.SlotsOfType(CellType(t))
		g := newSlotGrid(fab, all)
		for _, id := range all {
			if !a.IsFree(id) {
				g.remove(id, fab.Slot(id).Pos)
			}
		}
		ix.grids[t] = g
	}
	return ix
}

func (ix *CoordIndex) grid(t CellType) *slotGrid {
	if t < 0 || int(t) >= len(ix.grids) {
		return nil
	}
	return ix.grids[t]
}

// Nearest returns the free slot of type t closest to p under m. Ties are
// broken by the secondary distance, then by slot ID.
func (ix *CoordIndex) Nearest(t CellType, p Point, m Metric) (SlotID, bool) {
	g := ix.grid(t)
	if g == nil {
		return NoSlot, false
	}
	id, _, ok := g.nearest(ix.fab, p, m)
	return id, ok
}

// NearestOf returns the closest free slot over several types, with the same
// ordering as Nearest applied across all of them.
func (ix *CoordIndex) NearestOf(types []CellType, p Point, m Metric) (SlotID, bool) {
	best := NoSlot
	var bestP, bestS float64
	for _, t := range types {
		id, ok := ix.Nearest(t, p, m)
		if !ok {
			continue
		}
		d1, d2 := m.distanceKey(p, ix.fab.Slot(id).Pos)
		if best == NoSlot || d1 < bestP || (d1 == bestP && (d2 < bestS || (d2 == bestS && id < best))) {
			best, bestP, bestS = id, d1, d2
		}
	}
	return best, best != NoSlot
}

// Remove drops slot s from the index after it became occupied.
func (ix *CoordIndex) Remove(s SlotID) bool {
	slot := ix.fab.Slot(s)
	g := ix.grid(slot.Type)
	return g != nil && g.remove(s, slot.Pos)
}

// Insert returns slot s to the index after it was vacated.
func (ix *CoordIndex) Insert(s SlotID) {
	slot := ix.fab.Slot(s)
	if g := ix.grid(slot.Type); g != nil {
		g.add(s, slot.Pos)
	}
}

// Free returns the number of free slots of type t.
func (ix *CoordIndex) Free(t CellType) int {
	g := ix.grid(t)
	if g == nil {
		return 0
	}
	return g.count
}
