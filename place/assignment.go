package place

import (
	"fmt"
	"strings"
)

// Assignment is the bijection from logical cells to slots plus the reverse
// occupancy map. Every assigned cell sits on a slot of its own type and no two
// cells share a slot. Cells are never removed: the greedy placer adds, the
// annealer swaps, and CTS claims new buffer cells.
type Assignment struct {
	fab      *Fabric
	names    []string
	types    []CellType
	cellSlot []SlotID // CellID → slot
	slotCell []CellID // SlotID → cell
	assigned int
	netCells int // number of netlist cells; claimed cells follow
}

// NewAssignment creates an empty assignment for the cells of nl.
func NewAssignment(fab *Fabric, nl *Netlist) *Assignment {
	a := &Assignment{
		fab:      fab,
		names:    make([]string, nl.NumCells()),
		types:    make([]CellType, nl.NumCells()),
		cellSlot: make([]SlotID, nl.NumCells()),
		slotCell: make([]CellID, fab.NumSlots()),
		netCells: nl.NumCells(),
	}
	for i, c := range nl.Cells() {
		a.names[i] = c.Name
		a.types[i] = c.Type
		a.cellSlot[i] = NoSlot
	}
	for i := range a.slotCell {
		a.slotCell[i] = NoCell
	}
	return a
}

// Assign seats cell c on slot s. The slot must be free, of the cell's type,
// and the cell must not already be seated.
func (a *Assignment) Assign(c CellID, s SlotID) error {
	if a.cellSlot[c] != NoSlot {
		return fmt.Errorf("cell %s already assigned to slot %s", a.names[c], a.fab.Slot(a.cellSlot[c]).Name)
	}
	if occ := a.slotCell[s]; occ != NoCell {
		return fmt.Errorf("slot %s already holds cell %s", a.fab.Slot(s).Name, a.names[occ])
	}
	if st := a.fab.Slot(s).Type; st != a.types[c] {
		return fmt.Errorf("cell %s of type %s cannot sit on %s slot %s",
			a.names[c], a.fab.Types().Name(a.types[c]), a.fab.Types().Name(st), a.fab.Slot(s).Name)
	}
	a.cellSlot[c] = s
	a.slotCell[s] = c
	a.assigned++
	return nil
}

// Swap exchanges the slots of two assigned cells of the same type.
// Panics on a type mismatch: callers only ever propose same-type swaps.
func (a *Assignment) Swap(c1, c2 CellID) {
	if a.types[c1] != a.types[c2] {
		panic(fmt.Sprintf("swap of cells with different types: %s, %s", a.names[c1], a.names[c2]))
	}
	s1, s2 := a.cellSlot[c1], a.cellSlot[c2]
	a.cellSlot[c1], a.cellSlot[c2] = s2, s1
	a.slotCell[s1], a.slotCell[s2] = c2, c1
}

// Claim adds a new cell named name on the free slot s, taking the slot's type.
// Used by CTS to seat buffer cells that are not part of the netlist.
func (a *Assignment) Claim(name string, s SlotID) (CellID, error) {
	if occ := a.slotCell[s]; occ != NoCell {
		return NoCell, fmt.Errorf("slot %s already holds cell %s", a.fab.Slot(s).Name, a.names[occ])
	}
	c := CellID(len(a.names))
	a.names = append(a.names, name)
	a.types = append(a.types, a.fab.Slot(s).Type)
	a.cellSlot = append(a.cellSlot, s)
	a.slotCell[s] = c
	a.assigned++
	return c, nil
}

// SlotOf returns the slot of c.
func (a *Assignment) SlotOf(c CellID) (SlotID, bool) {
	s := a.cellSlot[c]
	return s, s != NoSlot
}

// CellAt returns the cell on slot s.
func (a *Assignment) CellAt(s SlotID) (CellID, bool) {
	c := a.slotCell[s]
	return c, c != NoCell
}

// IsFree reports whether slot s holds no cell.
func (a *Assignment) IsFree(s SlotID) bool { return a.slotCell[s] == NoCell }

// Pos returns the coordinates of c's slot. c must be assigned.
func (a *Assignment) Pos(c CellID) Point {
	return a.fab.Slot(a.cellSlot[c]).Pos
}

// Name returns the name of c.
func (a *Assignment) Name(c CellID) string { return a.names[c] }

// Type returns the type of c.
func (a *Assignment) Type(c CellID) CellType { return a.types[c] }

// NumCells returns the number of cells, claimed ones included.
func (a *Assignment) NumCells() int { return len(a.names) }

// NumNetlistCells returns the number of cells that came from the netlist.
func (a *Assignment) NumNetlistCells() int { return a.netCells }

// NumAssigned returns the number of seated cells.
func (a *Assignment) NumAssigned() int { return a.assigned }

// Snapshot returns a copy of the cell → slot map of the netlist cells.
func (a *Assignment) Snapshot() []SlotID {
	return append([]SlotID(nil), a.cellSlot[:a.netCells]...)
}

// Restore resets the netlist cells to a snapshot taken from this assignment.
// The snapshot must occupy the same slot set, which holds for any snapshot
// taken after the greedy phase because the annealer only swaps.
func (a *Assignment) Restore(snap []SlotID) {
	for _, s := range a.cellSlot[:a.netCells] {
		if s != NoSlot {
			a.slotCell[s] = NoCell
		}
	}
	for c, s := range snap {
		a.cellSlot[c] = s
		if s != NoSlot {
			a.slotCell[s] = CellID(c)
		}
	}
}

// Row is one placed cell as consumed by downstream writers.
type Row struct {
	Cell string
	Slot string
	X, Y float64
	Type string
}

// Rows returns every assigned cell in CellID order.
func (a *Assignment) Rows() []Row {
	out := make([]Row, 0, a.assigned)
	for c, s := range a.cellSlot {
		if s == NoSlot {
			continue
		}
		slot := a.fab.Slot(s)
		out = append(out, Row{
			Cell: a.names[c],
			Slot: slot.Name,
			X:    slot.Pos.X,
			Y:    slot.Pos.Y,
			Type: a.fab.Types().Name(slot.Type),
		})
	}
	return out
}

// Validate checks the bijection and type invariants and, when complete is
// set, that every netlist cell is seated. All violations are reported.
func (a *Assignment) Validate(complete bool) error {
	var problems []string
	for c, s := range a.cellSlot {
		if s == NoSlot {
			if complete && c < a.netCells {
				problems = append(problems, fmt.Sprintf("cell %s not placed", a.names[c]))
			}
			continue
		}
		slot := a.fab.Slot(s)
		if slot.Type != a.types[c] {
			problems = append(problems, fmt.Sprintf("cell %s (%s) on %s slot %s",
				a.names[c], a.fab.Types().Name(a.types[c]), a.fab.Types().Name(slot.Type), slot.Name))
		}
		if a.slotCell[s] != CellID(c) {
			problems = append(problems, fmt.Sprintf("slot %s does not point back to cell %s", slot.Name, a.names[c]))
		}
	}
	occupied := 0
	for s, c := range a.slotCell {
		if c == NoCell {
			continue
		}
		occupied++
		if a.cellSlot[c] != SlotID(s) {
			problems = append(problems, fmt.Sprintf("slot %s claims cell %s which sits elsewhere", a.fab.Slot(SlotID(s)).Name, a.names[c]))
		}
	}
	if occupied != a.assigned {
		problems = append(problems, fmt.Sprintf("%d occupied slots but %d assigned cells", occupied, a.assigned))
	}
	if len(problems) == 0 {
		return nil
	}
	if len(problems) > 10 {
		problems = append(problems[:10], fmt.Sprintf("... and %d more", len(problems)-10))
	}
	return fmt.Errorf("invalid assignment: %s", strings.Join(problems, "; "))
}
