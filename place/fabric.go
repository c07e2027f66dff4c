package place

import "math"

// SlotID indexes Fabric slots. IDs are dense, in load order.
type SlotID int

// NoSlot marks an unassigned cell.
const NoSlot SlotID = -1

// PinID indexes Fabric pins.
type PinID int

// NoPin marks an unbound top-level port.
const NoPin PinID = -1

// Slot is an immutable, pre-placed physical location of a fixed cell type.
type Slot struct {
	ID   SlotID
	Name string
	Type CellType
	Pos  Point
}

// Pin is a fixed top-level I/O location.
type Pin struct {
	ID    PinID
	Name  string
	Pos   Point
	Layer string // optional metal layer tag
}

// SlotSpec is the loader-facing description of a slot.
type SlotSpec struct {
	Name string
	Type string
	X, Y float64
}

// PinSpec is the loader-facing description of a pin.
type PinSpec struct {
	Name  string
	X, Y  float64
	Layer string
}

// Fabric owns all slots and pins. Read-only after NewFabric returns.
type Fabric struct {
	types  *TypeRegistry
	slots  []Slot
	pins   []Pin
	byType [][]SlotID // CellType → slots in ID order
	pinIdx map[string]PinID
	bounds Rect
}

// NewFabric builds a fabric from slot and pin descriptions, interning slot
// types into reg. Duplicate slot or pin names, empty types and non-finite
// coordinates are rejected with *MalformedInputError.
func NewFabric(reg *TypeRegistry, slots []SlotSpec, pins []PinSpec) (*Fabric, error) {
	f := &Fabric{
		types:  reg,
		slots:  make([]Slot, 0, len(slots)),
		pins:   make([]Pin, 0, len(pins)),
		pinIdx: make(map[string]PinID, len(pins)),
	}
	seen := make(map[string]bool, len(slots))
	pts := make([]Point, 0, len(slots))
	for i, s := range slots {
		if s.Name == "" {
			return nil, malformed("fabric", "slot %d has no name", i)
		}
		if seen[s.Name] {
			return nil, malformed("fabric", "duplicate slot id %q", s.Name)
		}
		if s.Type == "" {
			return nil, malformed("fabric", "slot %q has no type", s.Name)
		}
		if !finite(s.X) || !finite(s.Y) {
			return nil, malformed("fabric", "slot %q has non-finite coordinates", s.Name)
		}
		seen[s.Name] = true
		t := reg.Intern(s.Type)
		slot := Slot{ID: SlotID(i), Name: s.Name, Type: t, Pos: Point{X: s.X, Y: s.Y}}
		f.slots = append(f.slots, slot)
		pts = append(pts, slot.Pos)
	}
	for i, p := range pins {
		if p.Name == "" {
			return nil, malformed("fabric", "pin %d has no name", i)
		}
		if _, dup := f.pinIdx[p.Name]; dup {
			return nil, malformed("fabric", "duplicate pin id %q", p.Name)
		}
		if !finite(p.X) || !finite(p.Y) {
			return nil, malformed("fabric", "pin %q has non-finite coordinates", p.Name)
		}
		id := PinID(i)
		f.pins = append(f.pins, Pin{ID: id, Name: p.Name, Pos: Point{X: p.X, Y: p.Y}, Layer: p.Layer})
		f.pinIdx[p.Name] = id
	}
	f.bounds = boundsOf(pts)
	f.indexTypes()
	return f, nil
}

// indexTypes groups slots by type.
func (f *Fabric) indexTypes() {
	f.byType = make([][]SlotID, f.types.Len())
	for _, s := range f.slots {
		f.byType[s.Type] = append(f.byType[s.Type], s.ID)
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Types returns the registry shared by the fabric and its netlists.
func (f *Fabric) Types() *TypeRegistry { return f.types }

// NumSlots returns the number of slots.
func (f *Fabric) NumSlots() int { return len(f.slots) }

// Slot returns the slot with the given ID.
func (f *Fabric) Slot(id SlotID) Slot { return f.slots[id] }

// Slots returns all slots in ID order. Callers must not modify the slice.
func (f *Fabric) Slots() []Slot { return f.slots }

// SlotsOfType returns the slots of type t in ID order. Types interned after
// the fabric was built (netlist-only types) have no slots.
func (f *Fabric) SlotsOfType(t CellType) []SlotID {
	if t < 0 || int(t) >= len(f.byType) {
		return nil
	}
	return f.byType[t]
}

// SlotsIn returns the slots of type t lying inside r, in ID order.
func (f *Fabric) SlotsIn(t CellType, r Rect) []SlotID {
	var out []SlotID
	for _, id := range f.SlotsOfType(t) {
		if r.Contains(f.slots[id].Pos) {
			out = append(out, id)
		}
	}
	return out
}

// NumPins returns the number of pins.
func (f *Fabric) NumPins() int { return len(f.pins) }

// Pin returns the pin with the given ID.
func (f *Fabric) Pin(id PinID) Pin { return f.pins[id] }

// Pins returns all pins in ID order. Callers must not modify the slice.
func (f *Fabric) Pins() []Pin { return f.pins }

// PinByName looks a pin up by name.
func (f *Fabric) PinByName(name string) (PinID, bool) {
	id, ok := f.pinIdx[name]
	return id, ok
}

// Bounds returns the bounding box of all slots.
func (f *Fabric) Bounds() Rect { return f.bounds }

// Centroid returns the center of the slot bounding box.
func (f *Fabric) Centroid() Point { return f.bounds.Center() }

// Extent returns the larger side of the slot bounding box, the die extent
// the annealer's exploration window is a fraction of.
func (f *Fabric) Extent() float64 {
	return math.Max(f.bounds.Width(), f.bounds.Height())
}

// TypeCounts returns the slot count of every registered type, keyed by name.
func (f *Fabric) TypeCounts() map[string]int {
	out := make(map[string]int, f.types.Len())
	for t := 0; t < f.types.Len(); t++ {
		out[f.types.Name(CellType(t))] = len(f.SlotsOfType(CellType(t)))
	}
	return out
}
