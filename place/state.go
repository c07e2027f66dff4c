package place

// State is the placement state of one design run: the immutable inputs plus
// the Assignment and the CoordIndex derived from it. It is owned exclusively
// by the pipeline for the duration of the run.
type State struct {
	Fabric  *Fabric
	Netlist *Netlist
	Assign  *Assignment
	Index   *CoordIndex
}

// NewState creates an empty placement state for nl on fab.
func NewState(fab *Fabric, nl *Netlist) *State {
	a := NewAssignment(fab, nl)
	return &State{
		Fabric:  fab,
		Netlist: nl,
		Assign:  a,
		Index:   NewCoordIndex(fab, a),
	}
}

// seat assigns c to s and drops s from the index.
func (s *State) seat(c CellID, slot SlotID) error {
	if err := s.Assign.Assign(c, slot); err != nil {
		return err
	}
	s.Index.Remove(slot)
	return nil
}

// typeName returns the name of t.
func (s *State) typeName(t CellType) string {
	return s.Fabric.Types().Name(t)
}
