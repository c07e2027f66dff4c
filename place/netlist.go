package place

import "sort"

// CellID indexes logical cells. Netlist cells occupy [0, NumCells); cells
// claimed later by CTS get IDs past that range.
type CellID int

// NoCell marks an empty slot.
const NoCell CellID = -1

// NetID is the integer net identifier used by the input netlist.
type NetID int

// Conn is one (port → net) connection of a cell.
type Conn struct {
	Port string
	Net  NetID
}

// Cell is a logical netlist instance.
type Cell struct {
	ID    CellID
	Name  string
	Type  CellType
	Conns []Conn // in input order
}

// CellSpec is the loader-facing description of a cell.
type CellSpec struct {
	Name  string
	Type  string
	Conns []Conn
}

// PortSpec is the loader-facing description of a top-level port. Pin is the
// name of the fabric pin the port is bound to, or "" when unbound.
type PortSpec struct {
	Name  string
	Net   NetID
	Pin   string
	Clock bool
}

// TopPort is a top-level port of the design.
type TopPort struct {
	Name  string
	Net   NetID
	Pin   PinID // NoPin when unbound
	Clock bool
}

// NetMember is one cell port on a net.
type NetMember struct {
	Cell CellID
	Port string
}

// Net is the derived reverse index entry of one net id. Index is the dense
// position used by per-net slices; ID is the input identifier.
type Net struct {
	Index   int
	ID      NetID
	Members []NetMember
	Pins    []PinID // pins of bound top-level ports on this net
}

// Netlist owns all logical cells and the derived net index. Immutable after
// NewNetlist returns.
type Netlist struct {
	types    *TypeRegistry
	cells    []Cell
	cellIdx  map[string]CellID
	ports    []TopPort
	nets     []Net
	netIdx   map[NetID]int
	cellNets [][]int // CellID → distinct net indexes, ascending
	clockNet int     // net index, -1 if none
}

// NewNetlist builds a netlist against fab: cell types are interned into the
// fabric's registry and port pin names are resolved against its pins.
// Structural problems (duplicate names, negative net ids, unknown pins) are
// rejected with *MalformedInputError.
func NewNetlist(fab *Fabric, cells []CellSpec, ports []PortSpec) (*Netlist, error) {
	reg := fab.Types()
	n := &Netlist{
		types:    reg,
		cells:    make([]Cell, 0, len(cells)),
		cellIdx:  make(map[string]CellID, len(cells)),
		netIdx:   make(map[NetID]int),
		clockNet: -1,
	}

	netSet := make(map[NetID]bool)
	for i, c := range cells {
		if c.Name == "" {
			return nil, malformed("netlist", "cell %d has no name", i)
		}
		if _, dup := n.cellIdx[c.Name]; dup {
			return nil, malformed("netlist", "duplicate cell id %q", c.Name)
		}
		if c.Type == "" {
			return nil, malformed("netlist", "cell %q has no type", c.Name)
		}
		portSeen := make(map[string]bool, len(c.Conns))
		for _, conn := range c.Conns {
			if conn.Port == "" {
				return nil, malformed("netlist", "cell %q has a connection without a port name", c.Name)
			}
			if portSeen[conn.Port] {
				return nil, malformed("netlist", "cell %q connects port %s twice", c.Name, conn.Port)
			}
			if conn.Net < 0 {
				return nil, malformed("netlist", "cell %q port %s references invalid net %d", c.Name, conn.Port, conn.Net)
			}
			portSeen[conn.Port] = true
			netSet[conn.Net] = true
		}
		id := CellID(i)
		n.cells = append(n.cells, Cell{
			ID:    id,
			Name:  c.Name,
			Type:  reg.Intern(c.Type),
			Conns: append([]Conn(nil), c.Conns...),
		})
		n.cellIdx[c.Name] = id
	}

	portSeen := make(map[string]bool, len(ports))
	for _, p := range ports {
		if p.Name == "" {
			return nil, malformed("netlist", "top-level port without a name")
		}
		if portSeen[p.Name] {
			return nil, malformed("netlist", "duplicate top-level port %q", p.Name)
		}
		if p.Net < 0 {
			return nil, malformed("netlist", "port %q references invalid net %d", p.Name, p.Net)
		}
		pin := NoPin
		if p.Pin != "" {
			id, ok := fab.PinByName(p.Pin)
			if !ok {
				return nil, malformed("netlist", "port %q references unknown pin %q", p.Name, p.Pin)
			}
			pin = id
		}
		portSeen[p.Name] = true
		netSet[p.Net] = true
		n.ports = append(n.ports, TopPort{Name: p.Name, Net: p.Net, Pin: pin, Clock: p.Clock})
	}

	n.buildNetIndex(netSet)
	return n, nil
}

// buildNetIndex derives net → {(cell, port)} and cell → nets. Nets are
// indexed in ascending NetID order so every per-net iteration is deterministic.
func (n *Netlist) buildNetIndex(netSet map[NetID]bool) {
	ids := make([]NetID, 0, len(netSet))
	for id := range netSet {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	n.nets = make([]Net, len(ids))
	for i, id := range ids {
		n.nets[i] = Net{Index: i, ID: id}
		n.netIdx[id] = i
	}

	n.cellNets = make([][]int, len(n.cells))
	for _, c := range n.cells {
		for _, conn := range c.Conns {
			idx := n.netIdx[conn.Net]
			n.nets[idx].Members = append(n.nets[idx].Members, NetMember{Cell: c.ID, Port: conn.Port})
			n.cellNets[c.ID] = append(n.cellNets[c.ID], idx)
		}
		n.cellNets[c.ID] = dedupSorted(n.cellNets[c.ID])
	}

	for _, p := range n.ports {
		idx := n.netIdx[p.Net]
		if p.Pin != NoPin {
			n.nets[idx].Pins = append(n.nets[idx].Pins, p.Pin)
		}
		if p.Clock && n.clockNet < 0 {
			n.clockNet = idx
		}
	}
}

func dedupSorted(v []int) []int {
	if len(v) < 2 {
		return v
	}
	sort.Ints(v)
	out := v[:1]
	for _, x := range v[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// Types returns the registry shared with the fabric.
func (n *Netlist) Types() *TypeRegistry { return n.types }

// NumCells returns the number of logical cells.
func (n *Netlist) NumCells() int { return len(n.cells) }

// Cell returns the cell with the given ID.
func (n *Netlist) Cell(id CellID) *Cell { return &n.cells[id] }

// Cells returns all cells in ID order. Callers must not modify the slice.
func (n *Netlist) Cells() []Cell { return n.cells }

// CellByName looks a cell up by name.
func (n *Netlist) CellByName(name string) (CellID, bool) {
	id, ok := n.cellIdx[name]
	return id, ok
}

// Ports returns the top-level ports in input order.
func (n *Netlist) Ports() []TopPort { return n.ports }

// NumNets returns the number of distinct nets.
func (n *Netlist) NumNets() int { return len(n.nets) }

// Net returns the net at dense index i.
func (n *Netlist) Net(i int) *Net { return &n.nets[i] }

// NetIndex maps an input net id to its dense index.
func (n *Netlist) NetIndex(id NetID) (int, bool) {
	i, ok := n.netIdx[id]
	return i, ok
}

// CellNets returns the distinct net indexes touched by c, ascending.
func (n *Netlist) CellNets(c CellID) []int { return n.cellNets[c] }

// ClockNet returns the dense index of the clock net, if a clock port exists.
func (n *Netlist) ClockNet() (int, bool) {
	return n.clockNet, n.clockNet >= 0
}

// ClockPin returns the pin bound to the clock port, if any.
func (n *Netlist) ClockPin() (PinID, bool) {
	for _, p := range n.ports {
		if p.Clock && p.Pin != NoPin {
			return p.Pin, true
		}
	}
	return NoPin, false
}

// TypeDemand returns the number of cells per type, indexed by CellType.
func (n *Netlist) TypeDemand() []int {
	out := make([]int, n.types.Len())
	for _, c := range n.cells {
		out[c.Type]++
	}
	return out
}
