package place

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sasic-place/sasic-place/place/internal/testutil"
)

// gridSlots lays out nx*ny slots of one type on a unit-pitch lattice.
func gridSlots(prefix, typ string, nx, ny int, pitch float64) []SlotSpec {
	var out []SlotSpec
	for i, p := range testutil.GridPoints(nx, ny, pitch) {
		out = append(out, SlotSpec{Name: fmt.Sprintf("%s_%d", prefix, i), Type: typ, X: p.X, Y: p.Y})
	}
	return out
}

func mustFabric(t *testing.T, slots []SlotSpec, pins []PinSpec) *Fabric {
	t.Helper()
	fab, err := NewFabric(NewTypeRegistry(), slots, pins)
	require.NoError(t, err)
	return fab
}

func mustNetlist(t *testing.T, fab *Fabric, cells []CellSpec, ports []PortSpec) *Netlist {
	t.Helper()
	nl, err := NewNetlist(fab, cells, ports)
	require.NoError(t, err)
	return nl
}

// cell builds a CellSpec with ports named p0, p1, ... on the given nets.
func cell(name, typ string, nets ...NetID) CellSpec {
	conns := make([]Conn, len(nets))
	for i, n := range nets {
		conns[i] = Conn{Port: fmt.Sprintf("p%d", i), Net: n}
	}
	return CellSpec{Name: name, Type: typ, Conns: conns}
}

// chainDesign builds an n-cell NAND2 chain on an 8x8 grid with an input pin
// on the left edge and an output pin on the right edge. Net i joins cell i-1
// and cell i; net 0 is the input and net n the output.
func chainDesign(t *testing.T, n int) (*Fabric, *Netlist) {
	t.Helper()
	fab := mustFabric(t, gridSlots("s", "NAND2", 8, 8, 1), []PinSpec{
		{Name: "in", X: -1, Y: 3.5},
		{Name: "out", X: 8, Y: 3.5},
	})
	var cells []CellSpec
	for i := 0; i < n; i++ {
		cells = append(cells, cell(fmt.Sprintf("u%02d", i), "NAND2", NetID(i), NetID(i+1)))
	}
	nl := mustNetlist(t, fab, cells, []PortSpec{
		{Name: "in", Net: 0, Pin: "in"},
		{Name: "out", Net: NetID(n), Pin: "out"},
	})
	return fab, nl
}

// meshDesign is a two-type design with random-ish connectivity used by the
// annealer tests: 24 NAND2 and 8 DFF cells on a 6x6 NAND2 grid plus a 4x4
// DFF grid offset to the right, with a clock port.
func meshDesign(t *testing.T) (*Fabric, *Netlist) {
	t.Helper()
	slots := gridSlots("n", "NAND2", 6, 6, 1)
	for i, p := range testutil.GridPoints(4, 4, 1.5) {
		slots = append(slots, SlotSpec{Name: fmt.Sprintf("f_%d", i), Type: "DFF", X: 7 + p.X, Y: p.Y})
	}
	fab := mustFabric(t, slots, []PinSpec{
		{Name: "a", X: -1, Y: 0},
		{Name: "b", X: -1, Y: 5},
		{Name: "y", X: 13, Y: 2},
		{Name: "clk", X: 6, Y: -2},
	})
	const clk = NetID(100)
	var cells []CellSpec
	for i := 0; i < 24; i++ {
		cells = append(cells, cell(fmt.Sprintf("g%02d", i), "NAND2",
			NetID(i%10), NetID((i*7+3)%17), NetID(20+i%5)))
	}
	for i := 0; i < 8; i++ {
		cells = append(cells, cell(fmt.Sprintf("r%d", i), "DFF", NetID(20+i%5), NetID(i%10), clk))
	}
	nl := mustNetlist(t, fab, cells, []PortSpec{
		{Name: "a", Net: 0, Pin: "a"},
		{Name: "b", Net: 5, Pin: "b"},
		{Name: "y", Net: 22, Pin: "y"},
		{Name: "clk", Net: clk, Pin: "clk", Clock: true},
	})
	return fab, nl
}

// placedState runs levelize and greedy over fab/nl.
func placedState(t *testing.T, fab *Fabric, nl *Netlist) (*State, *Levels) {
	t.Helper()
	s := NewState(fab, nl)
	lv := Levelize(nl, LevelOptions{})
	_, err := PlaceGreedy(s, lv, LevelOptions{})
	require.NoError(t, err)
	return s, lv
}
