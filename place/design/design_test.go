package design

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sasic-place/sasic-place/place"
	"github.com/sasic-place/sasic-place/place/internal/testutil"
)

func TestLoad_TinyDesign(t *testing.T) {
	d, err := Load(testutil.TestdataPath(t, "tiny.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "tiny", d.Name)
	assert.Equal(t, 12, d.Fabric.NumSlots())
	assert.Equal(t, 5, d.Netlist.NumCells())
	assert.Equal(t, map[string]int{"NAND2": 6, "DFF": 3, "BUF": 3}, d.Fabric.TypeCounts())

	u1, ok := d.Netlist.CellByName("u1")
	require.True(t, ok)
	assert.Equal(t, []place.Conn{{Port: "Y", Net: 3}, {Port: "A", Net: 1}, {Port: "B", Net: 2}},
		d.Netlist.Cell(u1).Conns, "connection order follows the file")

	pins := map[string]string{}
	for _, p := range d.Netlist.Ports() {
		require.NotEqual(t, place.NoPin, p.Pin, "port %s", p.Name)
		pins[p.Name] = d.Fabric.Pin(p.Pin).Name
	}
	assert.Equal(t, map[string]string{"a": "a", "b": "spare0", "y": "y", "clk": "clk"}, pins)

	ck, ok := d.Netlist.ClockNet()
	require.True(t, ok)
	assert.Equal(t, place.NetID(100), d.Netlist.Net(ck).ID)
}

func TestLoad_DefaultsNameToFileBase(t *testing.T) {
	path := testutil.WriteTempFile(t, "adder.yaml", `
fabric:
  slots: [{name: s0, type: X, x: 0, y: 0}]
netlist:
  cells: [{name: c0, type: X, conns: {A: 1}}]
`)
	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "adder", d.Name)
}

func TestLoad_MalformedInputIsTyped(t *testing.T) {
	path := testutil.WriteTempFile(t, "dup.yaml", `
fabric:
  slots:
    - {name: s0, type: X, x: 0, y: 0}
    - {name: s0, type: X, x: 1, y: 0}
`)
	_, err := Load(path)
	var me *place.MalformedInputError
	require.True(t, errors.As(err, &me), "got %v", err)
	assert.Contains(t, err.Error(), "dup")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)

	path := testutil.WriteTempFile(t, "bad.yaml", "netlist:\n  cells:\n    - {name: c, type: X, conns: {A: notanet}}\n")
	_, err = Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "net must be an integer")

	path = testutil.WriteTempFile(t, "list.yaml", "netlist:\n  cells:\n    - {name: c, type: X, conns: [1, 2]}\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoad_ExplicitClockFlag(t *testing.T) {
	path := testutil.WriteTempFile(t, "clk.yaml", `
fabric:
  slots: [{name: s0, type: DFF, x: 0, y: 0}]
  pins: [{name: ck, x: 0, y: -1}]
netlist:
  ports:
    - {name: clk, net: 1, clock: false}
    - {name: ck, net: 2, clock: true}
  cells: [{name: r, type: DFF, conns: {CLK: 2, D: 1}}]
`)
	d, err := Load(path)
	require.NoError(t, err)
	ck, ok := d.Netlist.ClockNet()
	require.True(t, ok)
	assert.Equal(t, place.NetID(2), d.Netlist.Net(ck).ID)
}

func TestLoad_YosysNetlist(t *testing.T) {
	d, err := Load(testutil.TestdataPath(t, "tiny_yosys.yaml"))
	require.NoError(t, err)

	var names []string
	for _, c := range d.Netlist.Cells() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"u_ff", "u_nand", "u_tie"}, names)

	tie, _ := d.Netlist.CellByName("u_tie")
	assert.Equal(t, []place.Conn{{Port: "LO", Net: 6}}, d.Netlist.Cell(tie).Conns, "constant bits are dropped")

	pins := map[string]string{}
	for _, p := range d.Netlist.Ports() {
		pins[p.Name] = d.Fabric.Pin(p.Pin).Name
	}
	assert.Equal(t, map[string]string{"clk": "clk", "d[0]": "d_0", "d[1]": "d_1", "q": "q"}, pins)
	_, ok := d.Netlist.ClockNet()
	assert.True(t, ok)
}

func TestLoadYosys_UnknownTop(t *testing.T) {
	_, _, err := LoadYosys(testutil.TestdataPath(t, "tiny_yosys.json"), "nope")
	var me *place.MalformedInputError
	assert.True(t, errors.As(err, &me))
}
