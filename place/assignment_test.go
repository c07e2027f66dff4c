package place

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignment_AssignEnforcesInvariants(t *testing.T) {
	fab := mustFabric(t, append(gridSlots("n", "NAND2", 2, 1, 1), SlotSpec{Name: "f", Type: "DFF", X: 5}), nil)
	nl := mustNetlist(t, fab, []CellSpec{cell("a", "NAND2", 1), cell("b", "NAND2", 1), cell("r", "DFF", 1)}, nil)
	a := NewAssignment(fab, nl)

	require.NoError(t, a.Assign(0, 0))
	assert.Error(t, a.Assign(1, 0), "slot already occupied")
	assert.Error(t, a.Assign(0, 1), "cell already seated")
	assert.Error(t, a.Assign(2, 1), "type mismatch")
	require.NoError(t, a.Assign(1, 1))
	require.NoError(t, a.Assign(2, 2))

	assert.NoError(t, a.Validate(true))
	assert.Equal(t, 3, a.NumAssigned())

	a.Swap(0, 1)
	s0, _ := a.SlotOf(0)
	s1, _ := a.SlotOf(1)
	assert.Equal(t, SlotID(1), s0)
	assert.Equal(t, SlotID(0), s1)
	assert.NoError(t, a.Validate(true))

	assert.Panics(t, func() { a.Swap(0, 2) })
}

func TestAssignment_ValidateReportsIncomplete(t *testing.T) {
	fab := mustFabric(t, gridSlots("n", "NAND2", 2, 1, 1), nil)
	nl := mustNetlist(t, fab, []CellSpec{cell("a", "NAND2", 1), cell("b", "NAND2", 1)}, nil)
	a := NewAssignment(fab, nl)
	require.NoError(t, a.Assign(0, 1))

	assert.NoError(t, a.Validate(false))
	err := a.Validate(true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cell b not placed")
}

func TestAssignment_ClaimAndRows(t *testing.T) {
	fab := mustFabric(t, []SlotSpec{
		{Name: "n0", Type: "NAND2", X: 0, Y: 0},
		{Name: "b0", Type: "BUF", X: 3, Y: 1},
	}, nil)
	nl := mustNetlist(t, fab, []CellSpec{cell("a", "NAND2", 1)}, nil)
	a := NewAssignment(fab, nl)
	require.NoError(t, a.Assign(0, 0))

	c, err := a.Claim("cts_0", 1)
	require.NoError(t, err)
	assert.Equal(t, CellID(1), c)
	_, err = a.Claim("cts_1", 1)
	assert.Error(t, err)

	assert.Equal(t, 2, a.NumCells())
	assert.Equal(t, 1, a.NumNetlistCells())
	assert.Equal(t, []Row{
		{Cell: "a", Slot: "n0", X: 0, Y: 0, Type: "NAND2"},
		{Cell: "cts_0", Slot: "b0", X: 3, Y: 1, Type: "BUF"},
	}, a.Rows())
	assert.NoError(t, a.Validate(true))
}

func TestAssignment_SnapshotRestore(t *testing.T) {
	fab := mustFabric(t, gridSlots("n", "NAND2", 3, 1, 1), nil)
	nl := mustNetlist(t, fab, []CellSpec{cell("a", "NAND2", 1), cell("b", "NAND2", 1)}, nil)
	a := NewAssignment(fab, nl)
	require.NoError(t, a.Assign(0, 0))
	require.NoError(t, a.Assign(1, 2))

	snap := a.Snapshot()
	a.Swap(0, 1)
	a.Restore(snap)

	s, _ := a.SlotOf(0)
	assert.Equal(t, SlotID(0), s)
	c, ok := a.CellAt(2)
	require.True(t, ok)
	assert.Equal(t, CellID(1), c)
	assert.True(t, a.IsFree(1))
	assert.NoError(t, a.Validate(true))
}
