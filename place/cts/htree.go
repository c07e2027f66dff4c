// Package cts builds an H-tree clock distribution network over the buffer
// slots a placement left unused.
package cts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sasic-place/sasic-place/place"
)

// Buffer is one tree node: a claimed buffer slot driving child buffers and
// sinks.
type Buffer struct {
	Cell     place.CellID
	Name     string
	Slot     place.SlotID
	Pos      place.Point
	Level    int
	Parent   int            // index into Tree.Buffers, -1 for the root
	Children []int          // indexes into Tree.Buffers
	Sinks    []place.CellID // sinks driven directly, in partition order
}

// Tree is the clock tree in preorder: a parent always precedes its children.
type Tree struct {
	Buffers []Buffer
	RootPin place.PinID // clock pin feeding the root, NoPin if none
}

// Depth returns the number of buffer levels.
func (t *Tree) Depth() int {
	d := 0
	for _, b := range t.Buffers {
		if b.Level+1 > d {
			d = b.Level + 1
		}
	}
	return d
}

// NumSinks counts sinks driven by the tree.
func (t *Tree) NumSinks() int {
	n := 0
	for _, b := range t.Buffers {
		n += len(b.Sinks)
	}
	return n
}

// BufferExhaustedWarning is the recoverable outcome of running out of unused
// buffers or of exceeding MaxBufferDistance. A partition that cannot get a
// buffer is driven by its parent buffer instead. Uncovered is only non-empty
// when not even the root could be claimed; those sinks stay on the raw clock
// net.
type BufferExhaustedWarning struct {
	Uncovered  []place.CellID
	Partitions int // partitions folded into their parent or left uncovered
}

func (w *BufferExhaustedWarning) String() string {
	return fmt.Sprintf("CTS buffers exhausted: %d partitions degraded, %d sinks uncovered", w.Partitions, len(w.Uncovered))
}

// Result is the outcome of Build. Warning is nil when every sink is covered.
type Result struct {
	Tree    *Tree
	Sinks   int
	Warning *BufferExhaustedWarning
}

type sink struct {
	cell place.CellID
	pos  place.Point
}

type builder struct {
	s    *place.State
	cfg  Config
	tree *Tree
	warn *BufferExhaustedWarning
}

// Build synthesizes the clock tree. Sinks are all netlist cells of a sink
// type; each partition gets the unclaimed buffer slot nearest its sink
// centroid, claimed into the Assignment. Partitions are split into four
// quadrants, by median x then median y, until they hold at most
// MaxLeafSinks sinks. A quadrant with a single sink is driven by the parent
// buffer directly. Existing assignments are never moved.
func Build(s *place.State, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b := &builder{s: s, cfg: cfg, tree: &Tree{RootPin: place.NoPin}}
	if pin, ok := s.Netlist.ClockPin(); ok {
		b.tree.RootPin = pin
	}

	sinks := b.collectSinks()
	res := &Result{Tree: b.tree, Sinks: len(sinks)}
	if len(sinks) == 0 {
		logrus.Infof("cts: no clock sinks, skipping")
		return res, nil
	}

	if _, err := b.build(sinks, 0, -1); err != nil {
		return nil, err
	}
	if b.warn != nil {
		sort.Slice(b.warn.Uncovered, func(i, j int) bool { return b.warn.Uncovered[i] < b.warn.Uncovered[j] })
		logrus.Warnf("cts: %s", b.warn)
		res.Warning = b.warn
	}
	logrus.Infof("cts: %d sinks, %d buffers, depth %d", len(sinks), len(b.tree.Buffers), b.tree.Depth())
	return res, nil
}

func (b *builder) collectSinks() []sink {
	isSink := make(map[place.CellType]bool, len(b.cfg.SinkTypes))
	for _, t := range b.cfg.SinkTypes {
		isSink[t] = true
	}
	var out []sink
	nl := b.s.Netlist
	for i := 0; i < nl.NumCells(); i++ {
		c := place.CellID(i)
		if !isSink[nl.Cell(c).Type] {
			continue
		}
		if _, ok := b.s.Assign.SlotOf(c); !ok {
			continue
		}
		out = append(out, sink{cell: c, pos: b.s.Assign.Pos(c)})
	}
	return out
}

// build claims a buffer for the partition and recurses into its quadrants.
// It returns the buffer index, or -1 when no buffer could be claimed.
func (b *builder) build(sinks []sink, level, parent int) (int, error) {
	center := centroid(sinks)
	slot, ok := b.s.Index.NearestOf(b.cfg.BufferTypes, center, place.ManhattanFirst)
	if ok && b.cfg.MaxBufferDistance > 0 && place.Manhattan(center, b.s.Fabric.Slot(slot).Pos) > b.cfg.MaxBufferDistance {
		ok = false
	}
	if !ok {
		b.degrade(parent, sinks)
		return -1, nil
	}

	idx := len(b.tree.Buffers)
	name := fmt.Sprintf("cts_htree_%d_%d", level, idx)
	cell, err := b.s.Assign.Claim(name, slot)
	if err != nil {
		return -1, fmt.Errorf("cts: claim %s: %w", name, err)
	}
	b.s.Index.Remove(slot)
	b.tree.Buffers = append(b.tree.Buffers, Buffer{
		Cell:   cell,
		Name:   name,
		Slot:   slot,
		Pos:    b.s.Fabric.Slot(slot).Pos,
		Level:  level,
		Parent: parent,
	})
	if parent >= 0 {
		b.tree.Buffers[parent].Children = append(b.tree.Buffers[parent].Children, idx)
	}

	if len(sinks) <= b.cfg.MaxLeafSinks {
		b.drive(idx, sinks)
		return idx, nil
	}
	for _, q := range quadrants(sinks) {
		switch len(q) {
		case 0:
		case 1:
			b.drive(idx, q)
		default:
			if _, err := b.build(q, level+1, idx); err != nil {
				return -1, err
			}
		}
	}
	return idx, nil
}

func (b *builder) drive(idx int, sinks []sink) {
	for _, s := range sinks {
		b.tree.Buffers[idx].Sinks = append(b.tree.Buffers[idx].Sinks, s.cell)
	}
}

// degrade hands a bufferless partition to its parent, or marks it uncovered
// at the root.
func (b *builder) degrade(parent int, sinks []sink) {
	if b.warn == nil {
		b.warn = &BufferExhaustedWarning{}
	}
	b.warn.Partitions++
	if parent >= 0 {
		b.drive(parent, sinks)
		return
	}
	for _, s := range sinks {
		b.warn.Uncovered = append(b.warn.Uncovered, s.cell)
	}
}

func centroid(sinks []sink) place.Point {
	var c place.Point
	for _, s := range sinks {
		c.X += s.pos.X
		c.Y += s.pos.Y
	}
	n := float64(len(sinks))
	return place.Point{X: c.X / n, Y: c.Y / n}
}

// quadrants splits sinks at the median x, then each half at its median y.
// Splitting by rank rather than coordinate guarantees progress even when
// sinks share coordinates. Order: low-x/low-y, low-x/high-y, high-x/low-y,
// high-x/high-y.
func quadrants(sinks []sink) [4][]sink {
	byX := append([]sink(nil), sinks...)
	sort.Slice(byX, func(i, j int) bool { return lessXY(byX[i], byX[j]) })
	mid := len(byX) / 2
	var out [4][]sink
	for h, half := range [2][]sink{byX[:mid], byX[mid:]} {
		byY := append([]sink(nil), half...)
		sort.Slice(byY, func(i, j int) bool { return lessYX(byY[i], byY[j]) })
		m := len(byY) / 2
		out[2*h] = byY[:m]
		out[2*h+1] = byY[m:]
	}
	return out
}

func lessXY(a, b sink) bool {
	if a.pos.X != b.pos.X {
		return a.pos.X < b.pos.X
	}
	if a.pos.Y != b.pos.Y {
		return a.pos.Y < b.pos.Y
	}
	return a.cell < b.cell
}

func lessYX(a, b sink) bool {
	if a.pos.Y != b.pos.Y {
		return a.pos.Y < b.pos.Y
	}
	if a.pos.X != b.pos.X {
		return a.pos.X < b.pos.X
	}
	return a.cell < b.cell
}

// Record is the flat form of one tree node consumed by netlist writers.
type Record struct {
	Buffer     string   `json:"buffer"`
	BufferSlot string   `json:"buffer_slot"`
	Level      int      `json:"level"`
	Parent     string   `json:"parent"` // parent buffer name, or "ROOT:<pin>" / "ROOT"
	Sinks      []string `json:"sinks"`
}

// Records flattens t in preorder with names resolved against s.
func (t *Tree) Records(s *place.State) []Record {
	root := "ROOT"
	if t.RootPin != place.NoPin {
		root = "ROOT:" + s.Fabric.Pin(t.RootPin).Name
	}
	out := make([]Record, 0, len(t.Buffers))
	for _, b := range t.Buffers {
		parent := root
		if b.Parent >= 0 {
			parent = t.Buffers[b.Parent].Name
		}
		sinks := make([]string, len(b.Sinks))
		for i, c := range b.Sinks {
			sinks[i] = s.Assign.Name(c)
		}
		out = append(out, Record{
			Buffer:     b.Name,
			BufferSlot: s.Fabric.Slot(b.Slot).Name,
			Level:      b.Level,
			Parent:     parent,
			Sinks:      sinks,
		})
	}
	return out
}

// UncoveredNames returns the names of the warning's sinks, comma separated.
func (w *BufferExhaustedWarning) UncoveredNames(s *place.State) string {
	names := make([]string, len(w.Uncovered))
	for i, c := range w.Uncovered {
		names[i] = s.Assign.Name(c)
	}
	return strings.Join(names, ",")
}
