package place

import "math"

// slotGrid buckets slot IDs on a uniform grid over their bounding box.
// Buckets keep slots in insertion order; removal preserves order so repeated
// runs issuing the same operations see the same bucket contents.
type slotGrid struct {
	origin  Point
	size    float64
	nx, ny  int
	buckets [][]SlotID
	count   int
}

// targetPerBucket is the average number of slots a bucket is sized for.
const targetPerBucket = 4

func newSlotGrid(fab *Fabric, ids []SlotID) *slotGrid {
	pts := make([]Point, len(ids))
	for i, id := range ids {
		pts[i] = fab.Slot(id).Pos
	}
	box := boundsOf(pts)
	w, h := box.Width(), box.Height()

	size := 1.0
	if n := len(ids); n > 0 {
		switch {
		case w > 0 && h > 0:
			size = math.Sqrt(w * h * targetPerBucket / float64(n))
		case w > 0 || h > 0:
			size = math.Max(w, h) * targetPerBucket / float64(n)
		}
	}
	if size <= 0 || !finite(size) {
		size = 1.0
	}
	g := &slotGrid{
		origin: box.Min,
		size:   size,
		nx:     int(w/size) + 1,
		ny:     int(h/size) + 1,
	}
	g.buckets = make([][]SlotID, g.nx*g.ny)
	for i, id := range ids {
		g.add(id, pts[i])
	}
	return g
}

// cellOf returns the lattice coordinates of p. They may fall outside the
// grid for points outside the slot bounding box.
func (g *slotGrid) cellOf(p Point) (int, int) {
	return int(math.Floor((p.X - g.origin.X) / g.size)), int(math.Floor((p.Y - g.origin.Y) / g.size))
}

func (g *slotGrid) clampedCell(p Point) (int, int) {
	bx, by := g.cellOf(p)
	return clampInt(bx, 0, g.nx-1), clampInt(by, 0, g.ny-1)
}

func (g *slotGrid) add(id SlotID, p Point) {
	bx, by := g.clampedCell(p)
	k := by*g.nx + bx
	g.buckets[k] = append(g.buckets[k], id)
	g.count++
}

func (g *slotGrid) remove(id SlotID, p Point) bool {
	bx, by := g.clampedCell(p)
	k := by*g.nx + bx
	b := g.buckets[k]
	for i, v := range b {
		if v == id {
			g.buckets[k] = append(b[:i], b[i+1:]...)
			g.count--
			return true
		}
	}
	return false
}

// nearest returns the slot minimizing (primary, secondary, ID) under m.
// Buckets are visited in Chebyshev rings around the target; a ring r bucket is
// at least (r-1)*size away, so the search stops once the best primary
// distance is below the bound of the next ring.
func (g *slotGrid) nearest(fab *Fabric, p Point, m Metric) (SlotID, float64, bool) {
	if g.count == 0 {
		return NoSlot, 0, false
	}
	bx, by := g.cellOf(p)
	maxR := maxInt(maxInt(absInt(bx), absInt(g.nx-1-bx)), maxInt(absInt(by), absInt(g.ny-1-by)))

	best := NoSlot
	var bestP, bestS float64
	visit := func(x, y int) {
		if x < 0 || y < 0 || x >= g.nx || y >= g.ny {
			return
		}
		for _, id := range g.buckets[y*g.nx+x] {
			d1, d2 := m.distanceKey(p, fab.Slot(id).Pos)
			if best == NoSlot || d1 < bestP || (d1 == bestP && (d2 < bestS || (d2 == bestS && id < best))) {
				best, bestP, bestS = id, d1, d2
			}
		}
	}

	for r := 0; r <= maxR; r++ {
		if r == 0 {
			visit(bx, by)
		} else {
			for x := bx - r; x <= bx+r; x++ {
				visit(x, by-r)
				visit(x, by+r)
			}
			for y := by - r + 1; y <= by+r-1; y++ {
				visit(bx-r, y)
				visit(bx+r, y)
			}
		}
		if best != NoSlot && bestP < float64(r)*g.size {
			break
		}
	}
	return best, bestP, best != NoSlot
}

// within calls fn for every slot whose Manhattan distance to p is at most
// radius, in bucket order.
func (g *slotGrid) within(fab *Fabric, p Point, radius float64, fn func(SlotID)) {
	if g.count == 0 || radius < 0 {
		return
	}
	x0, y0 := g.clampedCell(Point{X: p.X - radius, Y: p.Y - radius})
	x1, y1 := g.clampedCell(Point{X: p.X + radius, Y: p.Y + radius})
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			for _, id := range g.buckets[y*g.nx+x] {
				if Manhattan(p, fab.Slot(id).Pos) <= radius {
					fn(id)
				}
			}
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
