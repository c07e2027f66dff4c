package place

import "math"

// Point is a location in fabric units.
type Point struct {
	X float64
	Y float64
}

// Manhattan returns the L1 distance between p and q.
func Manhattan(p, q Point) float64 {
	return math.Abs(p.X-q.X) + math.Abs(p.Y-q.Y)
}

// Euclidean returns the L2 distance between p and q.
func Euclidean(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Metric selects the primary distance of a nearest-slot query. The other
// distance breaks ties, then the slot ID.
type Metric int

const (
	// ManhattanFirst orders candidates by (L1, L2, slot ID). Used by grow and CTS.
	ManhattanFirst Metric = iota
	// EuclideanFirst orders candidates by (L2, L1, slot ID). Used by the port assigner.
	EuclideanFirst
)

// distanceKey returns the (primary, secondary) distances of q from p under m.
func (m Metric) distanceKey(p, q Point) (float64, float64) {
	l1 := Manhattan(p, q)
	l2 := Euclidean(p, q)
	if m == EuclideanFirst {
		return l2, l1
	}
	return l1, l2
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	Min Point
	Max Point
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Contains reports whether p lies inside r, borders included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// boundsOf returns the bounding box of pts. Zero Rect for no points.
func boundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	r := Rect{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		r.Min.X = math.Min(r.Min.X, p.X)
		r.Min.Y = math.Min(r.Min.Y, p.Y)
		r.Max.X = math.Max(r.Max.X, p.X)
		r.Max.Y = math.Max(r.Max.Y, p.Y)
	}
	return r
}
