// Package geom provides the geometric primitives for layout, routing and
// hit-testing. All coordinates are world space, double precision.
package geom

import "math"

// Point represents a 2D coordinate or vector.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p * s.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Len returns the Euclidean length of p.
func (p Point) Len() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return q.Sub(p).Len()
}

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y float64 // Top-left
	W, H float64
}

// RectAt builds a rectangle from a position and a size vector.
func RectAt(pos, size Point) Rect {
	return Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}
}

// MinX returns the left edge.
func (r Rect) MinX() float64 { return r.X }

// MinY returns the top edge.
func (r Rect) MinY() float64 { return r.Y }

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.W }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.H }

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Expand grows the rectangle by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{r.X - m, r.Y - m, r.W + 2*m, r.H + 2*m}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.Y >= r.Y && p.X <= r.MaxX() && p.Y <= r.MaxY()
}

// Intersects reports whether the interiors of r and o overlap.
// Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return o.X+o.W > r.X && o.Y+o.H > r.Y && o.X < r.MaxX() && o.Y < r.MaxY()
}

// Union returns the smallest rectangle containing both r and o.
// An empty operand is ignored.
func (r Rect) Union(o Rect) Rect {
	if r.W == 0 && r.H == 0 {
		return o
	}
	if o.W == 0 && o.H == 0 {
		return r
	}
	minX := math.Min(r.X, o.X)
	minY := math.Min(r.Y, o.Y)
	maxX := math.Max(r.MaxX(), o.MaxX())
	maxY := math.Max(r.MaxY(), o.MaxY())
	return Rect{minX, minY, maxX - minX, maxY - minY}
}

// SpansX reports whether the vertical line at x crosses r, edges included.
func (r Rect) SpansX(x float64) bool {
	return x >= r.MinX() && x <= r.MaxX()
}

// Outcode bits for segment clipping.
const (
	outLeft   = 1
	outTop    = 2
	outRight  = 4
	outBottom = 8
)

func (r Rect) outcode(x, y float64) int {
	out := 0
	if r.W <= 0 {
		out |= outLeft | outRight
	} else if x < r.X {
		out |= outLeft
	} else if x > r.X+r.W {
		out |= outRight
	}
	if r.H <= 0 {
		out |= outTop | outBottom
	} else if y < r.Y {
		out |= outTop
	} else if y > r.Y+r.H {
		out |= outBottom
	}
	return out
}

// IntersectsSegment reports whether the segment a-b touches r.
// Points on the boundary count as inside.
func (r Rect) IntersectsSegment(a, b Point) bool {
	x1, y1 := a.X, a.Y
	x2, y2 := b.X, b.Y

	out2 := r.outcode(x2, y2)
	if out2 == 0 {
		return true
	}
	for {
		out1 := r.outcode(x1, y1)
		if out1 == 0 {
			return true
		}
		if out1&out2 != 0 {
			return false
		}
		if out1&(outLeft|outRight) != 0 {
			x := r.X
			if out1&outRight != 0 {
				x += r.W
			}
			y1 = y1 + (x-x1)*(y2-y1)/(x2-x1)
			x1 = x
		} else {
			y := r.Y
			if out1&outBottom != 0 {
				y += r.H
			}
			x1 = x1 + (y-y1)*(x2-x1)/(y2-y1)
			y1 = y
		}
	}
}

// SegmentDistance returns the distance from p to the closest point
// of the segment a-b, using a clamped projection.
func SegmentDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	if dx == 0 && dy == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))

	nearest := Point{a.X + t*dx, a.Y + t*dy}
	return p.Distance(nearest)
}

// PathLength returns the summed segment lengths of a polyline.
func PathLength(pts []Point) float64 {
	total := 0.0
	for i := 0; i < len(pts)-1; i++ {
		total += pts[i].Distance(pts[i+1])
	}
	return total
}

// Midpoint returns the point halfway along a polyline, measured by length.
func Midpoint(pts []Point) Point {
	if len(pts) == 0 {
		return Point{}
	}
	half := PathLength(pts) / 2
	for i := 0; i < len(pts)-1; i++ {
		seg := pts[i].Distance(pts[i+1])
		if seg >= half && seg > 0 {
			t := half / seg
			return pts[i].Add(pts[i+1].Sub(pts[i]).Scale(t))
		}
		half -= seg
	}
	return pts[len(pts)-1]
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Signum returns -1, 0 or 1 according to the sign of v.
func Signum(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
