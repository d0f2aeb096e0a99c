// Package canvas maps pointer positions to graph entities and converts
// between screen and world coordinates.
package canvas

import (
	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
	"github.com/ha1tch/erd-toolkit/pkg/route"
)

// ClickTolerance is the maximum world distance from a connection segment
// that still counts as a hit.
const ClickTolerance = 2.0

// Tester performs hit-tests against a graph. RowHeight must be the same
// text line height the renderer used, or connections will not line up.
type Tester struct {
	Graph     *erd.Graph
	RowHeight int
	Tolerance float64
}

// NewTester creates a tester with the default click tolerance.
func NewTester(g *erd.Graph, rowHeight int) *Tester {
	return &Tester{Graph: g, RowHeight: rowHeight, Tolerance: ClickTolerance}
}

// HitNode returns the topmost node containing p, or nil. Later nodes are
// drawn above earlier ones and win on overlap. Unmeasured nodes have no
// area and are never hit.
func (t *Tester) HitNode(p geom.Point) *erd.Node {
	nodes := t.Graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		r := nodes[i].Rect()
		if !r.Empty() && r.Contains(p) {
			return nodes[i]
		}
	}
	return nil
}

// HitConnection returns the first connection whose routed path passes
// within the tolerance of p, or nil.
func (t *Tester) HitConnection(p geom.Point) *erd.Connection {
	for _, c := range t.Graph.Connections() {
		path, _, _, ok := route.ForConnection(t.Graph, c, t.RowHeight)
		if !ok {
			continue
		}
		if NearPath(p, path.Waypoints, t.Tolerance) {
			return c
		}
	}
	return nil
}

// Hit resolves p to a selection: a node first, then a connection.
func (t *Tester) Hit(p geom.Point) erd.Selection {
	if n := t.HitNode(p); n != nil {
		return erd.NodeSelection(n.ID)
	}
	if c := t.HitConnection(p); c != nil {
		return erd.ConnectionSelection(c.ID)
	}
	return erd.Selection{}
}

// NodesIn returns every node whose rectangle intersects r, in drawing
// order.
func (t *Tester) NodesIn(r geom.Rect) []*erd.Node {
	var out []*erd.Node
	for _, n := range t.Graph.Nodes() {
		if n.Rect().Intersects(r) {
			out = append(out, n)
		}
	}
	return out
}

// SelectIn builds a multi-selection of the nodes inside a drag rectangle
// given by two corners.
func (t *Tester) SelectIn(a, b geom.Point) erd.Selection {
	r := RectFromCorners(a, b)
	m := &erd.MultiSelection{}
	for _, n := range t.NodesIn(r) {
		m.AddNode(n.ID)
	}
	if m.Empty() {
		return erd.Selection{}
	}
	return erd.Multi(m)
}

// NearPath reports whether p is within tol of any segment of pts.
func NearPath(p geom.Point, pts []geom.Point, tol float64) bool {
	for i := 0; i < len(pts)-1; i++ {
		if geom.SegmentDistance(p, pts[i], pts[i+1]) <= tol {
			return true
		}
	}
	return false
}

// RectFromCorners normalises two arbitrary corners into a rectangle.
func RectFromCorners(a, b geom.Point) geom.Rect {
	x0, x1 := a.X, b.X
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	y0, y1 := a.Y, b.Y
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return geom.Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}
