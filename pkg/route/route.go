// Package route computes orthogonal connection paths between ERD nodes.
//
// The renderer and the hit-tester both obtain geometry from ForConnection,
// so what is drawn is exactly what can be clicked.
package route

import (
	"math"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

const (
	// Margin is the clearance kept around node rectangles.
	Margin = 20.0
	// SymbolClearance is the distance from the node edge to the
	// cardinality glyph.
	SymbolClearance = 10.0

	// BacktrackPenalty is added when the first segment heads against
	// its start side.
	BacktrackPenalty = 1_000_000.0
	// CrossingPenalty is added per segment touching an expanded node
	// rectangle.
	CrossingPenalty = 100_000.0

	backtrackThreshold = 0.01
	straightThreshold  = 1.0
)

// Side is the node edge a connection attaches to.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// Dir returns +1 for Right and -1 for Left.
func (s Side) Dir() float64 {
	if s == Right {
		return 1
	}
	return -1
}

// Endpoint is one end of a connection: a node box, the vertical offset of
// the attribute row from the node's top, and the glyph drawn there.
type Endpoint struct {
	Pos     geom.Point
	Size    geom.Point
	OffsetY float64
	Icon    erd.IconType
}

// Rect returns the endpoint node's rectangle.
func (e Endpoint) Rect() geom.Rect {
	return geom.RectAt(e.Pos, e.Size)
}

// Edge returns the attachment point on the given side.
func (e Endpoint) Edge(side Side) geom.Point {
	x := e.Pos.X
	if side == Right {
		x += e.Size.X
	}
	return geom.Point{X: x, Y: e.Pos.Y + e.OffsetY}
}

// Symbol returns the glyph centre on the given side.
func (e Endpoint) Symbol(side Side) geom.Point {
	return e.Edge(side).Add(geom.Point{X: side.Dir() * SymbolClearance})
}

// Path is a routed connection.
type Path struct {
	StartSide, EndSide     Side
	StartEdge, EndEdge     geom.Point
	StartSymbol, EndSymbol geom.Point
	// Waypoints run from StartSymbol to EndSymbol.
	Waypoints []geom.Point
}

// OverlapX reports whether the two boxes' margin-expanded horizontal
// extents overlap.
func OverlapX(from, to Endpoint) bool {
	fromLeft := from.Pos.X
	fromRight := from.Pos.X + from.Size.X
	toLeft := to.Pos.X
	toRight := to.Pos.X + to.Size.X
	return fromLeft-Margin < toRight+Margin && fromRight+Margin > toLeft-Margin
}

// Route chooses attachment sides and builds the orthogonal path.
func Route(from, to Endpoint) Path {
	var start, end Side
	if OverlapX(from, to) {
		start, end = BestSides(from, to)
	} else {
		fromCX := from.Pos.X + from.Size.X/2
		toCX := to.Pos.X + to.Size.X/2
		start, end = Left, Left
		if toCX > fromCX {
			start = Right
		}
		if fromCX > toCX {
			end = Right
		}
	}
	return build(from, to, start, end)
}

// build constructs the path for a fixed pair of sides.
func build(from, to Endpoint, start, end Side) Path {
	p := Path{
		StartSide:   start,
		EndSide:     end,
		StartEdge:   from.Edge(start),
		EndEdge:     to.Edge(end),
		StartSymbol: from.Symbol(start),
		EndSymbol:   to.Symbol(end),
	}
	p.Waypoints = Orthogonal(p.StartSymbol, p.EndSymbol, from, to)
	return p
}

// sides in enumeration order for the exhaustive search. On equal scores
// the first combination wins, so right->right beats left->left.
var sides = [...]Side{Right, Left}

// BestSides tries every combination of start and end side and returns the
// lowest scoring one. Ties keep the earlier combination.
func BestSides(from, to Endpoint) (Side, Side) {
	bestStart, bestEnd := Right, Left
	bestScore := math.Inf(1)

	for _, s := range sides {
		for _, e := range sides {
			score := Score(build(from, to, s, e), from, to)
			if score < bestScore {
				bestScore = score
				bestStart, bestEnd = s, e
			}
		}
	}
	return bestStart, bestEnd
}

// Score rates a candidate path: its length, plus BacktrackPenalty when
// the first segment heads against the start side, plus CrossingPenalty
// for every segment touching either expanded node rectangle.
func Score(p Path, from, to Endpoint) float64 {
	pts := p.Waypoints
	score := geom.PathLength(pts)
	score += BacktrackCost(p)

	fromRect := from.Rect().Expand(Margin)
	toRect := to.Rect().Expand(Margin)
	for i := 0; i < len(pts)-1; i++ {
		if fromRect.IntersectsSegment(pts[i], pts[i+1]) || toRect.IntersectsSegment(pts[i], pts[i+1]) {
			score += CrossingPenalty
		}
	}
	return score
}

// BacktrackCost returns BacktrackPenalty if the first segment of p runs
// against its start side, otherwise zero.
func BacktrackCost(p Path) float64 {
	if len(p.Waypoints) < 2 {
		return 0
	}
	dx := p.Waypoints[1].X - p.Waypoints[0].X
	if p.StartSide == Right && dx < -backtrackThreshold {
		return BacktrackPenalty
	}
	if p.StartSide == Left && dx > backtrackThreshold {
		return BacktrackPenalty
	}
	return 0
}

// Orthogonal builds a horizontal-vertical-horizontal path from start to
// end. Nearly level points get a single segment. A vertical run that
// would cross either expanded node is moved outside both nodes, to the
// right when the path leaves rightwards and to the left otherwise.
func Orthogonal(start, end geom.Point, from, to Endpoint) []geom.Point {
	if math.Abs(start.Y-end.Y) < straightThreshold {
		return []geom.Point{start, end}
	}

	fromRect := from.Rect().Expand(Margin)
	toRect := to.Rect().Expand(Margin)

	midX := (start.X + end.X) / 2
	if fromRect.SpansX(midX) || toRect.SpansX(midX) {
		startsRight := start.X > from.Pos.X+from.Size.X/2
		if startsRight {
			midX = math.Max(from.Pos.X+from.Size.X+Margin, to.Pos.X+to.Size.X+Margin)
		} else {
			midX = math.Min(from.Pos.X-Margin, to.Pos.X-Margin)
		}
	}

	return []geom.Point{
		start,
		{X: midX, Y: start.Y},
		{X: midX, Y: end.Y},
		end,
	}
}
