package route

import (
	"math"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

// RowOffset returns the vertical offset, from a node's top edge, of the
// attribute row at index i. The header occupies the first row; integer
// arithmetic matches the renderer's pixel layout.
func RowOffset(rowHeight, i int) int {
	return -10 + (rowHeight*(i+2) + rowHeight/2)
}

// Endpoints resolves the two routed ends of a connection. It reports
// false when either node is missing or unmeasured, or when either
// attribute no longer exists.
func Endpoints(g *erd.Graph, c *erd.Connection, rowHeight int) (from, to Endpoint, ok bool) {
	fromNode, toNode := g.Endpoints(c)
	if fromNode == nil || toNode == nil || !fromNode.Visible() || !toNode.Visible() {
		return Endpoint{}, Endpoint{}, false
	}

	fi := fromNode.AttrIndex(c.FromAttr)
	ti := toNode.AttrIndex(c.ToAttr)
	if fi < 0 || ti < 0 {
		return Endpoint{}, Endpoint{}, false
	}
	fromAttr := fromNode.Attributes()[fi]
	toAttr := toNode.Attributes()[ti]

	from = Endpoint{
		Pos:     fromNode.Position,
		Size:    fromNode.Size,
		OffsetY: float64(RowOffset(rowHeight, fi)),
		Icon:    c.Type.FromIcon(fromAttr.Nullable),
	}
	to = Endpoint{
		Pos:     toNode.Position,
		Size:    toNode.Size,
		OffsetY: float64(RowOffset(rowHeight, ti)),
		Icon:    c.Type.ToIcon(toAttr.Nullable),
	}
	return from, to, true
}

// ForConnection routes a connection of g. It is the single source of
// connection geometry for drawing and hit-testing.
func ForConnection(g *erd.Graph, c *erd.Connection, rowHeight int) (Path, Endpoint, Endpoint, bool) {
	from, to, ok := Endpoints(g, c, rowHeight)
	if !ok {
		return Path{}, Endpoint{}, Endpoint{}, false
	}
	return Route(from, to), from, to, true
}

// Glyph sizes.
const (
	BarHalfHeight  = 6
	CrowHalfHeight = 6
	CircleRadius   = 4
)

// Segment is a straight stroke.
type Segment struct {
	A, B geom.Point
}

// Glyph is the decoration at one end of a connection: stroke lines plus
// an optional circle.
type Glyph struct {
	Icon   erd.IconType
	Lines  []Segment
	Circle bool
	Center geom.Point
	Radius float64
}

// Glyphs returns the decorations at the start and end of p. Each end
// shows the cardinality of the table it touches, which is the icon
// computed for the opposite endpoint.
func Glyphs(p Path, from, to Endpoint) (start, end Glyph) {
	return glyph(p.StartEdge, p.StartSymbol, to.Icon), glyph(p.EndEdge, p.EndSymbol, from.Icon)
}

func glyph(edge, symbol geom.Point, icon erd.IconType) Glyph {
	g := Glyph{Icon: icon}
	y := roundHalfUp(edge.Y)
	sx := roundHalfUp(symbol.X)

	if icon.Many() {
		ex := roundHalfUp(edge.X)
		tip := geom.Point{X: sx, Y: y}
		g.Lines = append(g.Lines,
			Segment{geom.Point{X: ex, Y: y}, tip},
			Segment{geom.Point{X: ex, Y: y - CrowHalfHeight}, tip},
			Segment{geom.Point{X: ex, Y: y + CrowHalfHeight}, tip},
		)
	} else {
		g.Lines = append(g.Lines, Segment{edge, symbol})
	}

	switch icon {
	case erd.IconOne, erd.IconManyOne:
		g.Lines = append(g.Lines, Segment{
			geom.Point{X: sx, Y: y - BarHalfHeight},
			geom.Point{X: sx, Y: y + BarHalfHeight},
		})
	case erd.IconZero, erd.IconManyZero:
		g.Circle = true
		g.Center = geom.Point{X: sx, Y: y}
		g.Radius = CircleRadius
	}
	return g
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
