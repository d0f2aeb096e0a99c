package render

import (
	"image/color"
	"strings"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
	"github.com/ha1tch/erd-toolkit/pkg/route"
)

// Tone is the emphasis of a connection or attribute row.
type Tone int

const (
	ToneNormal Tone = iota
	ToneHover
	ToneSelected
)

// KeyMark is the marker shown beside an attribute.
type KeyMark int

const (
	KeyNone KeyMark = iota
	KeyPrimary
	KeyForeign
	KeyPrimaryForeign
)

// Marker returns a short text form of the key marker.
func (k KeyMark) Marker() string {
	switch k {
	case KeyPrimary:
		return "PK"
	case KeyForeign:
		return "FK"
	case KeyPrimaryForeign:
		return "PF"
	}
	return ""
}

// Colors used in rendering
var (
	colorNodeFill   = color.RGBA{245, 245, 245, 255}
	colorNodeBorder = color.RGBA{192, 192, 192, 255}
	colorNodeSelect = color.RGBA{94, 94, 94, 255}
	colorText       = color.RGBA{0, 0, 0, 255}
	colorWire       = color.RGBA{0, 0, 0, 255}
	colorHover      = color.RGBA{0, 178, 0, 255}
	colorSelected   = color.RGBA{178, 0, 0, 255}
	colorPrimary    = color.RGBA{212, 160, 23, 255}
	colorForeign    = color.RGBA{58, 110, 165, 255}
	colorColumn     = color.RGBA{150, 150, 150, 255}
)

func toneColor(t Tone) color.RGBA {
	switch t {
	case ToneHover:
		return colorHover
	case ToneSelected:
		return colorSelected
	}
	return colorWire
}

func keyColor(k KeyMark) color.RGBA {
	switch k {
	case KeyPrimary, KeyPrimaryForeign:
		return colorPrimary
	case KeyForeign:
		return colorForeign
	}
	return colorColumn
}

// Text is a string anchored at its baseline origin.
type Text struct {
	S  string
	At geom.Point
}

// Row is one attribute line of a node box.
type Row struct {
	Name Text
	Type Text
	Key  KeyMark
	// Icon is the top-left of the key marker square.
	Icon geom.Point
	// Band is the highlight rectangle, drawn when Tone is not normal.
	Band geom.Rect
	Tone Tone
}

// Box is a positioned node.
type Box struct {
	Node     *erd.Node
	Rect     geom.Rect
	Selected bool
	HeaderY  float64
	Title    Text
	Rows     []Row
}

// Wire is a routed connection with its end glyphs.
type Wire struct {
	Conn      *erd.Connection
	Points    []geom.Point
	StartSide route.Side
	EndSide   route.Side
	Start     route.Glyph
	End       route.Glyph
	Tone      Tone
}

// Scene is everything needed to draw a graph, in world coordinates.
type Scene struct {
	Bounds    geom.Rect
	RowHeight int
	Wires     []Wire
	Boxes     []Box
}

// Icon square size and row band height.
const (
	IconSize   = 16
	BandHeight = 16
)

// State is the interactive state that affects drawing.
type State struct {
	Selection erd.Selection
	Hover     *erd.Connection
}

// BuildScene measures every node of g and lays out its drawing.
// Connections with a missing or unmeasured endpoint are left out.
func BuildScene(g *erd.Graph, m Metrics, st State) *Scene {
	Measure(g, m)
	h := m.RowHeight()
	fh := float64(h)

	s := &Scene{Bounds: g.Bounds(), RowHeight: h}

	for _, c := range g.Connections() {
		path, from, to, ok := route.ForConnection(g, c, h)
		if !ok {
			continue
		}
		start, end := route.Glyphs(path, from, to)
		w := Wire{
			Conn:      c,
			Points:    path.Waypoints,
			StartSide: path.StartSide,
			EndSide:   path.EndSide,
			Start:     start,
			End:       end,
		}
		switch {
		case st.Selection.Highlights(c):
			w.Tone = ToneSelected
		case st.Hover != nil && st.Hover.ID == c.ID:
			w.Tone = ToneHover
		}
		s.Wires = append(s.Wires, w)
	}

	var selConn *erd.Connection
	if st.Selection.Kind == erd.SelectConnection {
		selConn = g.Connection(st.Selection.Conn)
	}

	for _, n := range g.Nodes() {
		x, y := n.Position.X, n.Position.Y
		b := Box{
			Node:     n,
			Rect:     n.Rect(),
			Selected: st.Selection.IsSelected(erd.NodeSelection(n.ID)),
			HeaderY:  y + fh + 2,
			Title:    Text{S: n.Name, At: geom.Pt(x+20, y+fh-2)},
		}
		for i, a := range n.Attributes() {
			top := y - 10 + fh*float64(i+2)
			base := y + fh*float64(i+2) + 4

			typeW := float64(blankLabelW)
			if strings.TrimSpace(a.Type) != "" {
				typeW = float64(int(m.Advance(a.Type) + 4))
			}

			r := Row{
				Name: Text{S: a.Name, At: geom.Pt(x+20, base)},
				Type: Text{S: a.Type, At: geom.Pt(x+n.Size.X-(typeW+4), base)},
				Key:  keyMark(a.PrimaryKey, g.IsForeignKey(n, a.Name)),
				Icon: geom.Pt(x+2, top),
				Band: geom.Rect{X: x + 2, Y: top, W: n.Size.X - 4, H: BandHeight},
			}
			switch {
			case selConn != nil && endpointOf(selConn, n, a.Name):
				r.Tone = ToneSelected
			case selConn == nil && st.Hover != nil && endpointOf(st.Hover, n, a.Name):
				r.Tone = ToneHover
			}
			b.Rows = append(b.Rows, r)
		}
		s.Boxes = append(s.Boxes, b)
	}
	return s
}

func keyMark(pk, fk bool) KeyMark {
	switch {
	case pk && fk:
		return KeyPrimaryForeign
	case pk:
		return KeyPrimary
	case fk:
		return KeyForeign
	}
	return KeyNone
}

func endpointOf(c *erd.Connection, n *erd.Node, attr string) bool {
	return (c.From == n.ID && c.FromAttr == attr) || (c.To == n.ID && c.ToAttr == attr)
}
