package route

import (
	"testing"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

func box(x, y, w, h, off float64) Endpoint {
	return Endpoint{Pos: geom.Pt(x, y), Size: geom.Pt(w, h), OffsetY: off, Icon: erd.IconOne}
}

func assertPoints(t *testing.T, got, want []geom.Point) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Expected %d waypoints, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Waypoint %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func assertOrthogonal(t *testing.T, pts []geom.Point) {
	t.Helper()
	for i := 0; i < len(pts)-1; i++ {
		sameX := pts[i].X == pts[i+1].X
		sameY := pts[i].Y == pts[i+1].Y
		if sameX == sameY {
			t.Errorf("Segment %d (%v -> %v) is not axis-aligned", i, pts[i], pts[i+1])
		}
	}
}

func TestRouteSeparatedNodes(t *testing.T) {
	from := box(0, 0, 100, 80, 30)
	to := box(300, 0, 100, 80, 50)

	p := Route(from, to)

	if p.StartSide != Right || p.EndSide != Left {
		t.Errorf("Expected right->left, got %v->%v", p.StartSide, p.EndSide)
	}
	if p.StartEdge != geom.Pt(100, 30) || p.EndEdge != geom.Pt(300, 50) {
		t.Errorf("Unexpected edges %v %v", p.StartEdge, p.EndEdge)
	}
	assertPoints(t, p.Waypoints, []geom.Point{{X: 110, Y: 30}, {X: 200, Y: 30}, {X: 200, Y: 50}, {X: 290, Y: 50}})
	assertOrthogonal(t, p.Waypoints)

	if last := p.Waypoints[len(p.Waypoints)-1]; last != p.EndSymbol {
		t.Errorf("Expected path to end at end symbol %v, got %v", p.EndSymbol, last)
	}
}

func TestRouteReversedDirection(t *testing.T) {
	from := box(300, 0, 100, 80, 30)
	to := box(0, 0, 100, 80, 30)

	p := Route(from, to)

	if p.StartSide != Left || p.EndSide != Right {
		t.Errorf("Expected left->right, got %v->%v", p.StartSide, p.EndSide)
	}
	assertPoints(t, p.Waypoints, []geom.Point{{X: 290, Y: 30}, {X: 110, Y: 30}})
}

func TestRouteStraightWhenLevel(t *testing.T) {
	from := box(0, 0, 100, 80, 30)
	to := box(300, 0.5, 100, 80, 30)

	p := Route(from, to)
	if len(p.Waypoints) != 2 {
		t.Errorf("Expected a single segment, got %v", p.Waypoints)
	}
}

func TestRouteStackedNodesUsesSearch(t *testing.T) {
	from := box(0, 0, 100, 80, 30)
	to := box(0, 200, 100, 80, 30)

	if !OverlapX(from, to) {
		t.Fatal("Expected stacked nodes to overlap in X")
	}

	p := Route(from, to)

	// Right/right and left/left tie; right/right is enumerated first.
	rr, ll := build(from, to, Right, Right), build(from, to, Left, Left)
	if Score(rr, from, to) != Score(ll, from, to) {
		t.Fatalf("Expected mirrored paths to tie, got %.0f and %.0f", Score(rr, from, to), Score(ll, from, to))
	}
	if p.StartSide != Right || p.EndSide != Right {
		t.Errorf("Expected right->right, got %v->%v", p.StartSide, p.EndSide)
	}
	assertPoints(t, p.Waypoints, []geom.Point{{X: 110, Y: 30}, {X: 120, Y: 30}, {X: 120, Y: 230}, {X: 110, Y: 230}})
	assertOrthogonal(t, p.Waypoints)
}

func TestSideSelectionAvoidsBacktrack(t *testing.T) {
	// Close neighbours on one row: expanded extents overlap, so every
	// side combination is scored.
	from := box(0, 0, 100, 80, 30)
	to := box(130, 0, 100, 80, 30)

	start, end := BestSides(from, to)
	if start != Right || end != Left {
		t.Fatalf("Expected right->left, got %v->%v", start, end)
	}

	chosen := build(from, to, start, end)
	if BacktrackCost(chosen) != 0 {
		t.Errorf("Chosen path should not backtrack")
	}

	rejected := build(from, to, Left, Left)
	if BacktrackCost(rejected) != BacktrackPenalty {
		t.Errorf("Expected left->left to carry the backtrack penalty")
	}
	if Score(rejected, from, to) <= Score(chosen, from, to) {
		t.Errorf("Expected rejected combination to score worse")
	}
}

func TestSideSelectionThreeInARow(t *testing.T) {
	// Three tables on one row with overlapping Y ranges. The right one
	// points back at the middle one, so leaving from its right side
	// would start against the direction of travel.
	left := box(0, 0, 100, 80, 30)
	middle := box(130, 0, 100, 120, 30)
	right := box(260, 0, 100, 60, 30)

	if !OverlapX(right, middle) {
		t.Fatal("Expected neighbours to overlap in X")
	}

	p := Route(right, middle)
	if p.StartSide != Left || p.EndSide != Right {
		t.Fatalf("Expected left->right, got %v->%v", p.StartSide, p.EndSide)
	}
	if BacktrackCost(p) != 0 {
		t.Errorf("Chosen path should not backtrack, got waypoints %v", p.Waypoints)
	}

	for _, end := range []Side{Left, Right} {
		rejected := build(right, middle, Right, end)
		if BacktrackCost(rejected) == 0 {
			t.Errorf("Expected right->%v to carry the backtrack penalty", end)
		}
		if Score(rejected, right, middle) <= Score(p, right, middle) {
			t.Errorf("Expected right->%v to score worse than the chosen path", end)
		}
	}

	// The outer pair is far apart and takes the direct rule.
	outer := Route(left, right)
	if outer.StartSide != Right || outer.EndSide != Left || BacktrackCost(outer) != 0 {
		t.Errorf("Expected right->left without backtrack, got %v->%v", outer.StartSide, outer.EndSide)
	}
}

func TestScoreCountsCrossings(t *testing.T) {
	from := box(0, 0, 100, 80, 30)
	to := box(0, 200, 100, 80, 30)

	p := build(from, to, Right, Right)
	want := 220 + 3*CrossingPenalty
	if got := Score(p, from, to); got != want {
		t.Errorf("Expected score %.0f, got %.0f", want, got)
	}
}

func TestOrthogonalRedirectLeft(t *testing.T) {
	from := box(0, 0, 100, 80, 30)
	to := box(40, 200, 100, 80, 30)

	pts := Orthogonal(from.Symbol(Left), to.Symbol(Left), from, to)
	assertPoints(t, pts, []geom.Point{{X: -10, Y: 30}, {X: -20, Y: 30}, {X: -20, Y: 230}, {X: 30, Y: 230}})
}

func TestRowOffset(t *testing.T) {
	tests := []struct {
		h, i, want int
	}{
		{16, 0, 30},
		{16, 1, 46},
		{15, 0, 27},
		{15, 2, 57},
	}
	for _, tt := range tests {
		if got := RowOffset(tt.h, tt.i); got != tt.want {
			t.Errorf("RowOffset(%d,%d): expected %d, got %d", tt.h, tt.i, tt.want, got)
		}
	}
}

func TestForConnectionSkipsUnmeasured(t *testing.T) {
	g := erd.New()
	a := g.AddNode(erd.NewNode("A", geom.Pt(0, 0), erd.Attribute{Name: "id", PrimaryKey: true}))
	b := g.AddNode(erd.NewNode("B", geom.Pt(300, 0), erd.Attribute{Name: "a_id", Nullable: true}))
	c, _ := g.Connect(b, "a_id", a, "id", erd.OneToMany)

	if _, _, _, ok := ForConnection(g, c, 16); ok {
		t.Error("Expected unmeasured nodes to be skipped")
	}

	a.Size = geom.Pt(100, 52)
	b.Size = geom.Pt(100, 52)
	p, from, to, ok := ForConnection(g, c, 16)
	if !ok {
		t.Fatal("Expected route for measured nodes")
	}
	if from.Icon != erd.IconZero || to.Icon != erd.IconManyOne {
		t.Errorf("Unexpected icons %v %v", from.Icon, to.Icon)
	}
	if p.StartEdge.Y != 30 || p.StartSide != Left {
		t.Errorf("Unexpected start %v %v", p.StartSide, p.StartEdge)
	}

	b.RemoveAttribute("a_id")
	if _, _, _, ok := ForConnection(g, c, 16); ok {
		t.Error("Expected connection with missing attribute to be skipped")
	}
}

func TestGlyphs(t *testing.T) {
	from := box(0, 0, 100, 80, 30)
	from.Icon = erd.IconZero
	to := box(300, 0, 100, 80, 30)
	to.Icon = erd.IconManyOne

	p := Route(from, to)
	start, end := Glyphs(p, from, to)

	// The start end shows the crow's foot computed for the far endpoint
	if start.Icon != erd.IconManyOne || len(start.Lines) != 4 {
		t.Fatalf("Expected crow's foot plus bar at start, got %+v", start)
	}
	if start.Lines[1].A != geom.Pt(100, 24) || start.Lines[1].B != geom.Pt(110, 30) {
		t.Errorf("Unexpected upper prong %+v", start.Lines[1])
	}
	bar := start.Lines[3]
	if bar.A != geom.Pt(110, 24) || bar.B != geom.Pt(110, 36) {
		t.Errorf("Unexpected bar %+v", bar)
	}

	if end.Icon != erd.IconZero || !end.Circle || len(end.Lines) != 1 {
		t.Fatalf("Expected stub plus circle at end, got %+v", end)
	}
	if end.Center != geom.Pt(290, 30) || end.Radius != CircleRadius {
		t.Errorf("Unexpected circle %v r=%.0f", end.Center, end.Radius)
	}
}
