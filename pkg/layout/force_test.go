package layout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

func chainGraph(n int) *erd.Graph {
	g := erd.New()
	var prev *erd.Node
	for i := 0; i < n; i++ {
		node := g.AddNode(erd.NewNode(fmt.Sprintf("T%d", i),
			geom.Pt(float64(i%4)*150, float64(i/4)*90),
			erd.Attribute{Name: "id", Type: "int", PrimaryKey: true},
			erd.Attribute{Name: "parent_id", Type: "int"}))
		node.Size = geom.Pt(200, 120)
		if prev != nil && i%3 != 0 {
			g.Connect(node, "parent_id", prev, "id", erd.OneToMany)
		}
		prev = node
	}
	return g
}

func positions(g *erd.Graph) []geom.Point {
	var out []geom.Point
	for _, n := range g.Nodes() {
		out = append(out, n.Position)
	}
	return out
}

func TestEmptyGraphIsNoop(t *testing.T) {
	g := erd.New()
	calls := 0
	g.OnChange(func() { calls++ })

	ForceDirected(g)

	if calls != 0 {
		t.Errorf("Expected no notification for empty graph, got %d", calls)
	}
}

func TestDegenerateStartSeedsGrid(t *testing.T) {
	g := erd.New()
	for i := 0; i < 5; i++ {
		g.AddNode(erd.NewNode(fmt.Sprintf("T%d", i), geom.Pt(7, 7)))
	}
	g.Nodes()[4].Size = geom.Pt(100, 60)

	p := DefaultParams()
	p.Iterations = 0
	if err := ForceDirectedContext(context.Background(), g, p); err != nil {
		t.Fatal(err)
	}

	want := []geom.Point{
		{X: 0, Y: 0}, {X: 340, Y: 0}, {X: 680, Y: 0},
		{X: 0, Y: 260}, {X: 220, Y: 180}, // last node uses its own measured size
	}
	for i, got := range positions(g) {
		if got != want[i] {
			t.Errorf("Node %d: expected %v, got %v", i, want[i], got)
		}
	}
}

func TestLayoutDeterministic(t *testing.T) {
	a := chainGraph(10)
	b := chainGraph(10)

	ForceDirected(a)
	ForceDirected(b)

	pa, pb := positions(a), positions(b)
	for i := range pa {
		if pa[i] != pb[i] {
			t.Errorf("Node %d differs between runs: %v vs %v", i, pa[i], pb[i])
		}
	}
}

func TestLayoutNonNegativeAndSeparated(t *testing.T) {
	g := chainGraph(10)
	calls := 0
	g.OnChange(func() { calls++ })

	ForceDirected(g)

	if calls != 1 {
		t.Errorf("Expected exactly one change notification, got %d", calls)
	}

	nodes := g.Nodes()
	for _, n := range nodes {
		if n.Position.X < 0 || n.Position.Y < 0 {
			t.Errorf("%s at negative position %v", n.Name, n.Position)
		}
	}
	assertPadded(t, nodes, DefaultParams().Padding)
}

func TestLayoutSeparatedLongChain(t *testing.T) {
	g := chainGraph(16)
	ForceDirected(g)
	assertPadded(t, g.Nodes(), DefaultParams().Padding)
}

// assertPadded checks that no node, grown by pad, overlaps another.
// Collision resolution pushes pairs apart until they clear one padding,
// so growing both rectangles would still report touching neighbours.
func assertPadded(t *testing.T, nodes []*erd.Node, pad float64) {
	t.Helper()
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			if nodes[i].Rect().Expand(pad).Intersects(nodes[j].Rect()) {
				t.Errorf("%s and %s closer than %.0f after layout", nodes[i].Name, nodes[j].Name, pad)
			}
		}
	}
}

func TestTwoStackedNodesSeparate(t *testing.T) {
	g := erd.New()
	users := g.AddNode(erd.NewNode("Users", geom.Pt(0, 0),
		erd.Attribute{Name: "id", Type: "int", PrimaryKey: true}))
	orders := g.AddNode(erd.NewNode("Orders", geom.Pt(0, 0),
		erd.Attribute{Name: "id", Type: "int", PrimaryKey: true},
		erd.Attribute{Name: "user_id", Type: "int"}))
	users.Size = geom.Pt(120, 60)
	orders.Size = geom.Pt(140, 80)
	if _, err := g.Connect(orders, "user_id", users, "id", erd.OneToMany); err != nil {
		t.Fatal(err)
	}

	ForceDirected(g)

	pad := DefaultParams().Padding
	cu, co := users.Rect().Center(), orders.Rect().Center()
	sepX := math.Abs(cu.X-co.X) >= (users.Size.X+orders.Size.X)/2+pad
	sepY := math.Abs(cu.Y-co.Y) >= (users.Size.Y+orders.Size.Y)/2+pad
	if !sepX && !sepY {
		t.Errorf("Expected separation on at least one axis, centers %v and %v", cu, co)
	}
}

func TestNormalizeShiftsNegativeLayout(t *testing.T) {
	g := erd.New()
	a := g.AddNode(erd.NewNode("A", geom.Pt(-500, 40)))
	b := g.AddNode(erd.NewNode("B", geom.Pt(1000, 900)))

	p := DefaultParams()
	p.Iterations = 0
	ForceDirectedContext(context.Background(), g, p)

	if a.Position != geom.Pt(p.Padding, 40) {
		t.Errorf("Expected A shifted to (%.0f,40), got %v", p.Padding, a.Position)
	}
	if b.Position != geom.Pt(1524, 900) {
		t.Errorf("Expected B shifted by the same amount, got %v", b.Position)
	}
}

func TestCancelledLayoutStillNormalizes(t *testing.T) {
	g := chainGraph(4)
	g.Nodes()[0].Position = geom.Pt(-100, -100)
	calls := 0
	g.OnChange(func() { calls++ })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ForceDirectedContext(ctx, g, DefaultParams())

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected one notification, got %d", calls)
	}
	for _, n := range g.Nodes() {
		if n.Position.X < 0 || n.Position.Y < 0 {
			t.Errorf("%s left at negative position %v", n.Name, n.Position)
		}
	}
}
