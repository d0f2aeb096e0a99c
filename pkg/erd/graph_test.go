package erd

import (
	"errors"
	"testing"

	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

func usersOrders(t *testing.T) (*Graph, *Node, *Node, *Connection) {
	t.Helper()
	g := New()
	users := g.AddNode(NewNode("Users", geom.Pt(0, 0),
		Attribute{Name: "id", Type: "int", PrimaryKey: true}))
	orders := g.AddNode(NewNode("Orders", geom.Pt(300, 0),
		Attribute{Name: "id", Type: "int", PrimaryKey: true},
		Attribute{Name: "user_id", Type: "int"}))
	c, err := g.Connect(orders, "user_id", users, "id", OneToMany)
	if err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	return g, users, orders, c
}

func TestAddAttributeKeepsOrder(t *testing.T) {
	n := NewNode("T", geom.Point{},
		Attribute{Name: "a", Type: "int"},
		Attribute{Name: "b", Type: "int"},
		Attribute{Name: "c", Type: "int"})

	n.AddAttribute(Attribute{Name: "b", Type: "text"})

	if got := n.AttrIndex("b"); got != 1 {
		t.Errorf("Expected replaced attribute to keep index 1, got %d", got)
	}
	if a, _ := n.Attr("b"); a.Type != "text" {
		t.Errorf("Expected replaced type text, got %s", a.Type)
	}
	if len(n.Attributes()) != 3 {
		t.Errorf("Expected 3 attributes, got %d", len(n.Attributes()))
	}

	n.RemoveAttribute("a")
	if got := n.AttrIndex("c"); got != 1 {
		t.Errorf("Expected c to shift to index 1, got %d", got)
	}
}

func TestConnectValidates(t *testing.T) {
	g, users, orders, _ := usersOrders(t)

	if _, err := g.Connect(orders, "missing", users, "id", OneToMany); !errors.Is(err, ErrUnknownAttribute) {
		t.Errorf("Expected ErrUnknownAttribute, got %v", err)
	}
	stray := NewNode("Stray", geom.Point{}, Attribute{Name: "id"})
	if _, err := g.Connect(stray, "id", users, "id", OneToOne); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Expected ErrUnknownNode, got %v", err)
	}
}

func TestDeleteNodeCascades(t *testing.T) {
	g, users, orders, _ := usersOrders(t)
	items := g.AddNode(NewNode("Items", geom.Pt(0, 300), Attribute{Name: "order_id"}))
	if _, err := g.Connect(items, "order_id", orders, "id", OneToMany); err != nil {
		t.Fatal(err)
	}

	if !g.DeleteNode(users.ID) {
		t.Fatal("Expected DeleteNode to report removal")
	}
	if g.Len() != 2 {
		t.Errorf("Expected 2 nodes, got %d", g.Len())
	}
	for _, c := range g.Connections() {
		if c.From == users.ID || c.To == users.ID {
			t.Errorf("Connection %v still references deleted node", c.ID)
		}
	}
	if len(g.Connections()) != 1 {
		t.Errorf("Expected 1 surviving connection, got %d", len(g.Connections()))
	}
	if g.DeleteNode(users.ID) {
		t.Error("Expected second delete to be a no-op")
	}
}

func TestDeleteSelection(t *testing.T) {
	g, users, _, c := usersOrders(t)

	g.Delete(ConnectionSelection(c.ID))
	if len(g.Connections()) != 0 {
		t.Errorf("Expected connection removed")
	}

	m := &MultiSelection{}
	m.AddNode(users.ID)
	g.Delete(Multi(m))
	if g.Node(users.ID) != nil {
		t.Errorf("Expected Users removed by multi-selection")
	}
}

func TestPruneDropsDanglingConnections(t *testing.T) {
	g, _, orders, _ := usersOrders(t)
	orders.RemoveAttribute("user_id")

	if got := g.Prune(); got != 1 {
		t.Errorf("Expected 1 pruned connection, got %d", got)
	}
}

func TestIsForeignKey(t *testing.T) {
	g, users, orders, _ := usersOrders(t)

	if !g.IsForeignKey(orders, "user_id") {
		t.Error("Expected Orders.user_id to be a foreign key")
	}
	if !g.IsForeignKey(users, "id") {
		t.Error("Expected Users.id to be a connection endpoint")
	}
	if g.IsForeignKey(orders, "id") {
		t.Error("Expected Orders.id not to be a foreign key")
	}
}

func TestBounds(t *testing.T) {
	g := New()
	if g.Bounds() != (geom.Rect{}) {
		t.Errorf("Expected zero bounds for empty graph")
	}

	a := g.AddNode(NewNode("A", geom.Pt(0, 0)))
	a.Size = geom.Pt(100, 50)
	b := g.AddNode(NewNode("B", geom.Pt(200, 100)))
	b.Size = geom.Pt(50, 50)

	want := geom.Rect{X: -20, Y: -20, W: 290, H: 190}
	if got := g.Bounds(); got != want {
		t.Errorf("Expected bounds %v, got %v", want, got)
	}
}

func TestChangedNotifiesObservers(t *testing.T) {
	g := New()
	calls := 0
	g.OnChange(func() { calls++ })
	g.OnChange(func() { calls++ })

	g.Changed()
	if calls != 2 {
		t.Errorf("Expected 2 observer calls, got %d", calls)
	}
}

func TestIconTypes(t *testing.T) {
	tests := []struct {
		typ      ConnectionType
		nullable bool
		from, to IconType
	}{
		{OneToOne, false, IconOne, IconOne},
		{OneToOne, true, IconZero, IconZero},
		{OneToMany, false, IconOne, IconManyOne},
		{OneToMany, true, IconZero, IconManyZero},
	}
	for _, tt := range tests {
		if got := tt.typ.FromIcon(tt.nullable); got != tt.from {
			t.Errorf("%v.FromIcon(%v): expected %v, got %v", tt.typ, tt.nullable, tt.from, got)
		}
		if got := tt.typ.ToIcon(tt.nullable); got != tt.to {
			t.Errorf("%v.ToIcon(%v): expected %v, got %v", tt.typ, tt.nullable, tt.to, got)
		}
	}
}

func TestParseConnectionType(t *testing.T) {
	for _, typ := range []ConnectionType{OneToOne, OneToMany} {
		got, err := ParseConnectionType(typ.String())
		if err != nil || got != typ {
			t.Errorf("Expected %v, got %v (%v)", typ, got, err)
		}
	}
	if _, err := ParseConnectionType("ManyToMany"); err == nil {
		t.Error("Expected error for unknown type")
	}
}
