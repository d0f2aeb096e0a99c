package erd

import (
	"testing"

	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

func TestSnapshotIsDeepCopy(t *testing.T) {
	g, users, orders, _ := usersOrders(t)
	snap := g.Snapshot()

	users.Position = geom.Pt(999, 999)
	orders.AddAttribute(Attribute{Name: "total", Type: "numeric"})
	g.DeleteNode(users.ID)

	copyGraph := snap.Graph()
	if copyGraph.Len() != 2 || len(copyGraph.Connections()) != 1 {
		t.Fatalf("Expected snapshot to hold 2 nodes and 1 connection")
	}
	u := copyGraph.Node(users.ID)
	if u == nil || u.Position != geom.Pt(0, 0) {
		t.Errorf("Expected snapshot Users at origin with same identity, got %+v", u)
	}
	if copyGraph.Node(orders.ID).AttrIndex("total") >= 0 {
		t.Error("Expected snapshot unaffected by later attribute edits")
	}
}

func TestSnapshotLoadIntoKeepsObservers(t *testing.T) {
	g, users, _, _ := usersOrders(t)
	snap := g.Snapshot()
	g.DeleteNode(users.ID)

	changes := 0
	g.OnChange(func() { changes++ })
	snap.LoadInto(g)

	if g.Len() != 2 || len(g.Connections()) != 1 {
		t.Errorf("Expected restored contents")
	}
	if changes != 1 {
		t.Errorf("Expected observers kept and notified once, got %d", changes)
	}
}

func TestCompare(t *testing.T) {
	g, users, orders, _ := usersOrders(t)
	before := g.Snapshot()

	users.AddAttribute(Attribute{Name: "email", Type: "text"})
	orders.AddAttribute(Attribute{Name: "user_id", Type: "bigint"})
	orders.RemoveAttribute("id")
	g.Prune()
	g.AddNode(NewNode("Audit", geom.Point{}, Attribute{Name: "id", PrimaryKey: true}))
	if _, err := g.Relate(users, g.NodeByName("Audit"), RelateOneToMany); err != nil {
		t.Fatal(err)
	}

	d := Compare(before, g.Snapshot())

	if len(d.AddedTables) != 1 || d.AddedTables[0] != "Audit" {
		t.Errorf("Expected Audit added, got %v", d.AddedTables)
	}
	if len(d.AddedColumns) != 1 || d.AddedColumns[0] != (TableColumn{"Users", "email"}) {
		t.Errorf("Unexpected added columns %v", d.AddedColumns)
	}
	if len(d.RemovedColumns) != 1 || d.RemovedColumns[0] != (TableColumn{"Orders", "id"}) {
		t.Errorf("Unexpected removed columns %v", d.RemovedColumns)
	}
	if len(d.ChangedColumns) != 1 || d.ChangedColumns[0].New.Type != "bigint" {
		t.Errorf("Unexpected changed columns %v", d.ChangedColumns)
	}
	if len(d.AddedRelations) != 1 || d.AddedRelations[0].FromTable != "Audit" {
		t.Errorf("Unexpected added relations %v", d.AddedRelations)
	}
	if len(d.RemovedRelations) != 0 {
		t.Errorf("Expected existing relation kept, got removed %v", d.RemovedRelations)
	}

	if !Compare(before, before).Empty() {
		t.Error("Expected empty diff against itself")
	}
}
