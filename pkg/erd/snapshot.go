package erd

import "reflect"

// Snapshot is a deep copy of a graph's nodes and connections.
// Identities are preserved.
type Snapshot struct {
	nodes []*Node
	conns []Connection
}

// Snapshot captures the current graph contents.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{
		nodes: make([]*Node, len(g.nodes)),
		conns: make([]Connection, len(g.conns)),
	}
	for i, n := range g.nodes {
		s.nodes[i] = n.clone()
	}
	for i, c := range g.conns {
		s.conns[i] = *c
	}
	return s
}

// LoadInto replaces the contents of g with a copy of the snapshot and
// notifies observers. Observers registered on g are kept.
func (s *Snapshot) LoadInto(g *Graph) {
	g.nodes = g.nodes[:0]
	g.conns = g.conns[:0]
	for _, n := range s.nodes {
		g.nodes = append(g.nodes, n.clone())
	}
	for _, c := range s.conns {
		c := c
		g.conns = append(g.conns, &c)
	}
	g.Changed()
}

// Graph returns an independent graph holding a copy of the snapshot.
func (s *Snapshot) Graph() *Graph {
	g := New()
	s.LoadInto(g)
	return g
}

// TableColumn names a column of a table.
type TableColumn struct {
	Table  string
	Column string
}

// ColumnChange is a column present on both sides with different properties.
type ColumnChange struct {
	Table    string
	Old, New Attribute
}

// Relation is a connection expressed by table and column names.
type Relation struct {
	FromTable, FromColumn string
	ToTable, ToColumn     string
	Type                  ConnectionType
}

// Diff is the structural difference between two snapshots, matched by
// table and column name. Positions are ignored.
type Diff struct {
	AddedTables      []string
	RemovedTables    []string
	AddedColumns     []TableColumn
	RemovedColumns   []TableColumn
	ChangedColumns   []ColumnChange
	AddedRelations   []Relation
	RemovedRelations []Relation
}

// Empty reports whether the snapshots are structurally identical.
func (d Diff) Empty() bool {
	return len(d.AddedTables) == 0 && len(d.RemovedTables) == 0 &&
		len(d.AddedColumns) == 0 && len(d.RemovedColumns) == 0 &&
		len(d.ChangedColumns) == 0 &&
		len(d.AddedRelations) == 0 && len(d.RemovedRelations) == 0
}

// Compare computes what changed going from old to cur.
func Compare(old, cur *Snapshot) Diff {
	var d Diff

	oldTables := old.tablesByName()
	curTables := cur.tablesByName()

	for _, n := range cur.nodes {
		prev, ok := oldTables[n.Name]
		if !ok {
			d.AddedTables = append(d.AddedTables, n.Name)
			continue
		}
		for _, a := range n.attrs {
			was, ok := prev.Attr(a.Name)
			switch {
			case !ok:
				d.AddedColumns = append(d.AddedColumns, TableColumn{n.Name, a.Name})
			case !sameAttribute(was, a):
				d.ChangedColumns = append(d.ChangedColumns, ColumnChange{n.Name, was, a})
			}
		}
		for _, a := range prev.attrs {
			if n.AttrIndex(a.Name) < 0 {
				d.RemovedColumns = append(d.RemovedColumns, TableColumn{n.Name, a.Name})
			}
		}
	}
	for _, n := range old.nodes {
		if _, ok := curTables[n.Name]; !ok {
			d.RemovedTables = append(d.RemovedTables, n.Name)
		}
	}

	oldRels := old.relations()
	curRels := cur.relations()
	inOld := make(map[Relation]bool, len(oldRels))
	for _, r := range oldRels {
		inOld[r] = true
	}
	inCur := make(map[Relation]bool, len(curRels))
	for _, r := range curRels {
		inCur[r] = true
		if !inOld[r] {
			d.AddedRelations = append(d.AddedRelations, r)
		}
	}
	for _, r := range oldRels {
		if !inCur[r] {
			d.RemovedRelations = append(d.RemovedRelations, r)
		}
	}

	return d
}

func (s *Snapshot) tablesByName() map[string]*Node {
	m := make(map[string]*Node, len(s.nodes))
	for _, n := range s.nodes {
		if _, dup := m[n.Name]; !dup {
			m[n.Name] = n
		}
	}
	return m
}

func (s *Snapshot) relations() []Relation {
	byID := make(map[NodeID]*Node, len(s.nodes))
	for _, n := range s.nodes {
		byID[n.ID] = n
	}
	rels := make([]Relation, 0, len(s.conns))
	for _, c := range s.conns {
		from, to := byID[c.From], byID[c.To]
		if from == nil || to == nil {
			continue
		}
		rels = append(rels, Relation{from.Name, c.FromAttr, to.Name, c.ToAttr, c.Type})
	}
	return rels
}

func sameAttribute(a, b Attribute) bool {
	return reflect.DeepEqual(a, b)
}
