package erd

// SelectionKind tags what a Selection refers to.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectNode
	SelectConnection
	SelectMulti
)

// Selection refers to nothing, one node, one connection or a
// multi-selection. The zero value selects nothing.
type Selection struct {
	Kind  SelectionKind
	Node  NodeID
	Conn  ConnID
	Multi *MultiSelection
}

// MultiSelection is an ordered, duplicate-free set of nodes and connections.
type MultiSelection struct {
	Nodes []NodeID
	Conns []ConnID
}

// NodeSelection selects a single node.
func NodeSelection(id NodeID) Selection {
	return Selection{Kind: SelectNode, Node: id}
}

// ConnectionSelection selects a single connection.
func ConnectionSelection(id ConnID) Selection {
	return Selection{Kind: SelectConnection, Conn: id}
}

// Multi wraps a multi-selection.
func Multi(m *MultiSelection) Selection {
	return Selection{Kind: SelectMulti, Multi: m}
}

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool {
	return s.Kind == SelectNone
}

// IsSelected reports whether other is covered by s. A node or connection
// is selected by itself or by a multi-selection containing it; a
// multi-selection only covers itself.
func (s Selection) IsSelected(other Selection) bool {
	switch s.Kind {
	case SelectNode:
		return other.Kind == SelectNode && other.Node == s.Node
	case SelectConnection:
		return other.Kind == SelectConnection && other.Conn == s.Conn
	case SelectMulti:
		switch other.Kind {
		case SelectNode:
			return s.Multi.HasNode(other.Node)
		case SelectConnection:
			return s.Multi.HasConnection(other.Conn)
		case SelectMulti:
			return s.Multi == other.Multi
		}
	}
	return false
}

// Highlights reports whether a connection should be emphasised under s:
// it is selected, or one of its endpoint nodes is.
func (s Selection) Highlights(c *Connection) bool {
	if s.Kind == SelectNode {
		return c.From == s.Node || c.To == s.Node
	}
	return s.IsSelected(ConnectionSelection(c.ID))
}

// MergeInto adds everything s refers to into m.
func (s Selection) MergeInto(m *MultiSelection) {
	switch s.Kind {
	case SelectNode:
		m.AddNode(s.Node)
	case SelectConnection:
		m.AddConnection(s.Conn)
	case SelectMulti:
		for _, id := range s.Multi.Nodes {
			m.AddNode(id)
		}
		for _, id := range s.Multi.Conns {
			m.AddConnection(id)
		}
	}
}

// MoveBy translates the selected nodes. Moving a connection moves both of
// its endpoint nodes; a multi-selection moves only its nodes.
func (s Selection) MoveBy(g *Graph, dx, dy float64) {
	switch s.Kind {
	case SelectNode:
		if n := g.Node(s.Node); n != nil {
			n.MoveBy(dx, dy)
		}
	case SelectConnection:
		c := g.Connection(s.Conn)
		if c == nil {
			return
		}
		from, to := g.Endpoints(c)
		if from != nil {
			from.MoveBy(dx, dy)
		}
		if to != nil && to != from {
			to.MoveBy(dx, dy)
		}
	case SelectMulti:
		for _, id := range s.Multi.Nodes {
			if n := g.Node(id); n != nil {
				n.MoveBy(dx, dy)
			}
		}
	}
}

// AddNode adds a node if absent.
func (m *MultiSelection) AddNode(id NodeID) {
	if !m.HasNode(id) {
		m.Nodes = append(m.Nodes, id)
	}
}

// AddConnection adds a connection if absent.
func (m *MultiSelection) AddConnection(id ConnID) {
	if !m.HasConnection(id) {
		m.Conns = append(m.Conns, id)
	}
}

// HasNode reports membership of a node.
func (m *MultiSelection) HasNode(id NodeID) bool {
	for _, n := range m.Nodes {
		if n == id {
			return true
		}
	}
	return false
}

// HasConnection reports membership of a connection.
func (m *MultiSelection) HasConnection(id ConnID) bool {
	for _, c := range m.Conns {
		if c == id {
			return true
		}
	}
	return false
}

// Reset empties the selection.
func (m *MultiSelection) Reset() {
	m.Nodes = m.Nodes[:0]
	m.Conns = m.Conns[:0]
}

// Empty reports whether nothing is in the set.
func (m *MultiSelection) Empty() bool {
	return len(m.Nodes) == 0 && len(m.Conns) == 0
}
