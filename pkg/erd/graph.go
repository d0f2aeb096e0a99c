package erd

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

// Errors returned by graph mutations.
var (
	ErrUnknownNode      = errors.New("unknown node")
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// BoundsMargin is the padding added around the union of node rectangles.
const BoundsMargin = 20.0

// Graph owns an insertion-ordered set of nodes and the connections
// between them. Node order is drawing order: later nodes are on top.
//
// Mutators do not notify observers themselves; the caller finishing a
// logical edit calls Changed once.
type Graph struct {
	nodes     []*Node
	conns     []*Connection
	observers []func()
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// Nodes returns the nodes in insertion order.
// The returned slice must not be modified.
func (g *Graph) Nodes() []*Node {
	return g.nodes
}

// Connections returns the connections in insertion order.
// The returned slice must not be modified.
func (g *Graph) Connections() []*Connection {
	return g.conns
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Index returns the position of the node in drawing order, or -1.
func (g *Graph) Index(id NodeID) int {
	for i, n := range g.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// Node returns the node with the given identity, or nil.
func (g *Graph) Node(id NodeID) *Node {
	if i := g.Index(id); i >= 0 {
		return g.nodes[i]
	}
	return nil
}

// NodeByName returns the first node with the given name, or nil.
func (g *Graph) NodeByName(name string) *Node {
	for _, n := range g.nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

// Connection returns the connection with the given identity, or nil.
func (g *Graph) Connection(id ConnID) *Connection {
	for _, c := range g.conns {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Endpoints resolves the nodes a connection refers to.
func (g *Graph) Endpoints(c *Connection) (from, to *Node) {
	return g.Node(c.From), g.Node(c.To)
}

// AddNode appends n to the graph and returns it.
func (g *Graph) AddNode(n *Node) *Node {
	g.nodes = append(g.nodes, n)
	return n
}

// Connect adds a connection between two attributes. Both nodes must be
// in the graph and both attributes must exist.
func (g *Graph) Connect(from *Node, fromAttr string, to *Node, toAttr string, t ConnectionType) (*Connection, error) {
	if from == nil || g.Index(from.ID) < 0 {
		return nil, fmt.Errorf("connect from: %w", ErrUnknownNode)
	}
	if to == nil || g.Index(to.ID) < 0 {
		return nil, fmt.Errorf("connect to: %w", ErrUnknownNode)
	}
	if from.AttrIndex(fromAttr) < 0 {
		return nil, fmt.Errorf("%s.%s: %w", from.Name, fromAttr, ErrUnknownAttribute)
	}
	if to.AttrIndex(toAttr) < 0 {
		return nil, fmt.Errorf("%s.%s: %w", to.Name, toAttr, ErrUnknownAttribute)
	}

	c := &Connection{
		ID:       ConnID(uuid.New()),
		From:     from.ID,
		FromAttr: fromAttr,
		To:       to.ID,
		ToAttr:   toAttr,
		Type:     t,
	}
	g.conns = append(g.conns, c)
	return c, nil
}

// DeleteNode removes a node and every connection that mentions it.
func (g *Graph) DeleteNode(id NodeID) bool {
	i := g.Index(id)
	if i < 0 {
		return false
	}
	g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
	g.filterConnections(func(c *Connection) bool {
		return c.From != id && c.To != id
	})
	return true
}

// DeleteConnection removes a single connection.
func (g *Graph) DeleteConnection(id ConnID) bool {
	before := len(g.conns)
	g.filterConnections(func(c *Connection) bool { return c.ID != id })
	return len(g.conns) != before
}

// Delete removes whatever the selection refers to.
func (g *Graph) Delete(sel Selection) {
	switch sel.Kind {
	case SelectNode:
		g.DeleteNode(sel.Node)
	case SelectConnection:
		g.DeleteConnection(sel.Conn)
	case SelectMulti:
		for _, id := range sel.Multi.Conns {
			g.DeleteConnection(id)
		}
		for _, id := range sel.Multi.Nodes {
			g.DeleteNode(id)
		}
	}
}

// Prune drops connections whose endpoint node or attribute no longer
// exists. It returns the number removed.
func (g *Graph) Prune() int {
	before := len(g.conns)
	g.filterConnections(func(c *Connection) bool {
		from, to := g.Endpoints(c)
		return from != nil && to != nil &&
			from.AttrIndex(c.FromAttr) >= 0 && to.AttrIndex(c.ToAttr) >= 0
	})
	return before - len(g.conns)
}

func (g *Graph) filterConnections(keep func(*Connection) bool) {
	kept := g.conns[:0]
	for _, c := range g.conns {
		if keep(c) {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(g.conns); i++ {
		g.conns[i] = nil
	}
	g.conns = kept
}

// IsForeignKey reports whether any connection uses the attribute at
// either end.
func (g *Graph) IsForeignKey(n *Node, attr string) bool {
	for _, c := range g.conns {
		if (c.From == n.ID && c.FromAttr == attr) || (c.To == n.ID && c.ToAttr == attr) {
			return true
		}
	}
	return false
}

// Bounds returns the union of all node rectangles grown by BoundsMargin.
// An empty graph has zero bounds.
func (g *Graph) Bounds() geom.Rect {
	var r geom.Rect
	for i, n := range g.nodes {
		nr := n.Rect().Expand(BoundsMargin)
		if i == 0 {
			r = nr
			continue
		}
		r = r.Union(nr)
	}
	return r
}

// OnChange registers an observer invoked by Changed.
func (g *Graph) OnChange(fn func()) {
	g.observers = append(g.observers, fn)
}

// Changed notifies every observer that the graph was mutated.
func (g *Graph) Changed() {
	for _, fn := range g.observers {
		fn()
	}
}
