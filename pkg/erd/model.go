// Package erd provides the core entity-relationship graph model:
// tables (nodes), columns (attributes) and foreign-key relationships
// (connections) owned by a single Graph.
package erd

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

// NodeID identifies a node for the lifetime of a graph.
type NodeID uuid.UUID

func (id NodeID) String() string { return uuid.UUID(id).String() }

// ConnID identifies a connection for the lifetime of a graph.
type ConnID uuid.UUID

func (id ConnID) String() string { return uuid.UUID(id).String() }

// Attribute is a table column.
type Attribute struct {
	Name          string
	Type          string // Free-text SQL type
	PrimaryKey    bool
	Nullable      bool
	Unique        bool
	AutoIncrement bool
	Default       *string
}

// Label returns the "name type" text shown in a node row.
func (a Attribute) Label() string {
	return a.Name + " " + a.Type
}

// Node is a table. Position is the top-left corner in world space.
// Size is derived from text metrics on every render and is never persisted.
type Node struct {
	ID       NodeID
	Name     string
	Position geom.Point
	Size     geom.Point

	attrs []Attribute
}

// NewNode creates a node with a fresh identity.
func NewNode(name string, pos geom.Point, attrs ...Attribute) *Node {
	n := &Node{
		ID:       NodeID(uuid.New()),
		Name:     name,
		Position: pos,
	}
	for _, a := range attrs {
		n.AddAttribute(a)
	}
	return n
}

// Attributes returns the attributes in insertion order.
// The returned slice must not be modified.
func (n *Node) Attributes() []Attribute {
	return n.attrs
}

// AttrIndex returns the ordinal of the named attribute, or -1.
func (n *Node) AttrIndex(name string) int {
	for i, a := range n.attrs {
		if a.Name == name {
			return i
		}
	}
	return -1
}

// Attr looks up an attribute by name.
func (n *Node) Attr(name string) (Attribute, bool) {
	if i := n.AttrIndex(name); i >= 0 {
		return n.attrs[i], true
	}
	return Attribute{}, false
}

// AddAttribute appends a, or replaces an existing attribute of the same
// name in place, keeping its ordinal.
func (n *Node) AddAttribute(a Attribute) {
	if i := n.AttrIndex(a.Name); i >= 0 {
		n.attrs[i] = a
		return
	}
	n.attrs = append(n.attrs, a)
}

// RemoveAttribute deletes the named attribute. Connections referencing it
// are left for the graph to prune.
func (n *Node) RemoveAttribute(name string) bool {
	i := n.AttrIndex(name)
	if i < 0 {
		return false
	}
	n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
	return true
}

// PrimaryKeys returns the primary-key attributes in order.
func (n *Node) PrimaryKeys() []Attribute {
	var pks []Attribute
	for _, a := range n.attrs {
		if a.PrimaryKey {
			pks = append(pks, a)
		}
	}
	return pks
}

// Rect returns the node's rectangle from its position and current size.
func (n *Node) Rect() geom.Rect {
	return geom.RectAt(n.Position, n.Size)
}

// MoveBy translates the node.
func (n *Node) MoveBy(dx, dy float64) {
	n.Position.X += dx
	n.Position.Y += dy
}

// Visible reports whether the node has been measured.
func (n *Node) Visible() bool {
	return n.Size.X != 0
}

func (n *Node) clone() *Node {
	c := *n
	c.attrs = make([]Attribute, len(n.attrs))
	for i, a := range n.attrs {
		if a.Default != nil {
			d := *a.Default
			a.Default = &d
		}
		c.attrs[i] = a
	}
	return &c
}

// IconType is the cardinality glyph drawn at a connection endpoint.
type IconType int

const (
	IconOne IconType = iota
	IconZero
	IconManyOne
	IconManyZero
)

func (t IconType) String() string {
	switch t {
	case IconOne:
		return "ONE"
	case IconZero:
		return "ZERO"
	case IconManyOne:
		return "MANY_ONE"
	case IconManyZero:
		return "MANY_ZERO"
	}
	return fmt.Sprintf("IconType(%d)", int(t))
}

// Many reports whether the glyph is a crow's foot.
func (t IconType) Many() bool {
	return t == IconManyOne || t == IconManyZero
}

// ConnectionType is the relationship cardinality.
type ConnectionType int

const (
	OneToOne ConnectionType = iota
	OneToMany
)

var connectionTypeNames = map[ConnectionType]string{
	OneToOne:  "OneToOne",
	OneToMany: "OneToMany",
}

func (t ConnectionType) String() string {
	if s, ok := connectionTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("ConnectionType(%d)", int(t))
}

// ParseConnectionType maps an enum name back to its value.
func ParseConnectionType(s string) (ConnectionType, error) {
	for t, name := range connectionTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown connection type %q", s)
}

// FromIcon returns the glyph for the from-endpoint given its nullability.
func (t ConnectionType) FromIcon(nullable bool) IconType {
	if nullable {
		return IconZero
	}
	return IconOne
}

// ToIcon returns the glyph for the to-endpoint given its nullability.
func (t ConnectionType) ToIcon(nullable bool) IconType {
	switch {
	case t == OneToMany && nullable:
		return IconManyZero
	case t == OneToMany:
		return IconManyOne
	case nullable:
		return IconZero
	}
	return IconOne
}

// Connection is a directed foreign-key relationship between two attributes.
// It refers to its endpoint nodes by identity only.
type Connection struct {
	ID       ConnID
	From     NodeID
	FromAttr string
	To       NodeID
	ToAttr   string
	Type     ConnectionType
}
