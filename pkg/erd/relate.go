package erd

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

// RelationKind is the relationship a user asks to create between two
// tables. Every kind is stored as OneToOne or OneToMany connections.
type RelationKind int

const (
	RelateOneToOne RelationKind = iota
	RelateOneToMany
	RelateManyToOne
	RelateManyToMany
)

func (k RelationKind) String() string {
	switch k {
	case RelateOneToOne:
		return "1:1"
	case RelateOneToMany:
		return "1:n"
	case RelateManyToOne:
		return "n:1"
	case RelateManyToMany:
		return "n:m"
	}
	return fmt.Sprintf("RelationKind(%d)", int(k))
}

// ParseRelationKind accepts the short forms returned by String.
func ParseRelationKind(s string) (RelationKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1:1":
		return RelateOneToOne, nil
	case "1:n":
		return RelateOneToMany, nil
	case "n:1":
		return RelateManyToOne, nil
	case "n:m", "m:n":
		return RelateManyToMany, nil
	}
	return 0, fmt.Errorf("unknown relation kind %q", s)
}

// JoinOffsetY is how far below the midpoint of its two tables a
// synthesised join table is placed.
const JoinOffsetY = 80.0

// Relate creates foreign-key columns and connections for a relationship
// from one table to another. For many-to-many it synthesises a join table
// and returns it; otherwise the returned node is nil. Observers are
// notified once.
//
// Foreign-key columns are named "<table>_<pk>" after the referenced table
// and primary key. An existing column of that name is replaced in place.
func (g *Graph) Relate(from, to *Node, kind RelationKind) (*Node, error) {
	if from == nil || g.Index(from.ID) < 0 || to == nil || g.Index(to.ID) < 0 {
		return nil, ErrUnknownNode
	}

	var join *Node
	switch kind {
	case RelateOneToOne:
		g.addForeignKeys(from, to, OneToOne, false)
		g.addForeignKeys(to, from, OneToOne, false)
	case RelateOneToMany:
		// The many side holds the key.
		g.addForeignKeys(to, from, OneToMany, false)
	case RelateManyToOne:
		g.addForeignKeys(from, to, OneToMany, false)
	case RelateManyToMany:
		join = NewNode(g.uniqueName(from.Name+"_"+to.Name), geom.Point{
			X: (from.Position.X + to.Position.X) / 2,
			Y: (from.Position.Y+to.Position.Y)/2 + JoinOffsetY,
		})
		g.AddNode(join)
		g.addForeignKeys(join, from, OneToMany, true)
		g.addForeignKeys(join, to, OneToMany, true)
	default:
		return nil, fmt.Errorf("relate: unsupported kind %v", kind)
	}

	g.Changed()
	return join, nil
}

// addForeignKeys copies every primary key of target into holder as a
// foreign-key column and connects holder to target.
func (g *Graph) addForeignKeys(holder, target *Node, t ConnectionType, asPrimary bool) {
	for _, pk := range target.PrimaryKeys() {
		name := target.Name + "_" + pk.Name
		empty := ""
		holder.AddAttribute(Attribute{
			Name:       name,
			Type:       pk.Type,
			PrimaryKey: asPrimary,
			Default:    &empty,
		})
		// Both attributes exist, so this cannot fail.
		_, _ = g.Connect(holder, name, target, pk.Name, t)
	}
}

func (g *Graph) uniqueName(base string) string {
	name := base
	for i := 1; g.NodeByName(name) != nil; i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	return name
}

// Errors returned by ValidateTableName.
var (
	ErrInvalidName   = errors.New("table name must start with a letter")
	ErrDuplicateName = errors.New("table name already in use")
)

// ValidateTableName checks a proposed table name before it reaches the
// model: non-blank, starting with a letter and unique among nodes other
// than except (which may be nil).
func ValidateTableName(g *Graph, name string, except *Node) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	for _, r := range name {
		if !unicode.IsLetter(r) {
			return fmt.Errorf("%q: %w", name, ErrInvalidName)
		}
		break
	}
	for _, n := range g.nodes {
		if n != except && n.Name == name {
			return fmt.Errorf("%q: %w", name, ErrDuplicateName)
		}
	}
	return nil
}

// Rename validates and applies a new table name, rewriting nothing else:
// connections refer to nodes by identity.
func (g *Graph) Rename(n *Node, name string) error {
	if err := ValidateTableName(g, name, n); err != nil {
		return err
	}
	n.Name = name
	g.Changed()
	return nil
}
