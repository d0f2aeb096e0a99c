package erd

import (
	"fmt"
	"math"
	"strings"

	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

// Table is an imported table description.
type Table struct {
	Name    string
	Columns []Attribute
}

// ForeignKey is an imported foreign-key description. Columns are paired
// positionally. Nullable is set when any referencing column is nullable.
type ForeignKey struct {
	FromTable   string
	FromColumns []string
	ToTable     string
	ToColumns   []string
	Type        ConnectionType
	Nullable    bool
}

// Schema is a flat description of tables and foreign keys, as produced by
// a schema reader.
type Schema struct {
	Tables      []Table
	ForeignKeys []ForeignKey
}

// Grid seed used for imported schemas before force-directed layout.
const (
	SeedOriginX = 50.0
	SeedOriginY = 50.0
	SeedPitchX  = 420.0
	SeedPitchY  = 260.0
)

// FromSchema builds a graph from a schema description, seeding node
// positions on a grid. Tables without a name become "Table<i>". Foreign
// keys resolve table names case-insensitively and are related with their
// Type; pairs referring to missing tables or columns are skipped. The
// second return value counts them.
func FromSchema(s Schema) (*Graph, int) {
	g := New()

	cols := int(math.Max(1, math.Ceil(math.Sqrt(float64(len(s.Tables))))))
	byName := make(map[string]*Node)

	for i, t := range s.Tables {
		name := t.Name
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Table%d", i)
		}

		pos := geom.Point{
			X: SeedOriginX + float64(i%cols)*SeedPitchX,
			Y: SeedOriginY + float64(i/cols)*SeedPitchY,
		}
		n := NewNode(name, pos)
		for _, c := range t.Columns {
			if strings.TrimSpace(c.Name) == "" {
				continue
			}
			n.AddAttribute(c)
		}

		g.AddNode(n)
		byName[strings.ToLower(name)] = n
	}

	skipped := 0
	for _, fk := range s.ForeignKeys {
		from := byName[strings.ToLower(fk.FromTable)]
		to := byName[strings.ToLower(fk.ToTable)]
		pairs := len(fk.FromColumns)
		if len(fk.ToColumns) < pairs {
			pairs = len(fk.ToColumns)
		}
		if from == nil || to == nil {
			skipped += pairs
			continue
		}
		for i := 0; i < pairs; i++ {
			if _, err := g.Connect(from, fk.FromColumns[i], to, fk.ToColumns[i], fk.Type); err != nil {
				skipped++
			}
		}
	}

	return g, skipped
}

// Schema returns the read-only table and foreign-key view of the graph,
// suitable for DDL generation by a collaborator.
func (g *Graph) Schema() Schema {
	var s Schema
	for _, n := range g.nodes {
		cols := make([]Attribute, len(n.attrs))
		copy(cols, n.attrs)
		s.Tables = append(s.Tables, Table{Name: n.Name, Columns: cols})
	}
	for _, c := range g.conns {
		from, to := g.Endpoints(c)
		if from == nil || to == nil {
			continue
		}
		a, _ := from.Attr(c.FromAttr)
		s.ForeignKeys = append(s.ForeignKeys, ForeignKey{
			FromTable:   from.Name,
			FromColumns: []string{c.FromAttr},
			ToTable:     to.Name,
			ToColumns:   []string{c.ToAttr},
			Type:        c.Type,
			Nullable:    a.Nullable,
		})
	}
	return s
}
