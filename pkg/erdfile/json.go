// Package erdfile reads and writes ERD documents and schema descriptions.
//
// An ERD document is JSON:
//
//	{
//	  "nodes": [{"position": [x, y], "name": "...",
//	             "attributes": {"col": {"type": "...", "primaryKey": false, ...}}}],
//	  "connections": [{"from": 0, "fromAttr": "...", "to": 1, "toAttr": "...", "type": "OneToMany"}]
//	}
//
// Attribute objects keep their key order. Node sizes are never stored.
package erdfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
	"github.com/ha1tch/erd-toolkit/pkg/geom"
)

// jsonDocument is the JSON representation of a graph.
type jsonDocument struct {
	Nodes       []jsonNode       `json:"nodes"`
	Connections []jsonConnection `json:"connections"`
}

type jsonNode struct {
	Position   []float64      `json:"position"`
	Name       string         `json:"name"`
	Attributes jsonAttributes `json:"attributes"`
}

type jsonAttribute struct {
	Type          string  `json:"type"`
	PrimaryKey    bool    `json:"primaryKey"`
	Nullable      bool    `json:"nullable"`
	Unique        bool    `json:"unique"`
	AutoIncrement bool    `json:"autoIncrement"`
	Default       *string `json:"default,omitempty"`
}

type jsonConnection struct {
	From     int    `json:"from"`
	FromAttr string `json:"fromAttr"`
	To       int    `json:"to"`
	ToAttr   string `json:"toAttr"`
	Type     string `json:"type"`
}

// jsonAttributes is an ordered JSON object of attributes.
type jsonAttributes []erd.Attribute

func (a jsonAttributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(attr.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(jsonAttribute{
			Type:          attr.Type,
			PrimaryKey:    attr.PrimaryKey,
			Nullable:      attr.Nullable,
			Unique:        attr.Unique,
			AutoIncrement: attr.AutoIncrement,
			Default:       attr.Default,
		})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (a *jsonAttributes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("attributes: expected object, got %v", tok)
	}

	var out []erd.Attribute
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("attributes: expected key, got %v", tok)
		}
		var ja jsonAttribute
		if err := dec.Decode(&ja); err != nil {
			return fmt.Errorf("attribute %q: %w", name, err)
		}
		attr := erd.Attribute{
			Name:          name,
			Type:          ja.Type,
			PrimaryKey:    ja.PrimaryKey,
			Nullable:      ja.Nullable,
			Unique:        ja.Unique,
			AutoIncrement: ja.AutoIncrement,
			Default:       ja.Default,
		}
		// A repeated key keeps its first position and its last value.
		if i, dup := index[name]; dup {
			out[i] = attr
			continue
		}
		index[name] = len(out)
		out = append(out, attr)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = out
	return nil
}

// LoadReport describes what was dropped while loading a document.
type LoadReport struct {
	DroppedConnections int
}

// Parse decodes an ERD document. Connections that refer to a missing node
// index, a missing attribute or an unknown type are dropped and counted
// in the report. A malformed document is an error.
func Parse(data []byte) (*erd.Graph, LoadReport, error) {
	var report LoadReport

	var doc jsonDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, report, err
	}

	g := erd.New()
	nodes := make([]*erd.Node, len(doc.Nodes))
	for i, jn := range doc.Nodes {
		if len(jn.Position) < 2 {
			return nil, report, fmt.Errorf("node %d: position needs two coordinates", i)
		}
		n := erd.NewNode(jn.Name, geom.Pt(jn.Position[0], jn.Position[1]), jn.Attributes...)
		nodes[i] = g.AddNode(n)
	}

	for _, jc := range doc.Connections {
		if jc.From < 0 || jc.From >= len(nodes) || jc.To < 0 || jc.To >= len(nodes) {
			report.DroppedConnections++
			continue
		}
		t, err := erd.ParseConnectionType(jc.Type)
		if err != nil {
			report.DroppedConnections++
			continue
		}
		if _, err := g.Connect(nodes[jc.From], jc.FromAttr, nodes[jc.To], jc.ToAttr, t); err != nil {
			report.DroppedConnections++
		}
	}

	return g, report, nil
}

// Marshal encodes a graph as an ERD document. Connections are written
// with node indices in drawing order.
func Marshal(g *erd.Graph, pretty bool) ([]byte, error) {
	doc := jsonDocument{
		Nodes:       make([]jsonNode, 0, g.Len()),
		Connections: make([]jsonConnection, 0, len(g.Connections())),
	}

	index := make(map[erd.NodeID]int, g.Len())
	for i, n := range g.Nodes() {
		index[n.ID] = i
		doc.Nodes = append(doc.Nodes, jsonNode{
			Position:   []float64{n.Position.X, n.Position.Y},
			Name:       n.Name,
			Attributes: jsonAttributes(n.Attributes()),
		})
	}

	for _, c := range g.Connections() {
		from, okFrom := index[c.From]
		to, okTo := index[c.To]
		if !okFrom || !okTo {
			continue
		}
		doc.Connections = append(doc.Connections, jsonConnection{
			From:     from,
			FromAttr: c.FromAttr,
			To:       to,
			ToAttr:   c.ToAttr,
			Type:     c.Type.String(),
		})
	}

	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
