package erdfile

import (
	"testing"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
)

// Run with: go test -fuzz=FuzzParse -fuzztime=30s ./pkg/erdfile/

// FuzzParse feeds arbitrary documents to the parser. Anything it accepts
// must survive a write and re-read unchanged in shape.
func FuzzParse(f *testing.F) {
	// Seed with valid documents
	f.Add([]byte(`{"nodes":[],"connections":[]}`))
	f.Add([]byte(`{"nodes":[{"position":[0,0],"name":"Users","attributes":{"id":{"type":"int","primaryKey":true}}}]}`))
	f.Add([]byte(`{"nodes":[{"position":[0,0],"name":"A","attributes":{"id":{"type":"int"}}},` +
		`{"position":[300,10],"name":"B","attributes":{"a_id":{"type":"int","nullable":true}}}],` +
		`"connections":[{"from":1,"fromAttr":"a_id","to":0,"toAttr":"id","type":"OneToMany"}]}`))

	// Seed with edge cases
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(``))
	f.Add([]byte(`{"nodes":[{"position":[1],"name":"x"}]}`))
	f.Add([]byte(`{"nodes":[{"position":[0,0],"name":"x","attributes":[]}]}`))
	f.Add([]byte(`{"nodes":[{"position":[0,0],"name":"x","attributes":{"a":{},"a":{"type":"t"}}}]}`))
	f.Add([]byte(`{"nodes":[],"connections":[{"from":-1,"to":99,"type":"Nope"}]}`))

	f.Fuzz(func(t *testing.T, data []byte) {
		g, _, err := Parse(data)
		if err != nil {
			return
		}

		out, err := Marshal(g, false)
		if err != nil {
			t.Fatalf("Marshal failed on parsed graph: %v", err)
		}
		g2, report, err := Parse(out)
		if err != nil {
			t.Fatalf("Re-parse failed: %v\n%s", err, out)
		}
		if report.DroppedConnections != 0 {
			t.Errorf("Re-parse dropped %d connections", report.DroppedConnections)
		}
		if g2.Len() != g.Len() || len(g2.Connections()) != len(g.Connections()) {
			t.Errorf("Round-trip mismatch: %d/%d nodes, %d/%d connections",
				g.Len(), g2.Len(), len(g.Connections()), len(g2.Connections()))
		}
	})
}

// FuzzParseSchema checks that any accepted schema imports without
// panicking and yields one table per described table.
func FuzzParseSchema(f *testing.F) {
	f.Add([]byte(`{"tables":[{"name":"users","columns":[{"name":"id","type":"int","primaryKey":true}]}]}`))
	f.Add([]byte(`{"tables":[{"name":"a","columns":[{"name":"id"}]},{"name":"b","columns":[{"name":"a_id"}]}],` +
		`"foreignKeys":[{"fromTable":"B","fromColumns":["a_id"],"toTable":"A","toColumns":["id"]}]}`))
	f.Add([]byte(`{"foreignKeys":[{"fromTable":"x","fromColumns":["a","b"],"toTable":"y","toColumns":[]}]}`))
	f.Add([]byte(`{}`))
	f.Add([]byte(`[]`))

	f.Fuzz(func(t *testing.T, data []byte) {
		s, err := ParseSchema(data)
		if err != nil {
			return
		}
		g, _ := erd.FromSchema(s)
		if g.Len() != len(s.Tables) {
			t.Errorf("Expected %d tables, got %d", len(s.Tables), g.Len())
		}
		if _, err := MarshalSchema(g.Schema()); err != nil {
			t.Errorf("MarshalSchema failed: %v", err)
		}
	})
}
