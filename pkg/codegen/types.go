package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
)

// kind is the language-neutral class of a column's SQL type.
type kind int

const (
	kindText kind = iota
	kindInt
	kindBigInt
	kindFloat
	kindDecimal
	kindBool
	kindTime
	kindBytes
	kindUUID
)

// classify maps a free-text SQL type to a kind. Unknown types are text.
func classify(sqlType string) kind {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}
	switch t {
	case "bigint", "int8", "bigserial", "long":
		return kindBigInt
	case "int", "integer", "int4", "smallint", "int2", "tinyint", "mediumint", "serial", "smallserial":
		return kindInt
	case "real", "float", "float4", "float8", "double":
		return kindFloat
	case "decimal", "numeric", "money":
		return kindDecimal
	case "bool", "boolean", "bit":
		return kindBool
	case "date", "time", "timestamp", "timestamptz", "datetime", "datetime2", "timetz":
		return kindTime
	case "blob", "bytea", "binary", "varbinary", "longblob", "image":
		return kindBytes
	case "uuid", "uniqueidentifier":
		return kindUUID
	}
	return kindText
}

// reference describes the foreign key a column holds, if any.
type reference struct {
	Table, Column string
}

// references indexes the foreign keys of g by holding node and column.
func references(g *erd.Graph) map[erd.NodeID]map[string]reference {
	refs := make(map[erd.NodeID]map[string]reference)
	for _, c := range g.Connections() {
		_, to := g.Endpoints(c)
		if to == nil {
			continue
		}
		if refs[c.From] == nil {
			refs[c.From] = make(map[string]reference)
		}
		refs[c.From][c.FromAttr] = reference{Table: to.Name, Column: c.ToAttr}
	}
	return refs
}

// uniqueNamer hands out identifiers, suffixing repeats with a counter.
type uniqueNamer map[string]int

func (u uniqueNamer) name(base string) string {
	n := u[base]
	u[base] = n + 1
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s%d", base, n+1)
}
