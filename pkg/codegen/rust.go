package codegen

import (
	"fmt"
	"strings"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
)

var rustTypes = map[kind]string{
	kindText:    "String",
	kindInt:     "i32",
	kindBigInt:  "i64",
	kindFloat:   "f64",
	kindDecimal: "String",
	kindBool:    "bool",
	kindTime:    "String",
	kindBytes:   "Vec<u8>",
	kindUUID:    "String",
}

var rustKeywords = map[string]bool{
	"as": true, "break": true, "const": true, "crate": true, "enum": true, "fn": true,
	"impl": true, "in": true, "let": true, "loop": true, "match": true, "mod": true,
	"move": true, "mut": true, "pub": true, "ref": true, "return": true, "static": true,
	"struct": true, "trait": true, "type": true, "use": true, "where": true, "while": true,
}

// GenerateRust generates one Rust struct per table. Nullable columns
// become Option and keyword column names are written as raw
// identifiers.
func GenerateRust(g *erd.Graph) string {
	refs := references(g)

	var sb strings.Builder
	sb.WriteString("//! Generated from ERD definition.\n\n")

	typeNames := uniqueNamer{}
	for i, n := range g.Nodes() {
		if i > 0 {
			sb.WriteString("\n")
		}
		typeName := typeNames.name(toPascalCase(sanitizeName(n.Name)))
		sb.WriteString(fmt.Sprintf("/// Row of table `%s`.\n", n.Name))
		sb.WriteString("#[derive(Debug, Clone, PartialEq)]\n")
		sb.WriteString(fmt.Sprintf("pub struct %s {\n", typeName))

		fieldNames := uniqueNamer{}
		for _, a := range n.Attributes() {
			field := fieldNames.name(toSnakeCase(sanitizeName(a.Name)))
			if rustKeywords[field] {
				field = "r#" + field
			}
			typ := rustTypes[classify(a.Type)]
			if a.Nullable {
				typ = "Option<" + typ + ">"
			}
			line := fmt.Sprintf("    pub %s: %s,", field, typ)
			if ref, ok := refs[n.ID][a.Name]; ok {
				line += fmt.Sprintf(" // references %s.%s", ref.Table, ref.Column)
			}
			sb.WriteString(line + "\n")
		}
		sb.WriteString("}\n")
	}

	return sb.String()
}
