package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
)

var goTypes = map[kind]string{
	kindText:    "string",
	kindInt:     "int32",
	kindBigInt:  "int64",
	kindFloat:   "float64",
	kindDecimal: "string",
	kindBool:    "bool",
	kindTime:    "time.Time",
	kindBytes:   "[]byte",
	kindUUID:    "uuid.UUID",
}

var goImports = map[kind]string{
	kindTime: "time",
	kindUUID: "github.com/google/uuid",
}

// GenerateGo generates one Go struct per table, in drawing order.
// Nullable columns become pointers, except byte slices which are
// already nilable. Fields carry db and json tags with the column name.
func GenerateGo(g *erd.Graph, packageName string) string {
	if packageName == "" {
		packageName = "models"
	}
	refs := references(g)

	var body strings.Builder
	imports := make(map[string]bool)
	typeNames := uniqueNamer{}

	for _, n := range g.Nodes() {
		typeName := typeNames.name(toGoName(sanitizeName(n.Name)))
		body.WriteString(fmt.Sprintf("// %s is a row of table %q.\n", typeName, n.Name))
		body.WriteString(fmt.Sprintf("type %s struct {\n", typeName))

		fieldNames := uniqueNamer{}
		for _, a := range n.Attributes() {
			k := classify(a.Type)
			if imp, ok := goImports[k]; ok {
				imports[imp] = true
			}
			typ := goTypes[k]
			if a.Nullable && k != kindBytes {
				typ = "*" + typ
			}
			field := fieldNames.name(toGoName(sanitizeName(a.Name)))
			line := fmt.Sprintf("\t%s %s `db:%q json:%q`", field, typ, a.Name, a.Name)
			if ref, ok := refs[n.ID][a.Name]; ok {
				line += fmt.Sprintf(" // references %s.%s", ref.Table, ref.Column)
			} else if a.PrimaryKey {
				line += " // primary key"
			}
			body.WriteString(line + "\n")
		}
		body.WriteString("}\n\n")
	}

	var sb strings.Builder
	sb.WriteString("// Code generated from ERD definition. DO NOT EDIT.\n\n")
	sb.WriteString(fmt.Sprintf("package %s\n\n", packageName))

	if len(imports) > 0 {
		paths := make([]string, 0, len(imports))
		for p := range imports {
			paths = append(paths, p)
		}
		sort.Slice(paths, func(i, j int) bool {
			// Standard library first
			si, sj := !strings.Contains(paths[i], "."), !strings.Contains(paths[j], ".")
			if si != sj {
				return si
			}
			return paths[i] < paths[j]
		})
		sb.WriteString("import (\n")
		for i, p := range paths {
			if i > 0 && strings.Contains(p, ".") && !strings.Contains(paths[i-1], ".") {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("\t%q\n", p))
		}
		sb.WriteString(")\n\n")
	}

	sb.WriteString(strings.TrimSuffix(body.String(), "\n"))
	return sb.String()
}
