package render

import (
	"fmt"
	"strings"

	"github.com/ha1tch/erd-toolkit/pkg/erd"
)

// GenerateDOT converts a graph to Graphviz DOT. Tables become record
// nodes with one port per column, and each connection joins the two
// column ports with crow's-foot arrows matching the drawn glyphs.
func GenerateDOT(g *erd.Graph, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph ERD {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [shape=record, fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10, dir=both];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	for _, n := range g.Nodes() {
		fields := make([]string, 0, len(n.Attributes()))
		for i, a := range n.Attributes() {
			label := a.Name
			if a.Type != "" {
				label += " : " + a.Type
			}
			if m := keyMark(a.PrimaryKey, g.IsForeignKey(n, a.Name)).Marker(); m != "" {
				label = m + " " + label
			}
			fields = append(fields, fmt.Sprintf("<c%d> %s\\l", i, escapeRecord(label)))
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" [label=\"{%s|%s}\"];\n",
			escapeDOT(n.Name), escapeRecord(n.Name), strings.Join(fields, "")))
	}
	sb.WriteString("\n")

	for _, c := range g.Connections() {
		from, to := g.Endpoints(c)
		if from == nil || to == nil {
			continue
		}
		fi, ti := from.AttrIndex(c.FromAttr), to.AttrIndex(c.ToAttr)
		if fi < 0 || ti < 0 {
			continue
		}
		fromIcon := c.Type.FromIcon(from.Attributes()[fi].Nullable)
		toIcon := c.Type.ToIcon(to.Attributes()[ti].Nullable)

		// Each end shows the opposite endpoint's icon, as drawn.
		sb.WriteString(fmt.Sprintf("    \"%s\":c%d -> \"%s\":c%d [arrowtail=%s, arrowhead=%s];\n",
			escapeDOT(from.Name), fi, escapeDOT(to.Name), ti, dotArrow(toIcon), dotArrow(fromIcon)))
	}

	sb.WriteString("}\n")

	return sb.String()
}

func dotArrow(icon erd.IconType) string {
	switch icon {
	case erd.IconZero:
		return "odot"
	case erd.IconManyOne:
		return "crowtee"
	case erd.IconManyZero:
		return "crowodot"
	}
	return "tee"
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// escapeRecord also quotes the characters that structure record labels.
func escapeRecord(s string) string {
	s = escapeDOT(s)
	for _, c := range []string{"{", "}", "|", "<", ">"} {
		s = strings.ReplaceAll(s, c, "\\"+c)
	}
	return s
}
