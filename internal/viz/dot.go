// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package viz

import (
	"fmt"
	"strings"
)

// ToDOT renders the graph in Graphviz DOT syntax. Citation networks become
// a digraph; author networks an undirected graph whose node width and edge
// pen width follow paper and collaboration counts.
func (g *GraphData) ToDOT() string {
	var b strings.Builder

	kind, arrow := "graph", "--"
	if g.Directed {
		kind, arrow = "digraph", "->"
	}

	fmt.Fprintf(&b, "%s %s {\n", kind, quote(g.Name))
	fmt.Fprintf(&b, "  label=%s;\n", quote(g.Name))
	if g.Directed {
		b.WriteString("  node [shape=point];\n")
		b.WriteString("  edge [color=\"#00000055\"];\n")
	} else {
		b.WriteString("  node [shape=circle, style=filled, fillcolor=lightblue];\n")
		b.WriteString("  edge [color=gray];\n")
	}

	for _, n := range g.Nodes {
		attrs := []string{"label=" + quote(n.Label)}
		if n.Title != "" {
			attrs = append(attrs, "tooltip="+quote(n.Title))
		}
		if n.Size > 0 {
			attrs = append(attrs, fmt.Sprintf("width=%.2f", 0.3+0.1*float64(n.Size)))
		}
		fmt.Fprintf(&b, "  %s [%s];\n", quote(n.ID), strings.Join(attrs, ", "))
	}

	for _, e := range g.Edges {
		if e.Weight > 0 {
			fmt.Fprintf(&b, "  %s %s %s [weight=%d, penwidth=%.1f];\n",
				quote(e.Source), arrow, quote(e.Target), e.Weight, 0.8*float64(e.Weight))
			continue
		}
		fmt.Fprintf(&b, "  %s %s %s;\n", quote(e.Source), arrow, quote(e.Target))
	}

	b.WriteString("}\n")
	return b.String()
}

// quote returns s as a DOT double-quoted ID.
func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
