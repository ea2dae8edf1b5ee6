package compositor

import (
	"fmt"
	"strings"
)

// DumpDOT renders the grid as a Graphviz digraph. Vertices are reading
// boundaries; each node is an edge labelled with its selected value and
// effective score. Pinned nodes are drawn bold.
func (c *Compositor) DumpDOT() string {
	var sb strings.Builder
	sb.WriteString("digraph {\n")
	sb.WriteString("  graph [rankdir=LR];\n")
	for v := 0; v <= len(c.readings); v++ {
		label := "EOS"
		if v < len(c.readings) {
			label = c.readings[v]
		}
		fmt.Fprintf(&sb, "  v%d [label=%q];\n", v, label)
	}
	for p := range c.spans {
		for _, n := range c.spans[p].Nodes() {
			style := ""
			if n.kind == OverrideFixed {
				style = ", style=bold"
			}
			fmt.Fprintf(&sb, "  v%d -> v%d [label=%q%s];\n",
				p, p+n.spanLength, fmt.Sprintf("%s %.2f", n.Value(), n.Score()), style)
		}
	}
	sb.WriteString("}\n")

	return sb.String()
}
