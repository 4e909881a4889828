package graph

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
)

// ToDOT serializes a graph to canonical DOT text. The output round-trips
// through the DOT parser: node lines come in declaration order with cluster
// members nested in their subgraph block, edges follow in insertion order,
// and attributes are sorted by key.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	name := g.Name()
	if name != "" {
		fmt.Fprintf(&buf, "digraph %q {\n", name)
	} else {
		buf.WriteString("digraph {\n")
	}
	if g.Direction() != TopDown {
		fmt.Fprintf(&buf, "  rankdir=%s;\n", g.Direction())
	}
	if g.label != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", g.label)
	}

	clustered := make(map[string]bool)
	for _, c := range g.Clusters() {
		fmt.Fprintf(&buf, "  subgraph %q {\n", c.ID)
		if c.Label != "" {
			fmt.Fprintf(&buf, "    label=%q;\n", c.Label)
		}
		for _, id := range c.Nodes {
			if n, ok := g.Node(id); ok {
				writeNode(&buf, n, "    ")
				clustered[id] = true
			}
		}
		buf.WriteString("  }\n")
	}

	for _, n := range g.Nodes() {
		if !clustered[n.ID] {
			writeNode(&buf, n, "  ")
		}
	}

	for _, e := range g.Edges() {
		attrs := attrList(e.Label, e.Attrs)
		if attrs == "" {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.To, attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n *Node, indent string) {
	attrs := attrList(n.Label, n.Attrs)
	if attrs == "" {
		fmt.Fprintf(buf, "%s%q;\n", indent, n.ID)
	} else {
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, attrs)
	}
}

// attrList renders a DOT attribute list: the label first, remaining
// attributes sorted by key for stable output.
func attrList(label string, attrs map[string]string) string {
	var buf bytes.Buffer
	if label != "" {
		fmt.Fprintf(&buf, "label=%q", label)
	}
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		if k == "label" {
			continue
		}
		if buf.Len() > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s=%q", k, attrs[k])
	}
	return buf.String()
}
