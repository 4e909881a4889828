package dot

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"

	"github.com/edgeloom/edgeloom/pkg/graph"
)

// ErrUndirected is returned for `graph { ... }` input. The model and the
// router only handle directed edges.
var ErrUndirected = errors.New("undirected graphs are not supported")

// nodeAttrKeys and edgeAttrKeys are the styling attributes the parser carries
// over into the model. Everything else in the description is ignored.
var (
	nodeAttrKeys = []string{"shape", "style", "color", "fillcolor", "class"}
	edgeAttrKeys = []string{"style", "color", "class"}
)

// Parse builds a Graph from DOT description text. Malformed text yields a
// *ParseError; undirected graphs yield ErrUndirected. Nodes that appear only
// in edge statements are materialized with default attributes, as DOT
// semantics require.
func Parse(src []byte) (*graph.Graph, error) {
	parsed, err := graphviz.ParseBytes(src)
	if err != nil {
		return nil, parseErrorFrom(err)
	}
	if parsed == nil {
		return nil, &ParseError{Msg: "no graph in description"}
	}
	defer parsed.Close()
	return fromParsed(parsed)
}

// ParseString is Parse for string input.
func ParseString(src string) (*graph.Graph, error) {
	return Parse([]byte(src))
}

// ParseFile reads and parses a DOT description file.
func ParseFile(path string) (*graph.Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Parse(src)
}

// fromParsed converts a parsed cgraph structure into the model. Conversion
// walks nodes in declaration order, then each node's out-edges, then the
// subgraph tree for clusters.
func fromParsed(root *cgraph.Graph) (*graph.Graph, error) {
	directed, err := root.IsDirected()
	if err != nil {
		return nil, readErr(err)
	}
	if !directed {
		return nil, ErrUndirected
	}

	g := graph.New(graphName(root))
	if v := graphAttr(root, "label"); v != "" {
		g.SetLabel(v)
	}
	// Unknown rankdir values fall back to top-down, like graphviz itself.
	if d, ok := graph.ParseDirection(graphAttr(root, "rankdir")); ok {
		g.SetDirection(d)
	}

	if err := eachNode(root, func(n *cgraph.Node) error {
		id, err := n.Name()
		if err != nil {
			return readErr(err)
		}
		node := graph.Node{ID: id, Attrs: map[string]string{}}
		// "\N" is graphviz's built-in default meaning "use the node name".
		if v := nodeAttr(n, "label"); v != "" && v != `\N` {
			node.Label = v
		}
		for _, key := range nodeAttrKeys {
			if v := nodeAttr(n, key); v != "" {
				node.Attrs[key] = v
			}
		}
		return g.AddNode(node)
	}); err != nil {
		return nil, err
	}

	if err := eachNode(root, func(n *cgraph.Node) error {
		from, err := n.Name()
		if err != nil {
			return readErr(err)
		}
		return eachOutEdge(root, n, func(e *cgraph.Edge) error {
			head, err := e.Head()
			if err != nil {
				return readErr(err)
			}
			to, err := head.Name()
			if err != nil {
				return readErr(err)
			}
			edge := graph.Edge{From: from, To: to, Attrs: map[string]string{}}
			if v := edgeAttr(e, "label"); v != "" {
				edge.Label = v
			}
			for _, key := range edgeAttrKeys {
				if v := edgeAttr(e, key); v != "" {
					edge.Attrs[key] = v
				}
			}
			return g.AddEdge(edge)
		})
	}); err != nil {
		return nil, err
	}

	if err := addClusters(root, g); err != nil {
		return nil, err
	}
	return g, nil
}

// clusterRec is a cluster subgraph found during the walk, before membership
// is resolved.
type clusterRec struct {
	id      string
	label   string
	depth   int
	members []string // all transitive member node IDs, declaration order
}

// addClusters finds every `cluster*` subgraph and registers it on the model.
// cgraph reports subgraph membership transitively, so nested clusters are
// flattened by assigning each node to its innermost enclosing cluster: deeper
// records claim their nodes first, and enclosing records keep the rest.
// Clusters land on the model in document order. Subgraphs whose name does not
// start with "cluster" only group declarations and are walked through.
func addClusters(root *cgraph.Graph, g *graph.Graph) error {
	var recs []*clusterRec
	if err := collectClusters(root, 0, &recs); err != nil {
		return err
	}

	byDepth := make([]*clusterRec, len(recs))
	copy(byDepth, recs)
	sort.SliceStable(byDepth, func(i, j int) bool { return byDepth[i].depth > byDepth[j].depth })

	claimed := map[string]bool{}
	owned := map[*clusterRec][]string{}
	for _, rec := range byDepth {
		for _, id := range rec.members {
			if claimed[id] {
				continue
			}
			claimed[id] = true
			owned[rec] = append(owned[rec], id)
		}
	}

	for _, rec := range recs {
		c := graph.Cluster{ID: rec.id, Label: rec.label, Nodes: owned[rec]}
		if err := g.AddCluster(c); err != nil {
			return err
		}
	}
	return nil
}

func collectClusters(parent *cgraph.Graph, depth int, out *[]*clusterRec) error {
	return eachSubGraph(parent, func(sub *cgraph.Graph) error {
		name := graphName(sub)
		next := depth
		if strings.HasPrefix(name, "cluster") {
			rec := &clusterRec{id: name, depth: depth}
			if v := graphAttr(sub, "label"); v != "" {
				rec.label = v
			}
			if err := eachNode(sub, func(n *cgraph.Node) error {
				id, err := n.Name()
				if err != nil {
					return readErr(err)
				}
				rec.members = append(rec.members, id)
				return nil
			}); err != nil {
				return err
			}
			*out = append(*out, rec)
			next = depth + 1
		}
		return collectClusters(sub, next, out)
	})
}

// ===== cgraph access =====
//
// Everything below is the full read surface this package uses from the
// graphviz bindings. Iteration helpers stop on the first callback error.

func eachNode(g *cgraph.Graph, fn func(*cgraph.Node) error) error {
	n, err := g.FirstNode()
	if err != nil {
		return readErr(err)
	}
	for n != nil {
		if err := fn(n); err != nil {
			return err
		}
		if n, err = g.NextNode(n); err != nil {
			return readErr(err)
		}
	}
	return nil
}

func eachOutEdge(g *cgraph.Graph, n *cgraph.Node, fn func(*cgraph.Edge) error) error {
	e, err := g.FirstOut(n)
	if err != nil {
		return readErr(err)
	}
	for e != nil {
		if err := fn(e); err != nil {
			return err
		}
		if e, err = g.NextOut(e); err != nil {
			return readErr(err)
		}
	}
	return nil
}

func eachSubGraph(g *cgraph.Graph, fn func(*cgraph.Graph) error) error {
	sub, err := g.FirstSubGraph()
	if err != nil {
		return readErr(err)
	}
	for sub != nil {
		if err := fn(sub); err != nil {
			return err
		}
		if sub, err = sub.NextSubGraph(); err != nil {
			return readErr(err)
		}
	}
	return nil
}

// graphName returns the graph or subgraph name, mapping cgraph's generated
// anonymous names (which start with '%') to "".
func graphName(g *cgraph.Graph) string {
	name, err := g.Name()
	if err != nil || strings.HasPrefix(name, "%") {
		return ""
	}
	return name
}

func graphAttr(g *cgraph.Graph, key string) string {
	return g.GetStr(key)
}

func nodeAttr(n *cgraph.Node, key string) string {
	return n.GetStr(key)
}

func edgeAttr(e *cgraph.Edge, key string) string {
	return e.GetStr(key)
}

func readErr(err error) error {
	return fmt.Errorf("read parsed graph: %w", err)
}
