package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Node IDs are unique within a graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrUnknownClusterNode is returned by [Graph.AddCluster] when a member
	// ID does not name an existing node.
	ErrUnknownClusterNode = errors.New("unknown cluster member")

	// ErrDuplicateClusterID is returned by [Graph.AddCluster] when a cluster
	// with the same ID already exists.
	ErrDuplicateClusterID = errors.New("duplicate cluster ID")
)

// Direction is the flow direction of a diagram, matching DOT's rankdir.
type Direction int

const (
	// TopDown flows top to bottom (DOT "TB", the default).
	TopDown Direction = iota
	// LeftRight flows left to right (DOT "LR").
	LeftRight
	// BottomUp flows bottom to top (DOT "BT").
	BottomUp
	// RightLeft flows right to left (DOT "RL").
	RightLeft
)

// ParseDirection maps a DOT rankdir value to a Direction. It reports false
// for unrecognized values, leaving the caller on the default.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "TB":
		return TopDown, true
	case "LR":
		return LeftRight, true
	case "BT":
		return BottomUp, true
	case "RL":
		return RightLeft, true
	}
	return TopDown, false
}

// String returns the DOT rankdir name for the direction.
func (d Direction) String() string {
	switch d {
	case LeftRight:
		return "LR"
	case BottomUp:
		return "BT"
	case RightLeft:
		return "RL"
	default:
		return "TB"
	}
}

// Horizontal reports whether the main flow axis is the X axis.
func (d Direction) Horizontal() bool {
	return d == LeftRight || d == RightLeft
}

// Reversed reports whether the flow runs against its axis (BT, RL).
func (d Direction) Reversed() bool {
	return d == BottomUp || d == RightLeft
}

// Node is a vertex of the diagram: a labeled box. The zero value is not
// usable; ID must be set before adding to a Graph.
type Node struct {
	ID    string            // unique identifier
	Label string            // display label; empty means "use the ID"
	Attrs map[string]string // free-form attributes (never nil after AddNode)
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed connection between two nodes, optionally labeled.
type Edge struct {
	From  string            // source node ID
	To    string            // target node ID
	Label string            // optional edge label
	Attrs map[string]string // free-form attributes (never nil after AddEdge)
}

// Cluster is a named group of node IDs rendered as a framed section.
// Membership does not affect routing; edges always reference plain node IDs.
type Cluster struct {
	ID    string   // cluster identifier (DOT "cluster_*" subgraph name)
	Label string   // display label; empty means "use the ID"
	Nodes []string // member node IDs in declaration order
}

// DisplayLabel returns the label if set, otherwise the ID.
func (c *Cluster) DisplayLabel() string {
	if c.Label != "" {
		return c.Label
	}
	return c.ID
}

// Graph is the diagram model: nodes keyed by unique ID, edges in insertion
// order, and optional clusters. It is built once, by the parser or from a
// serialized document, and treated as read-only by the layout engine; a new
// description produces a new Graph, never a mutation of a published one.
//
// The zero value is not usable - use New. Graph is not safe for concurrent
// mutation; concurrent reads are fine once construction is done.
type Graph struct {
	name     string
	label    string
	dir      Direction
	nodes    map[string]*Node
	order    []string // node IDs in declaration order
	edges    []*Edge
	clusters []*Cluster
	byID     map[string]*Cluster
}

// New creates an empty graph with the given name.
func New(name string) *Graph {
	return &Graph{
		name:  name,
		nodes: make(map[string]*Node),
		byID:  make(map[string]*Cluster),
	}
}

// Name returns the graph name from the description (may be empty).
func (g *Graph) Name() string { return g.name }

// Label returns the graph-level display label, falling back to the name.
func (g *Graph) Label() string {
	if g.label != "" {
		return g.label
	}
	return g.name
}

// SetLabel sets the graph-level display label.
func (g *Graph) SetLabel(label string) { g.label = label }

// Direction returns the diagram flow direction (default TopDown).
func (g *Graph) Direction() Direction { return g.dir }

// SetDirection sets the diagram flow direction.
func (g *Graph) SetDirection(d Direction) { g.dir = d }

// AddNode adds a node to the graph. It returns ErrInvalidNodeID for an empty
// ID and ErrDuplicateNodeID when the ID is already taken; the node's Attrs
// map is initialized when nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateNodeID, n.ID)
	}
	if n.Attrs == nil {
		n.Attrs = map[string]string{}
	}
	node := &n
	g.nodes[node.ID] = node
	g.order = append(g.order, node.ID)
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Both endpoints
// must already be present: the error wraps ErrUnknownSourceNode or
// ErrUnknownTargetNode together with the missing ID. Multiple edges between
// the same pair are allowed and keep their insertion order.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSourceNode, e.From)
	}
	if _, ok := g.nodes[e.To]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTargetNode, e.To)
	}
	if e.Attrs == nil {
		e.Attrs = map[string]string{}
	}
	g.edges = append(g.edges, &e)
	return nil
}

// AddCluster adds a node group. Every member must name an existing node and
// cluster IDs are unique; membership order is preserved.
func (g *Graph) AddCluster(c Cluster) error {
	if _, exists := g.byID[c.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateClusterID, c.ID)
	}
	for _, id := range c.Nodes {
		if _, ok := g.nodes[id]; !ok {
			return fmt.Errorf("%w: %q in cluster %q", ErrUnknownClusterNode, id, c.ID)
		}
	}
	cluster := &c
	g.clusters = append(g.clusters, cluster)
	g.byID[cluster.ID] = cluster
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in declaration order. The slice is fresh but the
// pointed-to nodes are shared; callers must treat them as read-only.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// NodeIDs returns the node IDs in declaration order.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns the edges in insertion order. Callers must treat the slice
// and its edges as read-only.
func (g *Graph) Edges() []*Edge { return g.edges }

// Clusters returns the clusters in declaration order.
func (g *Graph) Clusters() []*Cluster { return g.clusters }

// ClusterOf returns the first cluster containing the node ID.
func (g *Graph) ClusterOf(id string) (*Cluster, bool) {
	for _, c := range g.clusters {
		for _, member := range c.Nodes {
			if member == id {
				return c, true
			}
		}
	}
	return nil, false
}

// UnclusteredNodes returns the nodes that belong to no cluster, in
// declaration order.
func (g *Graph) UnclusteredNodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		if _, ok := g.ClusterOf(id); !ok {
			out = append(out, g.nodes[id])
		}
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
