package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Wire Format
// =============================================================================

// The JSON document is the structured counterpart of the DOT description.
// Unlike DOT, declarations here are explicit: an edge naming a node that is
// not in the nodes list is a structural error, never an implicit creation.

type graphDoc struct {
	Name     string       `json:"name,omitempty"`
	Label    string       `json:"label,omitempty"`
	Rankdir  string       `json:"rankdir,omitempty"`
	Nodes    []nodeDoc    `json:"nodes"`
	Edges    []edgeDoc    `json:"edges"`
	Clusters []clusterDoc `json:"clusters,omitempty"`
}

type nodeDoc struct {
	ID    string            `json:"id"`
	Label string            `json:"label,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

type edgeDoc struct {
	From  string            `json:"from"`
	To    string            `json:"to"`
	Label string            `json:"label,omitempty"`
	Attrs map[string]string `json:"attrs,omitempty"`
}

type clusterDoc struct {
	ID    string   `json:"id"`
	Label string   `json:"label,omitempty"`
	Nodes []string `json:"nodes"`
}

// =============================================================================
// Serialization API
// =============================================================================

// Marshal converts a graph to indented JSON bytes. Nodes keep their
// declaration order, so output is deterministic for a given graph.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a graph as JSON to an io.Writer.
func Write(g *Graph, w io.Writer) error {
	doc := graphDoc{
		Name:  g.name,
		Label: g.label,
		Nodes: make([]nodeDoc, 0, len(g.order)),
		Edges: make([]edgeDoc, 0, len(g.edges)),
	}
	if g.dir != TopDown {
		doc.Rankdir = g.dir.String()
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, nodeDoc{ID: n.ID, Label: n.Label, Attrs: compactAttrs(n.Attrs)})
	}
	for _, e := range g.edges {
		doc.Edges = append(doc.Edges, edgeDoc{From: e.From, To: e.To, Label: e.Label, Attrs: compactAttrs(e.Attrs)})
	}
	for _, c := range g.clusters {
		doc.Clusters = append(doc.Clusters, clusterDoc{ID: c.ID, Label: c.Label, Nodes: c.Nodes})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a graph to a JSON file, creating or truncating path.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// Unmarshal decodes JSON bytes into a graph. Decoding runs the same
// structural validation as programmatic construction: duplicate node IDs,
// edges naming undeclared nodes, and cluster members naming undeclared nodes
// all abort with the corresponding sentinel error and produce no graph.
func Unmarshal(data []byte) (*Graph, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a JSON graph from an io.Reader.
func Read(r io.Reader) (*Graph, error) {
	var doc graphDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := New(doc.Name)
	g.label = doc.Label
	if doc.Rankdir != "" {
		dir, ok := ParseDirection(doc.Rankdir)
		if !ok {
			return nil, fmt.Errorf("invalid rankdir %q", doc.Rankdir)
		}
		g.dir = dir
	}
	for _, n := range doc.Nodes {
		if err := g.AddNode(Node{ID: n.ID, Label: n.Label, Attrs: n.Attrs}); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(Edge{From: e.From, To: e.To, Label: e.Label, Attrs: e.Attrs}); err != nil {
			return nil, err
		}
	}
	for _, c := range doc.Clusters {
		if err := g.AddCluster(Cluster{ID: c.ID, Label: c.Label, Nodes: c.Nodes}); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ReadFile reads a JSON file and returns the decoded graph.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// compactAttrs returns nil for empty maps so they are omitted from JSON.
func compactAttrs(attrs map[string]string) map[string]string {
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}
