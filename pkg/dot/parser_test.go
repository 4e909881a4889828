package dot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edgeloom/edgeloom/pkg/graph"
)

func TestParseString(t *testing.T) {
	g, err := ParseString(`
		digraph app {
			rankdir=LR;
			label="My App";
			a [label="Alpha", shape="box"];
			b;
			a -> b [label="calls", style="dashed"];
		}`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	if got, want := g.Name(), "app"; got != want {
		t.Errorf("Name = %q, want %q", got, want)
	}
	if got, want := g.Label(), "My App"; got != want {
		t.Errorf("Label = %q, want %q", got, want)
	}
	if got, want := g.Direction(), graph.LeftRight; got != want {
		t.Errorf("Direction = %v, want %v", got, want)
	}
	if got, want := g.NodeCount(), 2; got != want {
		t.Fatalf("NodeCount = %d, want %d", got, want)
	}

	a, ok := g.Node("a")
	if !ok {
		t.Fatal("node a missing")
	}
	if got, want := a.Label, "Alpha"; got != want {
		t.Errorf("a.Label = %q, want %q", got, want)
	}
	if got, want := a.Attrs["shape"], "box"; got != want {
		t.Errorf("a.Attrs[shape] = %q, want %q", got, want)
	}

	b, ok := g.Node("b")
	if !ok {
		t.Fatal("node b missing")
	}
	if got, want := b.DisplayLabel(), "b"; got != want {
		t.Errorf("b.DisplayLabel = %q, want %q", got, want)
	}

	edges := g.Edges()
	if len(edges) != 1 {
		t.Fatalf("EdgeCount = %d, want 1", len(edges))
	}
	e := edges[0]
	if e.From != "a" || e.To != "b" {
		t.Errorf("edge = %s->%s, want a->b", e.From, e.To)
	}
	if got, want := e.Label, "calls"; got != want {
		t.Errorf("edge label = %q, want %q", got, want)
	}
	if got, want := e.Attrs["style"], "dashed"; got != want {
		t.Errorf("edge Attrs[style] = %q, want %q", got, want)
	}
}

func TestParseImplicitNodes(t *testing.T) {
	g, err := ParseString(`digraph { a -> b -> c; }`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got, want := g.NodeIDs(), []string{"a", "b", "c"}; strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("NodeIDs = %v, want %v", got, want)
	}
	if got, want := g.EdgeCount(), 2; got != want {
		t.Errorf("EdgeCount = %d, want %d", got, want)
	}
	for _, id := range g.NodeIDs() {
		n, _ := g.Node(id)
		if n.Label != "" {
			t.Errorf("implicit node %s has label %q, want empty", id, n.Label)
		}
		if n.DisplayLabel() != id {
			t.Errorf("implicit node %s DisplayLabel = %q, want ID", id, n.DisplayLabel())
		}
	}
	if g.Name() != "" {
		t.Errorf("anonymous graph Name = %q, want empty", g.Name())
	}
}

func TestParseDirections(t *testing.T) {
	tests := []struct {
		rankdir string
		want    graph.Direction
	}{
		{"TB", graph.TopDown},
		{"LR", graph.LeftRight},
		{"BT", graph.BottomUp},
		{"RL", graph.RightLeft},
		{"sideways", graph.TopDown}, // unknown values fall back like graphviz
	}
	for _, tt := range tests {
		t.Run(tt.rankdir, func(t *testing.T) {
			g, err := ParseString(fmt.Sprintf("digraph { rankdir=%q; a; }", tt.rankdir))
			if err != nil {
				t.Fatalf("ParseString: %v", err)
			}
			if got := g.Direction(); got != tt.want {
				t.Errorf("Direction = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseParallelEdgesAndLoops(t *testing.T) {
	g, err := ParseString(`digraph {
		a -> b;
		a -> b [label="retry"];
		b -> b;
	}`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	edges := g.Edges()
	if len(edges) != 3 {
		t.Fatalf("EdgeCount = %d, want 3", len(edges))
	}
	if edges[0].From != "a" || edges[0].To != "b" || edges[0].Label != "" {
		t.Errorf("edges[0] = %s->%s %q, want a->b with no label", edges[0].From, edges[0].To, edges[0].Label)
	}
	if edges[1].Label != "retry" {
		t.Errorf("edges[1].Label = %q, want %q", edges[1].Label, "retry")
	}
	if edges[2].From != "b" || edges[2].To != "b" {
		t.Errorf("edges[2] = %s->%s, want the b->b loop", edges[2].From, edges[2].To)
	}
}

func TestParseClusters(t *testing.T) {
	g, err := ParseString(`
		digraph svc {
			subgraph cluster_outer {
				label="Outer";
				o1;
				subgraph cluster_inner {
					i1;
					i2;
				}
			}
			subgraph group {
				g1;
			}
			o1 -> i1;
		}`)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}

	clusters := g.Clusters()
	if len(clusters) != 2 {
		t.Fatalf("Clusters = %d, want 2", len(clusters))
	}
	if got, want := clusters[0].ID, "cluster_outer"; got != want {
		t.Errorf("clusters[0].ID = %q, want %q", got, want)
	}
	if got, want := clusters[0].Label, "Outer"; got != want {
		t.Errorf("clusters[0].Label = %q, want %q", got, want)
	}
	if got, want := strings.Join(clusters[0].Nodes, ","), "o1"; got != want {
		t.Errorf("cluster_outer nodes = %q, want %q", got, want)
	}
	if got, want := strings.Join(clusters[1].Nodes, ","), "i1,i2"; got != want {
		t.Errorf("cluster_inner nodes = %q, want %q", got, want)
	}

	if c, ok := g.ClusterOf("i1"); !ok || c.ID != "cluster_inner" {
		t.Errorf("ClusterOf(i1) = %v, want cluster_inner", c)
	}
	if _, ok := g.ClusterOf("g1"); ok {
		t.Error("ClusterOf(g1): plain subgraph member should be unclustered")
	}
}

func TestParseUndirected(t *testing.T) {
	_, err := ParseString(`graph { a -- b; }`)
	if !errors.Is(err, ErrUndirected) {
		t.Fatalf("ParseString error = %v, want ErrUndirected", err)
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unclosed brace", "digraph {"},
		{"dangling arrow", "digraph { a -> }"},
		{"not dot", "this is not a graph"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.src)
			if err == nil {
				t.Fatal("ParseString: want error, got nil")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error type = %T, want *ParseError", err)
			}
			if pe.Msg == "" {
				t.Error("ParseError.Msg is empty")
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.dot")
	if err := os.WriteFile(path, []byte("digraph { a -> b; }"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	g, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if got, want := g.EdgeCount(), 1; got != want {
		t.Errorf("EdgeCount = %d, want %d", got, want)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.dot")); err == nil {
		t.Error("ParseFile(missing): want error, got nil")
	}
}

func TestParseRoundTrip(t *testing.T) {
	src := `
		digraph pipeline {
			rankdir=LR;
			label="Data Pipeline";
			subgraph cluster_ingest {
				label="Ingest";
				fetch [label="Fetch"];
				decode;
			}
			store;
			fetch -> decode [label="raw"];
			decode -> store;
			decode -> store;
			store -> store;
		}`

	first, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	second, err := ParseString(graph.ToDOT(first))
	if err != nil {
		t.Fatalf("reparse serialized output: %v", err)
	}

	if got, want := summarize(second), summarize(first); got != want {
		t.Errorf("round trip changed the graph:\ngot:\n%swant:\n%s", got, want)
	}
}

// summarize flattens the queryable state of a graph for comparison.
func summarize(g *graph.Graph) string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph name=%s dir=%s label=%s\n", g.Name(), g.Direction(), g.Label())
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "node %s label=%s\n", n.ID, n.Label)
	}
	for _, e := range g.Edges() {
		fmt.Fprintf(&b, "edge %s->%s label=%s\n", e.From, e.To, e.Label)
	}
	for _, c := range g.Clusters() {
		fmt.Fprintf(&b, "cluster %s label=%s nodes=%s\n", c.ID, c.Label, strings.Join(c.Nodes, ","))
	}
	return b.String()
}

func TestParseExampleGraphs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "graphs", "*.dot"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatal("no example graphs found")
	}

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			g, err := ParseFile(path)
			if err != nil {
				t.Fatalf("ParseFile: %v", err)
			}
			if g.NodeCount() == 0 || g.EdgeCount() == 0 {
				t.Fatalf("parsed %d nodes and %d edges, want a non-trivial graph", g.NodeCount(), g.EdgeCount())
			}
			second, err := ParseString(graph.ToDOT(g))
			if err != nil {
				t.Fatalf("reparse serialized output: %v", err)
			}
			if got, want := summarize(second), summarize(g); got != want {
				t.Errorf("round trip changed the graph:\ngot:\n%swant:\n%s", got, want)
			}
		})
	}
}

func TestParseErrorFrom(t *testing.T) {
	tests := []struct {
		name     string
		msg      string
		wantLine int
		wantNear string
	}{
		{"line and token", "failed to parse: syntax error in line 3 near '->'", 3, "->"},
		{"line only", "syntax error in line 12", 12, ""},
		{"no location", "something went wrong", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := parseErrorFrom(errors.New(tt.msg))
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
			if pe.Near != tt.wantNear {
				t.Errorf("Near = %q, want %q", pe.Near, tt.wantNear)
			}
			if pe.Msg != tt.msg {
				t.Errorf("Msg = %q, want %q", pe.Msg, tt.msg)
			}
		})
	}
}

func TestParseErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  ParseError
		want string
	}{
		{
			"full location",
			ParseError{Line: 3, Near: "->", Msg: "syntax error"},
			`parse error at line 3 near "->": syntax error`,
		},
		{
			"line only",
			ParseError{Line: 3, Msg: "syntax error"},
			"parse error at line 3: syntax error",
		},
		{
			"bare",
			ParseError{Msg: "syntax error"},
			"parse error: syntax error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
