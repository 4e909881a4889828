package graph

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func buildSample() *Graph {
	g := New("pipeline")
	g.SetDirection(LeftRight)
	g.SetLabel("Build Pipeline")
	g.AddNode(Node{ID: "fetch", Label: "Fetch sources"})
	g.AddNode(Node{ID: "build"})
	g.AddNode(Node{ID: "test", Attrs: map[string]string{"shape": "ellipse"}})
	g.AddEdge(Edge{From: "fetch", To: "build", Label: "tarball"})
	g.AddEdge(Edge{From: "build", To: "test"})
	g.AddCluster(Cluster{ID: "cluster_ci", Label: "CI", Nodes: []string{"build", "test"}})
	return g
}

func TestJSONRoundTrip(t *testing.T) {
	g := buildSample()

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if got.Name() != "pipeline" {
		t.Errorf("Name = %q, want %q", got.Name(), "pipeline")
	}
	if got.Label() != "Build Pipeline" {
		t.Errorf("Label = %q, want %q", got.Label(), "Build Pipeline")
	}
	if got.Direction() != LeftRight {
		t.Errorf("Direction = %v, want LeftRight", got.Direction())
	}
	if got.NodeCount() != 3 || got.EdgeCount() != 2 {
		t.Errorf("counts = %d nodes / %d edges, want 3/2", got.NodeCount(), got.EdgeCount())
	}

	wantOrder := []string{"fetch", "build", "test"}
	for i, id := range got.NodeIDs() {
		if id != wantOrder[i] {
			t.Fatalf("node order = %v, want %v", got.NodeIDs(), wantOrder)
		}
	}

	n, _ := got.Node("test")
	if n.Attrs["shape"] != "ellipse" {
		t.Errorf("attrs lost: %v", n.Attrs)
	}
	if e := got.Edges()[0]; e.Label != "tarball" {
		t.Errorf("edge label = %q, want %q", e.Label, "tarball")
	}
	if len(got.Clusters()) != 1 || got.Clusters()[0].DisplayLabel() != "CI" {
		t.Errorf("clusters = %v", got.Clusters())
	}

	// A second round trip produces byte-identical output.
	again, err := Marshal(got)
	if err != nil {
		t.Fatalf("Marshal again: %v", err)
	}
	if string(again) != string(data) {
		t.Error("round trip is not stable")
	}
}

func TestUnmarshalStructuralErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
		wantID  string
	}{
		{
			name:    "EdgeToUndeclaredNode",
			doc:     `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"C"}]}`,
			wantErr: ErrUnknownTargetNode,
			wantID:  `"C"`,
		},
		{
			name:    "EdgeFromUndeclaredNode",
			doc:     `{"nodes":[{"id":"b"}],"edges":[{"from":"C","to":"b"}]}`,
			wantErr: ErrUnknownSourceNode,
			wantID:  `"C"`,
		},
		{
			name:    "DuplicateNode",
			doc:     `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`,
			wantErr: ErrDuplicateNodeID,
		},
		{
			name:    "UnknownClusterMember",
			doc:     `{"nodes":[{"id":"a"}],"edges":[],"clusters":[{"id":"cluster_0","nodes":["ghost"]}]}`,
			wantErr: ErrUnknownClusterNode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Unmarshal([]byte(tt.doc))
			if g != nil {
				t.Error("no graph should be produced on structural error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantID != "" && !strings.Contains(err.Error(), tt.wantID) {
				t.Errorf("error %q does not reference %s", err, tt.wantID)
			}
		})
	}
}

func TestUnmarshalRejectsBadRankdir(t *testing.T) {
	_, err := Unmarshal([]byte(`{"rankdir":"NE","nodes":[],"edges":[]}`))
	if err == nil || !strings.Contains(err.Error(), "rankdir") {
		t.Fatalf("error = %v, want rankdir complaint", err)
	}
}

func TestReadWriteFile(t *testing.T) {
	g := buildSample()
	path := filepath.Join(t.TempDir(), "graph.json")

	if err := WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got.NodeCount() != g.NodeCount() || got.EdgeCount() != g.EdgeCount() {
		t.Errorf("file round trip lost data: %d/%d", got.NodeCount(), got.EdgeCount())
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
