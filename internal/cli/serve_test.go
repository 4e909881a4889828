package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/edgeloom/edgeloom/pkg/config"
	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/layout"
	"github.com/edgeloom/edgeloom/pkg/pipeline"
)

// newTestServer builds a diagramServer around a cache-less runner for the
// given file.
func newTestServer(t *testing.T, path string) *diagramServer {
	t.Helper()
	quiet := newLogger(io.Discard, log.InfoLevel)
	runner := pipeline.NewRunner(nil, quiet)
	t.Cleanup(func() { runner.Close() })

	return &diagramServer{
		logger:   quiet,
		runner:   runner,
		path:     path,
		template: pipelineOptions(config.Default(), 0, pipeline.FormatText, true),
	}
}

func get(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestServerEndpoints(t *testing.T) {
	path := writeTestDiagram(t)
	s := newTestServer(t, path)
	s.reload(context.Background())
	routes := s.routes()

	t.Run("healthz", func(t *testing.T) {
		rec := get(t, routes, "/healthz")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if body["status"] != "ok" {
			t.Errorf("status field = %q, want %q", body["status"], "ok")
		}
	})

	t.Run("status", func(t *testing.T) {
		rec := get(t, routes, "/api/status")
		var doc statusDoc
		if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
			t.Fatal(err)
		}
		if doc.Seq != 1 {
			t.Errorf("seq = %d, want 1", doc.Seq)
		}
		if doc.NodeCount != 3 || doc.EdgeCount != 2 {
			t.Errorf("counts = %d nodes/%d edges, want 3/2", doc.NodeCount, doc.EdgeCount)
		}
		if doc.Error != "" {
			t.Errorf("error = %q, want empty", doc.Error)
		}
	})

	t.Run("render", func(t *testing.T) {
		rec := get(t, routes, "/api/render")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
			t.Errorf("Content-Type = %q, want text/plain", ct)
		}
		if !strings.Contains(rec.Body.String(), "╭") {
			t.Error("render body should contain box drawing runes")
		}
	})

	t.Run("snapshot", func(t *testing.T) {
		rec := get(t, routes, "/api/snapshot")
		snap, err := layout.UnmarshalSnapshot(rec.Body.Bytes())
		if err != nil {
			t.Fatalf("body is not a snapshot: %v", err)
		}
		if len(snap.Rects) != 3 {
			t.Errorf("snapshot rects = %d, want 3", len(snap.Rects))
		}
	})

	t.Run("graph", func(t *testing.T) {
		rec := get(t, routes, "/api/graph")
		g, err := graph.Unmarshal(rec.Body.Bytes())
		if err != nil {
			t.Fatalf("body is not a graph document: %v", err)
		}
		if g.Name() != "app" {
			t.Errorf("graph name = %q, want %q", g.Name(), "app")
		}
	})

	t.Run("request id", func(t *testing.T) {
		rec := get(t, routes, "/healthz")
		if rec.Header().Get("X-Request-ID") == "" {
			t.Error("responses should carry an X-Request-ID header")
		}
	})
}

func TestServerNotLoaded(t *testing.T) {
	s := newTestServer(t, filepath.Join(t.TempDir(), "absent.dot"))
	s.reload(context.Background())
	routes := s.routes()

	rec := get(t, routes, "/api/render")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(body["error"], "no diagram loaded") {
		t.Errorf("error = %q, should mention no diagram loaded", body["error"])
	}

	rec = get(t, routes, "/api/status")
	var doc statusDoc
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Seq != 0 {
		t.Errorf("seq = %d, want 0", doc.Seq)
	}
	if doc.Error == "" {
		t.Error("status should surface the reload error")
	}
}

func TestServerKeepsLastGoodResult(t *testing.T) {
	path := writeTestDiagram(t)
	s := newTestServer(t, path)
	s.reload(context.Background())

	before := get(t, s.routes(), "/api/render").Body.String()

	if err := os.WriteFile(path, []byte("digraph {"), 0o644); err != nil {
		t.Fatal(err)
	}
	s.reload(context.Background())
	routes := s.routes()

	rec := get(t, routes, "/api/render")
	if rec.Code != http.StatusOK {
		t.Fatalf("status after broken edit = %d, want 200", rec.Code)
	}
	if rec.Body.String() != before {
		t.Error("broken edit should not change the served render")
	}

	var doc statusDoc
	if err := json.Unmarshal(get(t, routes, "/api/status").Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Seq != 1 {
		t.Errorf("seq = %d, want 1 (failed reload must not advance it)", doc.Seq)
	}
	if doc.Error == "" {
		t.Error("status should surface the parse error")
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":7333", "127.0.0.1:7333"},
		{"127.0.0.1:7333", "127.0.0.1:7333"},
		{"0.0.0.0:80", "0.0.0.0:80"},
	}
	for _, tt := range tests {
		if got := displayAddr(tt.addr); got != tt.want {
			t.Errorf("displayAddr(%q) = %q, want %q", tt.addr, got, tt.want)
		}
	}
}
