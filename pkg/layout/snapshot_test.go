package layout

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/edgeloom/edgeloom/pkg/geo"
	"github.com/edgeloom/edgeloom/pkg/route"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		ID:  uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"),
		Seq: 3,
		// map insertion order differs from the sorted output order
		Rects: map[string]geo.Rect{
			"B": geo.RectAt(100, 0, 40, 20),
			"A": geo.RectAt(10.1234, 0, 40, 20),
		},
		Edges: []route.Edge{{
			From:        "A",
			To:          "B",
			Label:       "calls",
			Path:        geo.Path{geo.Pt(50.1234, 10), geo.Pt(100, 10)},
			LabelAnchor: geo.Pt(75.06, 30),
			ArrowAngle:  0,
		}},
		Took: 1500 * time.Microsecond,
	}
}

func TestSnapshotJSON(t *testing.T) {
	out, err := testSnapshot().JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if got, want := doc["seq"], float64(3); got != want {
		t.Errorf("seq = %v, want %v", got, want)
	}
	if got, want := doc["took_ms"], 1.5; got != want {
		t.Errorf("took_ms = %v, want %v", got, want)
	}

	s := string(out)
	for _, want := range []string{
		`"id": "6ba7b810-9dad-11d1-80b4-00c04fd430c8"`,
		`"x": 10.12`, // rounded to two decimals
		`"label": "calls"`,
		`"label_anchor"`,
		`"arrow_angle": 0`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %s\n%s", want, s)
		}
	}

	// Nodes come sorted by ID regardless of map order.
	if a, b := strings.Index(s, `"id": "A"`), strings.Index(s, `"id": "B"`); a < 0 || b < 0 || a > b {
		t.Errorf("nodes not sorted by ID (A at %d, B at %d)", a, b)
	}
}

func TestSnapshotJSONStable(t *testing.T) {
	first, err := testSnapshot().JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	second, err := testSnapshot().JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("identical snapshots encode differently")
	}
}

func TestSnapshotJSONRoundTrip(t *testing.T) {
	orig := testSnapshot()
	data, err := orig.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	got, err := UnmarshalSnapshot(data)
	if err != nil {
		t.Fatalf("UnmarshalSnapshot: %v", err)
	}

	if got.ID != orig.ID {
		t.Errorf("ID = %v, want %v", got.ID, orig.ID)
	}
	if got.Seq != orig.Seq {
		t.Errorf("Seq = %d, want %d", got.Seq, orig.Seq)
	}
	if got.Took != orig.Took {
		t.Errorf("Took = %v, want %v", got.Took, orig.Took)
	}
	if len(got.Rects) != 2 {
		t.Fatalf("Rects count = %d, want 2", len(got.Rects))
	}
	// Precision is the document's two decimals
	if r := got.Rects["A"]; r.X != 10.12 || r.W != 40 {
		t.Errorf("Rects[A] = %+v, want x=10.12 w=40", r)
	}
	if len(got.Edges) != 1 {
		t.Fatalf("Edges count = %d, want 1", len(got.Edges))
	}
	e := got.Edges[0]
	if e.From != "A" || e.To != "B" || e.Label != "calls" {
		t.Errorf("edge identity = %s->%s %q", e.From, e.To, e.Label)
	}
	if len(e.Path) != 2 || e.Path[0] != geo.Pt(50.12, 10) {
		t.Errorf("edge path = %v", e.Path)
	}
	if e.LabelAnchor != geo.Pt(75.06, 30) {
		t.Errorf("label anchor = %v", e.LabelAnchor)
	}

	// A second encode of the decoded snapshot is byte-identical
	again, err := got.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Error("re-encoding a decoded snapshot changed the document")
	}
}

func TestUnmarshalSnapshotInvalid(t *testing.T) {
	if _, err := UnmarshalSnapshot([]byte("not json")); err == nil {
		t.Error("invalid JSON should fail")
	}
	if _, err := UnmarshalSnapshot([]byte(`{"id":"not-a-uuid","seq":1}`)); err == nil {
		t.Error("invalid snapshot ID should fail")
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{10.1234, 10.12},
		{10.125, 10.13},
		{-3.456, -3.46},
		{40, 40},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
