package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/edgeloom/edgeloom/pkg/geo"
	"github.com/edgeloom/edgeloom/pkg/route"
)

// Snapshot is one complete routed layout: the measured rectangle of every
// laid-out node plus every routable edge, stamped with a unique ID and a
// monotonic sequence number. Snapshots are immutable once published;
// consumers must not modify the maps or slices they carry.
type Snapshot struct {
	ID    uuid.UUID
	Seq   uint64
	Rects map[string]geo.Rect
	Edges []route.Edge
	Took  time.Duration
}

// ===== JSON document =====
//
// The wire form is stable: nodes sorted by ID, coordinates rounded to two
// decimals, edge order preserved. Two snapshots of the same geometry encode
// byte-identically apart from id, seq, and took_ms.

type snapshotDoc struct {
	ID     string            `json:"id"`
	Seq    uint64            `json:"seq"`
	TookMS float64           `json:"took_ms"`
	Nodes  []snapshotNodeDoc `json:"nodes"`
	Edges  []snapshotEdgeDoc `json:"edges"`
}

type snapshotNodeDoc struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	W  float64 `json:"w"`
	H  float64 `json:"h"`
}

type snapshotEdgeDoc struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Label       string       `json:"label,omitempty"`
	Path        [][2]float64 `json:"path"`
	LabelAnchor [2]float64   `json:"label_anchor"`
	ArrowAngle  float64      `json:"arrow_angle"`
}

// JSON encodes the snapshot as an indented JSON document.
func (s *Snapshot) JSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes the snapshot's JSON document to w.
func (s *Snapshot) WriteJSON(w io.Writer) error {
	doc := snapshotDoc{
		ID:     s.ID.String(),
		Seq:    s.Seq,
		TookMS: round2(float64(s.Took.Microseconds()) / 1000),
		Nodes:  make([]snapshotNodeDoc, 0, len(s.Rects)),
		Edges:  make([]snapshotEdgeDoc, 0, len(s.Edges)),
	}
	for _, id := range slices.Sorted(maps.Keys(s.Rects)) {
		r := s.Rects[id]
		doc.Nodes = append(doc.Nodes, snapshotNodeDoc{
			ID: id,
			X:  round2(r.X), Y: round2(r.Y), W: round2(r.W), H: round2(r.H),
		})
	}
	for _, e := range s.Edges {
		ed := snapshotEdgeDoc{
			From:        e.From,
			To:          e.To,
			Label:       e.Label,
			Path:        make([][2]float64, len(e.Path)),
			LabelAnchor: roundPt(e.LabelAnchor),
			ArrowAngle:  round2(e.ArrowAngle),
		}
		for i, p := range e.Path {
			ed.Path[i] = roundPt(p)
		}
		doc.Edges = append(doc.Edges, ed)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a snapshot document produced by WriteJSON. Geometry
// comes back at the document's two-decimal precision.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var doc snapshotDoc
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	s := &Snapshot{
		ID:    id,
		Seq:   doc.Seq,
		Rects: make(map[string]geo.Rect, len(doc.Nodes)),
		Edges: make([]route.Edge, 0, len(doc.Edges)),
		Took:  time.Duration(doc.TookMS * float64(time.Millisecond)),
	}
	for _, n := range doc.Nodes {
		s.Rects[n.ID] = geo.RectAt(n.X, n.Y, n.W, n.H)
	}
	for _, ed := range doc.Edges {
		e := route.Edge{
			From:        ed.From,
			To:          ed.To,
			Label:       ed.Label,
			Path:        make(geo.Path, len(ed.Path)),
			LabelAnchor: geo.Pt(ed.LabelAnchor[0], ed.LabelAnchor[1]),
			ArrowAngle:  ed.ArrowAngle,
		}
		for i, p := range ed.Path {
			e.Path[i] = geo.Pt(p[0], p[1])
		}
		s.Edges = append(s.Edges, e)
	}
	return s, nil
}

// UnmarshalSnapshot decodes a snapshot document from bytes.
func UnmarshalSnapshot(data []byte) (*Snapshot, error) {
	return ReadSnapshot(bytes.NewReader(data))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundPt(p geo.Point) [2]float64 {
	return [2]float64{round2(p.X), round2(p.Y)}
}
