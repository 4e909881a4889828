package pipeline

import (
	"encoding/json"

	"github.com/edgeloom/edgeloom/pkg/geo"
	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/layout"
	"github.com/edgeloom/edgeloom/pkg/surface"
)

// =============================================================================
// Scene - Layout Stage Output
// =============================================================================

// Scene bundles a routed snapshot with the surface geometry a renderer
// needs: cluster frames and the canvas extent.
type Scene struct {
	Snapshot *layout.Snapshot
	Frames   []surface.Frame
	Width    int
	Height   int
}

// computeScene runs one synchronous layout pass: place boxes on a flow
// surface and measure them, then route the edges.
func computeScene(g *graph.Graph, opts Options) *Scene {
	surf := surface.NewFlow(g, opts.Surface)
	w := layout.NewWatcher(g, surf, layout.Config{
		Route:  opts.Route,
		Logger: opts.Logger,
	})
	snap := w.Recompute()
	width, height := surf.Size()
	return &Scene{
		Snapshot: snap,
		Frames:   surf.Frames(),
		Width:    width,
		Height:   height,
	}
}

// =============================================================================
// Scene Serialization - Cached Form
// =============================================================================

// sceneDoc is the cached form of a scene. The snapshot keeps its own wire
// format so cached scenes and the JSON output format stay in sync.
type sceneDoc struct {
	Snapshot json.RawMessage `json:"snapshot"`
	Frames   []sceneFrame    `json:"frames,omitempty"`
	Width    int             `json:"width"`
	Height   int             `json:"height"`
}

type sceneFrame struct {
	ID    string  `json:"id"`
	Label string  `json:"label,omitempty"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// marshalScene encodes a scene for caching.
func marshalScene(s *Scene) ([]byte, error) {
	snapData, err := s.Snapshot.JSON()
	if err != nil {
		return nil, err
	}
	doc := sceneDoc{
		Snapshot: snapData,
		Width:    s.Width,
		Height:   s.Height,
	}
	for _, f := range s.Frames {
		doc.Frames = append(doc.Frames, sceneFrame{
			ID:    f.ID,
			Label: f.Label,
			X:     f.Rect.X,
			Y:     f.Rect.Y,
			W:     f.Rect.W,
			H:     f.Rect.H,
		})
	}
	return json.Marshal(doc)
}

// unmarshalScene decodes a cached scene.
func unmarshalScene(data []byte) (*Scene, error) {
	var doc sceneDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	snap, err := layout.UnmarshalSnapshot(doc.Snapshot)
	if err != nil {
		return nil, err
	}
	s := &Scene{
		Snapshot: snap,
		Width:    doc.Width,
		Height:   doc.Height,
	}
	for _, f := range doc.Frames {
		s.Frames = append(s.Frames, surface.Frame{
			ID:    f.ID,
			Label: f.Label,
			Rect:  geo.RectAt(f.X, f.Y, f.W, f.H),
		})
	}
	return s, nil
}
