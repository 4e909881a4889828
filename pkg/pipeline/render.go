package pipeline

import (
	"fmt"

	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/render/term"
)

// renderScene produces the output artifact for the requested format.
//
// Text output is the rune canvas with a trailing newline; JSON output is
// the snapshot wire document, the same shape cached scenes carry.
func renderScene(scene *Scene, g *graph.Graph, format string) ([]byte, error) {
	switch format {
	case FormatText:
		s := term.Render(g, scene.Snapshot, scene.Frames, scene.Width, scene.Height)
		return []byte(s + "\n"), nil
	case FormatJSON:
		return scene.Snapshot.JSON()
	default:
		return nil, fmt.Errorf("invalid format: %q", format)
	}
}
