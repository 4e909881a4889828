package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/edgeloom/edgeloom/pkg/dot"
	"github.com/edgeloom/edgeloom/pkg/graph"
)

// DetectSourceKind guesses the description format from a file name and its
// content. A .json extension or a leading '{' means graph JSON; everything
// else parses as DOT.
func DetectSourceKind(name, source string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return SourceJSON
	case ".dot", ".gv":
		return SourceDOT
	}
	if strings.HasPrefix(strings.TrimSpace(source), "{") {
		return SourceJSON
	}
	return SourceDOT
}

// parseSource parses the description text into a graph.
func parseSource(kind, source string) (*graph.Graph, error) {
	switch kind {
	case SourceJSON:
		g, err := graph.Unmarshal([]byte(source))
		if err != nil {
			return nil, fmt.Errorf("read graph document: %w", err)
		}
		return g, nil
	default:
		return dot.ParseString(source)
	}
}
