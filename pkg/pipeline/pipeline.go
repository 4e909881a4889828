// Package pipeline provides the one-shot diagram pipeline for edgeloom.
//
// This package implements the complete parse → layout → render pipeline that
// both the CLI and the HTTP server use. Centralizing it keeps caching and
// instrumentation behavior identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a DOT or graph-JSON description into a graph
//  2. Layout: Place and measure node boxes on a flow surface, route edges
//  3. Render: Produce output in the requested format (text, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Source: src,
//	    Format: pipeline.FormatText,
//	    Width:  100,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Output)
//
// Run individual stages:
//
//	// Parse only
//	g, err := runner.Parse(ctx, opts)
//
//	// Layout with an existing graph
//	scene, err := runner.Layout(ctx, g, opts)
//
//	// Render with an existing scene
//	out, err := runner.Render(ctx, scene, g, opts)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/route"
	"github.com/edgeloom/edgeloom/pkg/surface"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultWidth is the default surface wrap width in cells.
	DefaultWidth = 80

	// DefaultFormat is the default output format.
	DefaultFormat = FormatText
)

// DefaultRouteOptions is the routing geometry tuned for cell grids. The
// route package's own defaults target pixel-sized surfaces; on a terminal a
// label sits a couple of rows off its curve and a self-loop reaches a few
// columns past its box.
var DefaultRouteOptions = route.Options{
	BowFactor:   route.DefaultBowFactor,
	LabelOffset: 2,
	LoopExtent:  6,
}

// Format constants for output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatJSON: true,
}

// Source kind constants for description formats.
const (
	SourceDOT  = "dot"
	SourceJSON = "json"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Parse options
	Source     string `json:"source"`                // diagram description text
	SourceName string `json:"source_name,omitempty"` // name used in messages ("stdin", a path)
	SourceKind string `json:"source_kind,omitempty"` // "dot" or "json"; empty means detect

	// Layout options
	Width   int             `json:"width,omitempty"` // overrides Surface.Width when set
	Surface surface.Options `json:"surface"`
	Route   route.Options   `json:"route"`

	// Render options
	Format string `json:"format,omitempty"` // "text" or "json"

	// Runtime options
	NoCache bool        `json:"no_cache,omitempty"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed diagram graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph's JSON form.
	GraphHash string

	// Scene is the measured and routed layout.
	Scene *Scene

	// Output is the rendered artifact in the requested format.
	Output []byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount   int
	EdgeCount   int
	RoutedEdges int
	ParseTime   time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the parsed graph came from cache
	LayoutHit bool // Whether the layout scene came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: text, json)", format)
	}
	return nil
}

// ValidateSourceKind checks that a source kind is valid. Empty means detect.
func ValidateSourceKind(kind string) error {
	switch kind {
	case "", SourceDOT, SourceJSON:
		return nil
	}
	return fmt.Errorf("invalid source kind: %q (must be dot or json)", kind)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks required fields for parsing.
func (o *Options) ValidateForParse() error {
	if strings.TrimSpace(o.Source) == "" {
		return fmt.Errorf("source is required")
	}
	if err := ValidateSourceKind(o.SourceKind); err != nil {
		return err
	}

	// Parse defaults
	if o.SourceName == "" {
		o.SourceName = "description"
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width > 0 {
		o.Surface.Width = o.Width
	}
	if o.Surface.Width <= 0 {
		o.Surface.Width = DefaultWidth
	}
	if o.Route == (route.Options{}) {
		o.Route = DefaultRouteOptions
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	return ValidateFormat(o.Format)
}

// layoutKey captures every option that changes layout geometry, for cache keys.
type layoutKey struct {
	Width       int     `json:"width"`
	GapX        int     `json:"gap_x"`
	GapY        int     `json:"gap_y"`
	Margin      int     `json:"margin"`
	BowFactor   float64 `json:"bow_factor"`
	LabelOffset float64 `json:"label_offset"`
	LoopExtent  float64 `json:"loop_extent"`
}

// layoutKeyOpts returns cache key options for layout computation.
func (o *Options) layoutKeyOpts() layoutKey {
	return layoutKey{
		Width:       o.Surface.Width,
		GapX:        o.Surface.GapX,
		GapY:        o.Surface.GapY,
		Margin:      o.Surface.Margin,
		BowFactor:   o.Route.BowFactor,
		LabelOffset: o.Route.LabelOffset,
		LoopExtent:  o.Route.LoopExtent,
	}
}
