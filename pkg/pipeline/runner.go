package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/edgeloom/edgeloom/pkg/cache"
	"github.com/edgeloom/edgeloom/pkg/graph"
	"github.com/edgeloom/edgeloom/pkg/observability"
)

// cacheSchema prefixes every cache key. Bump it when a cached document
// format changes so older entries are never read back.
const cacheSchema = "v1:"

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled); otherwise the cache
// is scoped by schema version.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	} else {
		c = cache.NewScopedCache(c, cacheSchema)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	g, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graph = g
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.ParseHit = parseHit

	// Compute graph hash for cache keys and API responses
	if graphData, err := graph.Marshal(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("parsed description",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	scene, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = scene
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.RoutedEdges = len(scene.Snapshot.Edges)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"boxes", len(scene.Snapshot.Rects),
		"routed", len(scene.Snapshot.Edges),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	out, err := r.Render(ctx, scene, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Output = out
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered output",
		"format", opts.Format,
		"bytes", len(out),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses the description with caching and returns cache hit info.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*graph.Graph, bool, error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	kind := opts.SourceKind
	if kind == "" {
		kind = DetectSourceKind(opts.SourceName, opts.Source)
	}

	obs := observability.Pipeline()
	obs.OnParseStart(ctx, kind)
	start := time.Now()

	cacheKey := cache.HashKey("parse", kind, cache.Hash([]byte(opts.Source)))

	// Try cache first (unless caching is off)
	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			g, err := graph.Unmarshal(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "parse")
				obs.OnParseComplete(ctx, kind, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
				return g, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "parse")
	}

	// Parse
	g, err := parseSource(kind, opts.Source)
	if err != nil {
		obs.OnParseComplete(ctx, kind, 0, 0, time.Since(start), err)
		return nil, false, err
	}

	// Cache the result
	if !opts.NoCache {
		if data, err := graph.Marshal(g); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLParse) == nil {
				observability.Cache().OnCacheSet(ctx, "parse", len(data))
			}
		}
	}

	obs.OnParseComplete(ctx, kind, g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
	return g, false, nil // Cache miss
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*graph.Graph, error) {
	g, _, err := r.ParseWithCacheInfo(ctx, opts)
	return g, err
}

// LayoutWithCacheInfo computes the scene with caching and returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (*Scene, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	// Compute cache key
	graphData, err := graph.Marshal(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)
	cacheKey := cache.HashKey("snapshot", graphHash, opts.layoutKeyOpts())

	// Try cache first
	if !opts.NoCache {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			scene, err := unmarshalScene(data)
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "snapshot")
				return scene, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
		observability.Cache().OnCacheMiss(ctx, "snapshot")
	}

	// Compute
	obs := observability.Pipeline()
	obs.OnRouteStart(ctx, g.NodeCount(), g.EdgeCount())
	start := time.Now()
	scene := computeScene(g, opts)
	obs.OnRouteComplete(ctx, len(scene.Snapshot.Edges), time.Since(start))

	// Cache the result
	if !opts.NoCache {
		if data, err := marshalScene(scene); err == nil {
			if r.Cache.Set(ctx, cacheKey, data, cache.TTLSnapshot) == nil {
				observability.Cache().OnCacheSet(ctx, "snapshot", len(data))
			}
		}
	}

	return scene, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *graph.Graph, opts Options) (*Scene, error) {
	scene, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return scene, err
}

// Render produces the output artifact for the scene. Painting a rune
// canvas is cheap, so render results are not cached.
func (r *Runner) Render(ctx context.Context, scene *Scene, g *graph.Graph, opts Options) ([]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	obs := observability.Pipeline()
	obs.OnRenderStart(ctx, opts.Format)
	start := time.Now()

	out, err := renderScene(scene, g, opts.Format)
	obs.OnRenderComplete(ctx, opts.Format, len(out), time.Since(start), err)
	return out, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
