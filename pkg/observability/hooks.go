// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline stages, watcher recomputes, and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which keeps the core
// packages free of observability-framework imports and avoids import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetWatchHooks(&myWatchHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, "dot")
//	// ... parse ...
//	observability.Pipeline().OnParseComplete(ctx, "dot", nodes, edges, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the one-shot diagram pipeline.
type PipelineHooks interface {
	// Parse events. Source is the description format ("dot" or "json").
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, nodes, edges int, duration time.Duration, err error)

	// Route events.
	OnRouteStart(ctx context.Context, nodes, edges int)
	OnRouteComplete(ctx context.Context, routed int, duration time.Duration)

	// Render events. Format is the output format ("text" or "json").
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// Watch Hooks
// =============================================================================

// WatchHooks receives events from the layout watcher. Watcher events have no
// request scope, so these methods take no context.
type WatchHooks interface {
	// OnChange records an incoming surface change notification.
	OnChange()

	// OnRecomputeStart records the start of a layout pass.
	OnRecomputeStart(seq uint64)

	// OnRecomputeComplete records a finished layout pass and its result size.
	OnRecomputeComplete(seq uint64, nodes, edges int, took time.Duration)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRouteStart(context.Context, int, int)                        {}
func (NoopPipelineHooks) OnRouteComplete(context.Context, int, time.Duration)           {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                         {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}

// NoopWatchHooks is a no-op implementation of WatchHooks.
type NoopWatchHooks struct{}

func (NoopWatchHooks) OnChange()                                           {}
func (NoopWatchHooks) OnRecomputeStart(uint64)                             {}
func (NoopWatchHooks) OnRecomputeComplete(uint64, int, int, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	watchHooks    WatchHooks    = NoopWatchHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetWatchHooks registers custom watcher hooks.
// This should be called once at application startup before the watcher runs.
func SetWatchHooks(h WatchHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		watchHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Watch returns the registered watcher hooks.
func Watch() WatchHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return watchHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	watchHooks = NoopWatchHooks{}
	cacheHooks = NoopCacheHooks{}
}
