// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about plot rendering, annotation database lookups, and
// cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPlotHooks(&myPlotHooks{})
//	    observability.SetDatabaseHooks(&myDatabaseHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Plot().OnRenderStart(ctx, samples, features)
//	// ... render ...
//	observability.Plot().OnRenderComplete(ctx, samples, features, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Plot Hooks
// =============================================================================

// PlotHooks receives events from heatmap rendering and plotting.
type PlotHooks interface {
	// Render events
	OnRenderStart(ctx context.Context, samples, features int)
	OnRenderComplete(ctx context.Context, samples, features int, duration time.Duration, err error)

	// Interactive session events
	OnSessionStart(ctx context.Context, gui string)
	OnSessionEnd(ctx context.Context, gui string, duration time.Duration)
}

// =============================================================================
// Database Hooks
// =============================================================================

// DatabaseHooks receives events from annotation database lookups.
type DatabaseHooks interface {
	// OnLookupStart records the beginning of an annotation lookup.
	OnLookupStart(ctx context.Context, database, feature string)

	// OnLookupComplete records a finished lookup with the result count.
	OnLookupComplete(ctx context.Context, database, feature string, results int, duration time.Duration, err error)
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

// NoopPlotHooks is a no-op implementation of PlotHooks.
type NoopPlotHooks struct{}

func (NoopPlotHooks) OnRenderStart(context.Context, int, int)                          {}
func (NoopPlotHooks) OnRenderComplete(context.Context, int, int, time.Duration, error) {}
func (NoopPlotHooks) OnSessionStart(context.Context, string)                           {}
func (NoopPlotHooks) OnSessionEnd(context.Context, string, time.Duration)              {}

// NoopDatabaseHooks is a no-op implementation of DatabaseHooks.
type NoopDatabaseHooks struct{}

func (NoopDatabaseHooks) OnLookupStart(context.Context, string, string) {}
func (NoopDatabaseHooks) OnLookupComplete(context.Context, string, string, int, time.Duration, error) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	plotHooks     PlotHooks     = NoopPlotHooks{}
	databaseHooks DatabaseHooks = NoopDatabaseHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	hooksMu       sync.RWMutex
)

// SetPlotHooks registers custom plot hooks.
// This should be called once at application startup before any rendering.
func SetPlotHooks(h PlotHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		plotHooks = h
	}
}

// SetDatabaseHooks registers custom database hooks.
// This should be called once at application startup before any lookups.
func SetDatabaseHooks(h DatabaseHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		databaseHooks = h
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

// Plot returns the registered plot hooks.
func Plot() PlotHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return plotHooks
}

// Database returns the registered database hooks.
func Database() DatabaseHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return databaseHooks
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
	plotHooks = NoopPlotHooks{}
	databaseHooks = NoopDatabaseHooks{}
	cacheHooks = NoopCacheHooks{}
}
