// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about atlas composition and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, which avoids import cycles
// and keeps the core packages free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetAtlasHooks(&myAtlasHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Atlas().OnComposeStart(ctx, frames)
//	// ... composite frames ...
//	observability.Atlas().OnComposeComplete(ctx, frames, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Atlas Hooks
// =============================================================================

// AtlasHooks receives events from layout, composition and encoding.
type AtlasHooks interface {
	// OnLayout records the grid chosen for a frame count.
	OnLayout(ctx context.Context, frames, columns, rows int)

	// Composition events
	OnComposeStart(ctx context.Context, frames int)
	OnFrame(ctx context.Context, index int, duration time.Duration, err error)
	OnComposeComplete(ctx context.Context, frames int, duration time.Duration, err error)

	// OnEncode records the PNG encoding of a finished canvas.
	OnEncode(ctx context.Context, size int, duration time.Duration, err error)
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

// NoopAtlasHooks is a no-op implementation of AtlasHooks.
type NoopAtlasHooks struct{}

func (NoopAtlasHooks) OnLayout(context.Context, int, int, int)                      {}
func (NoopAtlasHooks) OnComposeStart(context.Context, int)                          {}
func (NoopAtlasHooks) OnFrame(context.Context, int, time.Duration, error)           {}
func (NoopAtlasHooks) OnComposeComplete(context.Context, int, time.Duration, error) {}
func (NoopAtlasHooks) OnEncode(context.Context, int, time.Duration, error)          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	atlasHooks AtlasHooks = NoopAtlasHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetAtlasHooks registers custom atlas hooks.
// This should be called once at application startup before any composition.
func SetAtlasHooks(h AtlasHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		atlasHooks = h
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

// Atlas returns the registered atlas hooks.
func Atlas() AtlasHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return atlasHooks
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
	atlasHooks = NoopAtlasHooks{}
	cacheHooks = NoopCacheHooks{}
}
