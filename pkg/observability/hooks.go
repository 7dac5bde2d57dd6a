// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the registered hooks; main decides what
// receives them. The defaults are no-ops, so nothing is recorded unless a
// binary opts in.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetVerifyHooks(observability.NewLogHooks(logger))
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Verify().OnSweepStart(ctx, fingerprint, 2, 6)
//	// ... place every subset ...
//	observability.Verify().OnSweepComplete(ctx, fingerprint, checked, failure, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Verify Hooks
// =============================================================================

// VerifyHooks receives events from feasibility sweeps.
type VerifyHooks interface {
	OnSweepStart(ctx context.Context, fingerprint string, minSize, maxSize int)
	OnSubsetPlaced(ctx context.Context, suites []string)
	// OnSweepComplete reports the number of subsets checked and the first
	// unplaceable subset, if any.
	OnSweepComplete(ctx context.Context, fingerprint string, checked int, failure []string, duration time.Duration)
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
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records a served request. route is the matched pattern,
	// not the raw path.
	OnRequest(ctx context.Context, method, route string, status int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopVerifyHooks is a no-op implementation of VerifyHooks.
type NoopVerifyHooks struct{}

func (NoopVerifyHooks) OnSweepStart(context.Context, string, int, int)                        {}
func (NoopVerifyHooks) OnSubsetPlaced(context.Context, []string)                              {}
func (NoopVerifyHooks) OnSweepComplete(context.Context, string, int, []string, time.Duration) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	verifyHooks VerifyHooks = NoopVerifyHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	serverHooks ServerHooks = NoopServerHooks{}
	hooksMu     sync.RWMutex
)

// SetVerifyHooks registers custom verify hooks. Nil is ignored.
func SetVerifyHooks(h VerifyHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		verifyHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers custom server hooks. Nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Verify returns the registered verify hooks.
func Verify() VerifyHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return verifyHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	verifyHooks = NoopVerifyHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
