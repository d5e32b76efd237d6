// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through package-level hook registries; the default
// hooks do nothing. The serve command registers a [Prometheus] implementation
// at startup, so the core packages never import a metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	prom := observability.NewPrometheus(prometheus.NewRegistry())
//	observability.SetPipelineHooks(prom)
//	observability.SetCacheHooks(prom)
//	observability.SetHTTPHooks(prom)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, nodeCount)
//	// ... run the engine ...
//	observability.Pipeline().OnLayoutComplete(ctx, LayoutEvent{...}, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// LayoutEvent summarizes a finished layout run.
type LayoutEvent struct {
	Nodes     int
	Passes    int
	Converged bool
	Clamped   int
	CacheHit  bool
}

// PipelineHooks receives events from the layout pipeline.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, nodeCount int)
	OnLayoutComplete(ctx context.Context, ev LayoutEvent, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
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

	// OnCacheError records a backend failure.
	OnCacheError(ctx context.Context, keyType, op string, err error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	// OnRequest records an incoming request before routing, so path is the
	// raw URL path.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records the response to a request. route is the matched
	// pattern, not the raw path.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, int)                                  {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, LayoutEvent, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)                  {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)                 {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int)             {}
func (NoopCacheHooks) OnCacheError(context.Context, string, string, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                       {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Registry
// =============================================================================

// hook holds the current implementation of one hook interface. Setting nil
// keeps the current one.
type hook[T any] struct {
	mu   sync.RWMutex
	cur  T
	noop T
}

func newHook[T any](noop T) *hook[T] { return &hook[T]{cur: noop, noop: noop} }

func (h *hook[T]) get() T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.cur
}

func (h *hook[T]) set(v T) {
	if any(v) == nil {
		return
	}
	h.mu.Lock()
	h.cur = v
	h.mu.Unlock()
}

func (h *hook[T]) reset() {
	h.mu.Lock()
	h.cur = h.noop
	h.mu.Unlock()
}

var (
	pipelineHook = newHook[PipelineHooks](NoopPipelineHooks{})
	cacheHook    = newHook[CacheHooks](NoopCacheHooks{})
	httpHook     = newHook[HTTPHooks](NoopHTTPHooks{})
)

// SetPipelineHooks installs h for the runner. Call it at startup.
func SetPipelineHooks(h PipelineHooks) { pipelineHook.set(h) }

// SetCacheHooks installs h for [cache.Instrumented] wrappers.
//
// [cache.Instrumented]: github.com/matzehuels/threadmap/pkg/cache#Instrumented
func SetCacheHooks(h CacheHooks) { cacheHook.set(h) }

// SetHTTPHooks installs h for the API server.
func SetHTTPHooks(h HTTPHooks) { httpHook.set(h) }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineHook.get() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheHook.get() }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return httpHook.get() }

// Reset restores the no-op hooks. Tests that install hooks defer it.
func Reset() {
	pipelineHook.reset()
	cacheHook.reset()
	httpHook.reset()
}
