// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about document loading, rendering and output.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define a hook interface for pipeline events
//   - Provide a no-op default implementation
//   - Allow registration of a custom implementation at startup
//
// Hooks are registered by main, not by libraries, so the library packages
// stay free of any observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLoadStart(ctx, path)
//	// ... load and validate ...
//	observability.Pipeline().OnLoadComplete(ctx, path, components, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from a render run.
type PipelineHooks interface {
	// Load events cover reading, parsing and validating the document.
	OnLoadStart(ctx context.Context, path string)
	OnLoadComplete(ctx context.Context, path string, components int, duration time.Duration, err error)

	// Render events cover diagram construction and Graphviz output.
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)

	// OnOutput records where the artifact went ("write" or "display").
	OnOutput(ctx context.Context, mode, path string)
}

// =============================================================================
// No-op Implementation
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string) {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, string) {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnOutput(context.Context, string, string) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
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

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores the hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
}
