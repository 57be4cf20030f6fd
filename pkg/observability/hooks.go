// Package observability lets the CLI attach metrics to the library packages
// without those packages importing a metrics backend.
//
// Each event category has a hook interface and a no-op default. main
// installs real implementations once at startup (the Prometheus one lives
// in internal/metrics); libraries fetch the current hooks at the point of
// the event:
//
//	start := time.Now()
//	observability.Layout().OnLayoutStart(ctx, "LR", len(nodes))
//	// ... run the oracle ...
//	observability.Layout().OnLayoutComplete(ctx, "LR", time.Since(start), len(fallbacks), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Edit outcomes reported through [SessionHooks.OnEdit].
const (
	EditApplied  = "applied"
	EditNoop     = "noop"
	EditDropped  = "dropped"  // PATH_NOT_FOUND
	EditRejected = "rejected" // INVALID_JSON or TYPE_COERCION
)

// SessionHooks receives events from editing sessions.
type SessionHooks interface {
	// OnProject is called after the source text was projected into a
	// diagram, successfully or not.
	OnProject(ctx context.Context, nodeCount int, duration time.Duration, err error)
	// OnEdit is called with one of the Edit* outcomes.
	OnEdit(ctx context.Context, outcome string)
	// OnToggle is called with "collapse" or "expand".
	OnToggle(ctx context.Context, action string)
}

// LayoutHooks receives events from the position continuity manager.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, direction string, nodeCount int)
	OnLayoutComplete(ctx context.Context, direction string, duration time.Duration, fallbacks int, err error)
}

// CacheHooks receives events from the layout cache. keyType names the kind
// of entry, currently always "layout".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnRequest is called once per served request. route is the matched
	// pattern, not the raw path.
	OnRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration)
}

// Noop hooks. They are the defaults and what [Reset] restores.
type (
	NoopSessionHooks struct{}
	NoopLayoutHooks  struct{}
	NoopCacheHooks   struct{}
	NoopHTTPHooks    struct{}
)

func (NoopSessionHooks) OnProject(context.Context, int, time.Duration, error) {}
func (NoopSessionHooks) OnEdit(context.Context, string)                       {}
func (NoopSessionHooks) OnToggle(context.Context, string)                     {}

func (NoopLayoutHooks) OnLayoutStart(context.Context, string, int)                          {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, string, time.Duration, int, error) {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, int, time.Duration) {}

type registry struct {
	mu      sync.RWMutex
	session SessionHooks
	layout  LayoutHooks
	cache   CacheHooks
	http    HTTPHooks
}

func (r *registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session = NoopSessionHooks{}
	r.layout = NoopLayoutHooks{}
	r.cache = NoopCacheHooks{}
	r.http = NoopHTTPHooks{}
}

var hooks = func() *registry {
	r := &registry{}
	r.reset()
	return r
}()

// set stores h in *slot unless h is nil.
func set[T comparable](slot *T, h T) {
	var zero T
	if h == zero {
		return
	}
	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	*slot = h
}

func get[T any](slot *T) T {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return *slot
}

// SetSessionHooks installs session hooks. A nil h is ignored.
func SetSessionHooks(h SessionHooks) { set(&hooks.session, h) }

// SetLayoutHooks installs layout hooks. A nil h is ignored.
func SetLayoutHooks(h LayoutHooks) { set(&hooks.layout, h) }

// SetCacheHooks installs cache hooks. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { set(&hooks.cache, h) }

// SetHTTPHooks installs HTTP hooks. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { set(&hooks.http, h) }

// Session returns the installed session hooks.
func Session() SessionHooks { return get(&hooks.session) }

// Layout returns the installed layout hooks.
func Layout() LayoutHooks { return get(&hooks.layout) }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return get(&hooks.cache) }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return get(&hooks.http) }

// Reset restores the no-op hooks. Tests that install hooks call it in
// cleanup.
func Reset() { hooks.reset() }
