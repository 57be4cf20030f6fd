package layout

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/jray/pkg/cache"
	"github.com/matzehuels/jray/pkg/graph"
	"github.com/matzehuels/jray/pkg/observability"
)

// DefaultCacheTTL is how long cached layouts stay valid.
const DefaultCacheTTL = 7 * 24 * time.Hour

const cacheKeyType = "layout"

// CachingOracle memoizes another oracle. Cache failures are logged and
// never fail a layout.
type CachingOracle struct {
	inner  Oracle
	cache  cache.Cache
	keyer  cache.Keyer
	ttl    time.Duration
	logger *log.Logger
}

// CacheOption configures a CachingOracle.
type CacheOption func(*CachingOracle)

// WithKeyer sets the key generator. Defaults to cache.NewDefaultKeyer().
func WithKeyer(k cache.Keyer) CacheOption {
	return func(o *CachingOracle) {
		if k != nil {
			o.keyer = k
		}
	}
}

// WithTTL sets the entry lifetime. Defaults to [DefaultCacheTTL].
func WithTTL(ttl time.Duration) CacheOption {
	return func(o *CachingOracle) { o.ttl = ttl }
}

// WithCacheLogger sets the logger. Defaults to log.Default().
func WithCacheLogger(l *log.Logger) CacheOption {
	return func(o *CachingOracle) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewCachingOracle wraps inner with c. A nil cache disables caching.
func NewCachingOracle(inner Oracle, c cache.Cache, opts ...CacheOption) *CachingOracle {
	if c == nil {
		c = cache.NewNullCache()
	}
	o := &CachingOracle{
		inner:  inner,
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		ttl:    DefaultCacheTTL,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Engine implements [Engine] by delegating to the wrapped oracle.
func (o *CachingOracle) Engine() string { return EngineName(o.inner) }

// Layout returns the cached positions for req, computing and storing them
// on a miss. A cached entry that does not cover every node is ignored.
func (o *CachingOracle) Layout(ctx context.Context, req Request) (map[string]graph.Position, error) {
	key := o.keyer.LayoutKey(req.Hash(), cache.LayoutKeyOpts{
		Direction:  string(req.Direction),
		Engine:     o.Engine(),
		NodeWidth:  graph.NodeWidth,
		NodeHeight: graph.NodeHeight,
	})
	hooks := observability.Cache()

	data, hit, err := o.cache.Get(ctx, key)
	if err != nil {
		o.logger.Warn("layout cache read failed", "err", err)
	}
	if hit {
		var pos map[string]graph.Position
		if err := json.Unmarshal(data, &pos); err == nil && covers(pos, req) {
			hooks.OnCacheHit(ctx, cacheKeyType)
			return pos, nil
		}
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	pos, err := o.inner.Layout(ctx, req)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(pos); err == nil {
		if err := o.cache.Set(ctx, key, data, o.ttl); err != nil {
			o.logger.Warn("layout cache write failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return pos, nil
}

func covers(pos map[string]graph.Position, req Request) bool {
	for _, b := range req.Nodes {
		if _, ok := pos[b.ID]; !ok {
			return false
		}
	}
	return true
}
