package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mnrl/pkg/cache"
	mnrlio "github.com/matzehuels/mnrl/pkg/io"
	"github.com/matzehuels/mnrl/pkg/network"
	"github.com/matzehuels/mnrl/pkg/observability"
	"github.com/matzehuels/mnrl/pkg/render/nodelink"
	"github.com/matzehuels/mnrl/pkg/schema"
)

// DefaultTTL is how long cached results live when Runner.TTL is unset.
const DefaultTTL = 7 * 24 * time.Hour

// Runner encapsulates pipeline execution with caching.
// Both CLI and service use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner as long as the cache and validator are safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Validator gates documents before translation; nil means
	// [schema.Default].
	Validator schema.Validator
	// SchemaID identifies the validator in cache keys. Set it whenever
	// Validator is not the embedded schema.
	SchemaID string
	TTL      time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
		SchemaID: schema.URL,
		TTL:      DefaultTTL,
	}
}

// Load validates data and translates it into a network. source names the
// document in logs and metrics.
func (r *Runner) Load(ctx context.Context, source string, data []byte) (*network.Network, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source, len(data))

	start := time.Now()
	net, err := mnrlio.NewLoader(r.Validator).Load(data)
	elapsed := time.Since(start)
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, 0, elapsed, err)
		r.Logger.Debug("load failed", "source", source, "err", err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, source, net.NodeCount(), net.ConnectionCount(), elapsed, nil)
	r.Logger.Debug("loaded network",
		"source", source,
		"id", net.ID(),
		"nodes", net.NodeCount(),
		"connections", net.ConnectionCount(),
		"duration", elapsed)
	return net, nil
}

// NormalizeWithCacheInfo returns the canonical serialization of data and
// whether it came from the cache. refresh skips the cache lookup.
func (r *Runner) NormalizeWithCacheInfo(ctx context.Context, source string, data []byte, refresh bool) ([]byte, bool, error) {
	key := r.Keyer.NormalizeKey(cache.Hash(data), cache.NormalizeKeyOpts{SchemaID: r.SchemaID})
	if !refresh {
		if out, ok := r.lookup(ctx, key, "normalize"); ok {
			return out, true, nil
		}
	}

	net, err := r.Load(ctx, source, data)
	if err != nil {
		return nil, false, err
	}
	out, err := mnrlio.Marshal(net)
	if err != nil {
		return nil, false, fmt.Errorf("serialize: %w", err)
	}
	r.store(ctx, key, "normalize", out)
	return out, false, nil
}

// Normalize is a convenience wrapper that calls NormalizeWithCacheInfo and discards the cache hit info.
func (r *Runner) Normalize(ctx context.Context, source string, data []byte) ([]byte, error) {
	out, _, err := r.NormalizeWithCacheInfo(ctx, source, data, false)
	return out, err
}

// RenderWithCacheInfo loads data and renders it as a node-link diagram,
// reporting whether the artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, source string, data []byte, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	kt := keyType("render", opts.Format)
	key := r.Keyer.RenderKey(cache.Hash(data), opts.RenderKeyOpts())
	if !opts.Refresh {
		if out, ok := r.lookup(ctx, key, kt); ok {
			return out, true, nil
		}
	}

	net, err := r.Load(ctx, source, data)
	if err != nil {
		return nil, false, err
	}
	out, err := r.RenderNetwork(ctx, net, opts)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, key, kt, out)
	return out, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, source string, data []byte, opts Options) ([]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, source, data, opts)
	return out, err
}

// RenderNetwork renders an already loaded network without caching.
func (r *Runner) RenderNetwork(ctx context.Context, net *network.Network, opts Options) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format, net.NodeCount())

	start := time.Now()
	dot := nodelink.ToDOT(net, opts.NodelinkOptions())
	var (
		out []byte
		err error
	)
	switch opts.Format {
	case FormatDOT:
		out = []byte(dot)
	case FormatSVG:
		out, err = nodelink.RenderSVG(dot)
	case FormatPNG:
		out, err = nodelink.RenderPNG(dot)
	}
	elapsed := time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Format, elapsed, err)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	r.Logger.Debug("rendered network", "id", net.ID(), "format", opts.Format, "bytes", len(out), "duration", elapsed)
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup reads key from the cache. Backend errors count as misses.
func (r *Runner) lookup(ctx context.Context, key, kt string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key_type", kt, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, kt)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, kt)
	r.Logger.Debug("cache hit", "key_type", kt)
	return data, true
}

// store writes data under key. Failures are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key, kt string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key_type", kt, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kt, len(data))
}
