package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lightbox/pkg/cache"
	"github.com/matzehuels/lightbox/pkg/grid"
	"github.com/matzehuels/lightbox/pkg/media"
	"github.com/matzehuels/lightbox/pkg/observability"
	"github.com/matzehuels/lightbox/pkg/packer"
)

// Key types reported to the cache hooks.
const (
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner executes pipeline stages with caching. Both the CLI and the HTTP
// server use it.
//
// The Runner holds no per-run state; multiple goroutines can use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses DefaultKeyer, a nil cache
// disables caching and a nil logger uses log.Default.
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs parse → pack → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)
	result := &Result{}

	parseStart := time.Now()
	items, err := Parse(&opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Items = items
	result.Stats.ItemCount = len(items)
	result.Stats.ParseTime = time.Since(parseStart)

	packStart := time.Now()
	layout, hash, packHit, err := r.pack(ctx, items, opts)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	result.Layout = layout
	result.ItemsHash = hash
	result.Stats.Columns = len(layout.Columns)
	result.Stats.PackTime = time.Since(packStart)
	result.CacheInfo.PackHit = packHit

	r.Logger.Info("packed items",
		"items", len(items),
		"columns", len(layout.Columns),
		"spread", layout.Balance.Spread,
		"cached", packHit,
		"duration", result.Stats.PackTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PackWithCacheInfo balances items into a placed layout and reports whether
// it came from the cache.
func (r *Runner) PackWithCacheInfo(ctx context.Context, items []media.Item, opts Options) (grid.Layout, bool, error) {
	if err := opts.ValidateForPack(); err != nil {
		return grid.Layout{}, false, err
	}
	r.applyLogger(&opts)
	l, _, hit, err := r.pack(ctx, items, opts)
	return l, hit, err
}

// Pack is PackWithCacheInfo without the cache hit info.
func (r *Runner) Pack(ctx context.Context, items []media.Item, opts Options) (grid.Layout, error) {
	l, _, err := r.PackWithCacheInfo(ctx, items, opts)
	return l, err
}

func (r *Runner) pack(ctx context.Context, items []media.Item, opts Options) (grid.Layout, string, bool, error) {
	hooks := observability.Pipeline()
	hooks.OnPackStart(ctx, len(items), opts.Columns)
	start := time.Now()

	hash, err := cache.HashJSON(items)
	if err != nil {
		hooks.OnPackComplete(ctx, opts.Columns, 0, time.Since(start), err)
		return grid.Layout{}, "", false, err
	}
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, ok := r.get(ctx, keyTypeLayout, key); ok {
			if l, err := grid.Unmarshal(data); err == nil {
				l.Title = opts.Title
				hooks.OnPackComplete(ctx, len(l.Columns), l.Balance.Spread, time.Since(start), nil)
				return l, hash, true, nil
			}
		}
	}

	model := opts.Model()
	cols, err := packer.New(model).Pack(items, opts.Columns)
	if err != nil {
		hooks.OnPackComplete(ctx, opts.Columns, 0, time.Since(start), err)
		return grid.Layout{}, "", false, err
	}
	l, err := grid.Place(cols, opts.Width, opts.Gutter, model)
	if err != nil {
		hooks.OnPackComplete(ctx, opts.Columns, 0, time.Since(start), err)
		return grid.Layout{}, "", false, err
	}

	if data, err := grid.Marshal(l); err == nil {
		r.set(ctx, keyTypeLayout, key, data, cache.TTLLayout)
	}
	l.Title = opts.Title
	hooks.OnPackComplete(ctx, len(l.Columns), l.Balance.Spread, time.Since(start), nil)
	return l, hash, false, nil
}

// RenderWithCacheInfo renders every requested format and reports whether
// all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l grid.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	layoutData, err := grid.Marshal(l)
	if err != nil {
		err = fmt.Errorf("serialize layout for cache key: %w", err)
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			data, ok := r.get(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
			return artifacts, true, nil
		}
	}

	rendered, err := Render(l, opts)
	if err != nil {
		hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}
	for format, data := range rendered {
		r.set(ctx, keyTypeArtifact, r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, l grid.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// get reads key from the cache. Backend errors are logged and treated as
// misses.
func (r *Runner) get(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

func (r *Runner) set(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
