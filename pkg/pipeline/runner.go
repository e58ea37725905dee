package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/crackfree/pkg/cache"
	apperr "github.com/matzehuels/crackfree/pkg/errors"
	"github.com/matzehuels/crackfree/pkg/observability"
	"github.com/matzehuels/crackfree/pkg/wall"
)

// cacheKeyType labels count entries in cache hooks.
const cacheKeyType = "count"

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// LayerSet is the output of the first two stages for one width.
type LayerSet struct {
	Width     int
	Layers    []wall.Layer
	Adjacency wall.Adjacency
	Analyzer  *wall.Analyzer
	Stats     Stats
}

// Execute counts the walls described by opts, consulting the cache first
// unless opts.Refresh is set.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	key := r.Keyer.CountKey(opts.Width, opts.Height, opts.CountKeyOpts())
	if !opts.Refresh {
		if res, ok := r.lookup(ctx, key, opts); ok {
			r.Logger.Info("count from cache", "width", opts.Width, "height", opts.Height)
			return res, nil
		}
	}

	set, err := r.Layers(ctx, opts.Width, opts.Workers)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Width:  opts.Width,
		Height: opts.Height,
		Stats:  set.Stats,
	}

	hooks := observability.Pipeline()
	hooks.OnCountStart(ctx, opts.Width, opts.Height)
	countStart := time.Now()
	if opts.Exact {
		result.Exact, err = wall.CountBig(ctx, opts.Height, set.Adjacency)
		if err == nil && result.Exact.IsUint64() {
			result.Total = result.Exact.Uint64()
		}
	} else {
		result.Total, err = wall.Count(ctx, opts.Height, set.Adjacency, opts.Workers)
	}
	result.Stats.CountTime = time.Since(countStart)
	hooks.OnCountComplete(ctx, opts.Width, opts.Height, result.Stats.CountTime, err)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}

	r.Logger.Info("counted walls",
		"width", opts.Width,
		"height", opts.Height,
		"duration", result.Stats.CountTime)

	r.store(ctx, key, result)
	return result, nil
}

// Layers runs the enumerate and analyze stages for width.
func (r *Runner) Layers(ctx context.Context, width, workers int) (*LayerSet, error) {
	if err := apperr.ValidateWidth(width); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	hooks := observability.Pipeline()
	set := &LayerSet{Width: width}

	hooks.OnEnumerateStart(ctx, width)
	start := time.Now()
	set.Layers = wall.Enumerate(width)
	set.Stats.EnumerateTime = time.Since(start)
	set.Stats.LayerCount = len(set.Layers)
	hooks.OnEnumerateComplete(ctx, width, len(set.Layers), set.Stats.EnumerateTime)

	r.Logger.Info("enumerated layers",
		"width", width,
		"layers", len(set.Layers),
		"duration", set.Stats.EnumerateTime)

	hooks.OnAnalyzeStart(ctx, width, len(set.Layers))
	start = time.Now()
	set.Analyzer = wall.NewAnalyzer(set.Layers, width)
	adj, err := set.Analyzer.Adjacency(ctx, workers)
	set.Stats.AnalyzeTime = time.Since(start)
	hooks.OnAnalyzeComplete(ctx, width, adj.Edges(), set.Stats.AnalyzeTime, err)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	set.Adjacency = adj
	set.Stats.EdgeCount = adj.Edges()

	r.Logger.Info("analyzed compatibility",
		"pairs", set.Stats.EdgeCount,
		"duration", set.Stats.AnalyzeTime)

	return set, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cachedCount is the cache payload. The total is kept as a decimal string
// so exact counts beyond 64 bits round-trip.
type cachedCount struct {
	Total  string `json:"total"`
	Layers int    `json:"layers"`
	Edges  int    `json:"edges"`
}

// lookup returns the cached result for key. Any cache or decoding failure
// counts as a miss: the cache only ever saves work.
func (r *Runner) lookup(ctx context.Context, key string, opts Options) (*Result, bool) {
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache lookup failed", "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	var entry cachedCount
	if err := json.Unmarshal(data, &entry); err != nil {
		hooks.OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	res := &Result{
		Width:    opts.Width,
		Height:   opts.Height,
		CacheHit: true,
		Stats:    Stats{LayerCount: entry.Layers, EdgeCount: entry.Edges},
	}
	if opts.Exact {
		n, ok := new(big.Int).SetString(entry.Total, 10)
		if !ok {
			hooks.OnCacheMiss(ctx, cacheKeyType)
			return nil, false
		}
		res.Exact = n
		if n.IsUint64() {
			res.Total = n.Uint64()
		}
	} else {
		n, err := strconv.ParseUint(entry.Total, 10, 64)
		if err != nil {
			hooks.OnCacheMiss(ctx, cacheKeyType)
			return nil, false
		}
		res.Total = n
	}

	hooks.OnCacheHit(ctx, cacheKeyType)
	return res, true
}

// store writes result to the cache, logging rather than failing on error.
func (r *Runner) store(ctx context.Context, key string, result *Result) {
	data, err := json.Marshal(cachedCount{
		Total:  result.String(),
		Layers: result.Stats.LayerCount,
		Edges:  result.Stats.EdgeCount,
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLCount); err != nil {
		r.Logger.Warn("cache store failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}
