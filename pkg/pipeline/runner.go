package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flipbook/pkg/atlas"
	"github.com/matzehuels/flipbook/pkg/cache"
	"github.com/matzehuels/flipbook/pkg/errors"
	"github.com/matzehuels/flipbook/pkg/io"
	"github.com/matzehuels/flipbook/pkg/observability"
	"github.com/matzehuels/flipbook/pkg/source"
)

// cacheKeyType labels atlas entries in cache hooks.
const cacheKeyType = "atlas"

// Runner executes atlas builds with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long encoded atlases stay cached (default cache.TTLAtlas).
	TTL time.Duration
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

// Execute builds the atlas described by opts and writes it to opts.Output.
//
// No file is written unless every frame composited successfully. On success
// the result carries the grid and the output path.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	paths, err := source.List(opts.Input)
	if err != nil {
		return nil, err
	}
	if len(paths) > opts.Frames {
		opts.Logger.Debug("ignoring surplus frames", "found", len(paths), "using", opts.Frames)
	}
	paths, err = source.Select(paths, opts.Frames)
	if err != nil {
		return nil, err
	}

	plan, err := atlas.ComputeLayout(opts.Frames, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}
	observability.Atlas().OnLayout(ctx, plan.Frames, plan.Columns, plan.Rows)
	r.Logger.Info("computed layout",
		"frames", plan.Frames,
		"columns", plan.Columns,
		"rows", plan.Rows,
		"cell", fmt.Sprintf("%dx%d", plan.CellWidth, plan.CellHeight))

	result := &Result{Plan: plan, Sources: paths}

	data, hit, err := r.BuildWithCacheInfo(ctx, atlas.FileSources(paths), plan, opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.CacheHit = hit
	result.Size = len(data)

	writeStart := time.Now()
	if err := atlas.WriteBytes(opts.Output, data); err != nil {
		return nil, err
	}
	result.Output = opts.Output

	if opts.Manifest {
		path := io.ManifestPath(opts.Output)
		if err := io.ExportManifest(io.NewManifest(plan, opts.Output, paths), path); err != nil {
			return nil, fmt.Errorf("write manifest: %w", err)
		}
		result.ManifestPath = path
	}
	result.Stats.WriteTime = time.Since(writeStart)
	result.Stats.TotalTime = time.Since(start)

	r.Logger.Info("wrote atlas",
		"output", opts.Output,
		"bytes", result.Size,
		"cached", hit,
		"duration", result.Stats.TotalTime)

	return result, nil
}

// BuildWithCacheInfo returns the encoded atlas for frames, reusing a cached
// encoding when one exists. The boolean reports a cache hit. stats may be nil.
//
// opts must already be validated.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, frames []atlas.FrameSource, plan atlas.Plan, opts Options, stats *Stats) ([]byte, bool, error) {
	if stats == nil {
		stats = &Stats{}
	}
	hooks := observability.Cache()

	key, err := r.cacheKey(frames, opts)
	if err != nil {
		return nil, false, err
	}

	if key != "" && !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		if hit {
			hooks.OnCacheHit(ctx, cacheKeyType)
			r.Logger.Debug("atlas cache hit", "key", key)
			// Every frame was read to compute the key; report them as done.
			if opts.Progress != nil {
				for done := 1; done <= len(frames); done++ {
					opts.Progress(done * 100 / len(frames))
				}
			}
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, cacheKeyType)
	}

	data, err := r.Build(ctx, frames, plan, opts, stats)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return data, false, nil
}

// Build composes and encodes frames without consulting the cache.
// opts must already be validated.
func (r *Runner) Build(ctx context.Context, frames []atlas.FrameSource, plan atlas.Plan, opts Options, stats *Stats) ([]byte, error) {
	if stats == nil {
		stats = &Stats{}
	}
	hooks := observability.Atlas()

	composeStart := time.Now()
	hooks.OnComposeStart(ctx, len(frames))
	canvas, err := atlas.Compose(ctx, frames, plan, opts.composeOptions(opts.Progress)...)
	stats.ComposeTime = time.Since(composeStart)
	hooks.OnComposeComplete(ctx, len(frames), stats.ComposeTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("composited frames", "frames", len(frames), "duration", stats.ComposeTime)

	encodeStart := time.Now()
	data, err := atlas.EncodeBytes(canvas, opts.compression)
	stats.EncodeTime = time.Since(encodeStart)
	hooks.OnEncode(ctx, len(data), stats.EncodeTime, err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("encoded atlas", "bytes", len(data), "duration", stats.EncodeTime)
	return data, nil
}

// cacheKey hashes the content of every frame in order. It returns an empty
// key when caching is disabled.
func (r *Runner) cacheKey(frames []atlas.FrameSource, opts Options) (string, error) {
	if _, ok := r.Cache.(cache.NullCache); ok {
		return "", nil
	}
	h := cache.NewSequenceHasher()
	for i, src := range frames {
		rc, err := src.Open()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeDecodeFailure,
				&errors.FrameError{Index: i, Source: src.ID(), Err: err}, "read failed")
		}
		err = h.Add(rc)
		rc.Close()
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeDecodeFailure,
				&errors.FrameError{Index: i, Source: src.ID(), Err: err}, "read failed")
		}
	}
	return r.Keyer.AtlasKey(h.Sum(), opts.KeyOpts()), nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLAtlas
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
