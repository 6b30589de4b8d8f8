package atlas

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flipbook/pkg/errors"
	"github.com/matzehuels/flipbook/pkg/observability"
)

// ProgressFunc receives the integer percentage of frames composited so far.
type ProgressFunc func(percent int)

// Option configures Compose.
type Option func(*composer)

type composer struct {
	filter     imaging.ResampleFilter
	workers    int
	progress   ProgressFunc
	autoOrient bool
}

// WithFilter sets the resampling filter used to fit frames to cells
// (default [imaging.CatmullRom]).
func WithFilter(f imaging.ResampleFilter) Option {
	return func(c *composer) { c.filter = f }
}

// WithWorkers bounds the number of frames decoded and resized concurrently
// (default runtime.NumCPU). A value of 1 processes frames strictly in order.
func WithWorkers(n int) Option {
	return func(c *composer) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithProgress registers a callback invoked once per composited frame.
func WithProgress(fn ProgressFunc) Option {
	return func(c *composer) { c.progress = fn }
}

// WithAutoOrientation applies EXIF orientation when decoding JPEG frames.
func WithAutoOrientation(enabled bool) Option {
	return func(c *composer) { c.autoOrient = enabled }
}

// Compose decodes frames, resizes each to the plan's cell size and pastes it
// into its cell on a transparent canvas of the plan's canvas size.
//
// len(frames) must equal plan.Frames; surplus input is the caller's to
// truncate. Any decode failure or cancellation aborts the whole composition
// and no canvas is returned. When several frames fail to decode, the error
// names the lowest failing index regardless of the worker count.
func Compose(ctx context.Context, frames []FrameSource, plan Plan, opts ...Option) (*image.RGBA, error) {
	if err := errors.ValidateFrameCount(plan.Frames); err != nil {
		return nil, err
	}
	if len(frames) != plan.Frames {
		return nil, errors.New(errors.ErrCodeInvalidFrameCount,
			"got %d frame sources, want exactly %d", len(frames), plan.Frames)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if plan.CellWidth < 1 || plan.CellHeight < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "cell size %dx%d is empty", plan.CellWidth, plan.CellHeight)
	}

	c := composer{filter: imaging.CatmullRom, workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&c)
	}

	canvas := image.NewRGBA(plan.Bounds())
	hooks := observability.Atlas()

	var (
		mu     sync.Mutex
		done   int
		failed = -1
		first  error
	)
	report := func() {
		mu.Lock()
		defer mu.Unlock()
		done++
		if c.progress != nil {
			c.progress(done * 100 / plan.Frames)
		}
	}
	fail := func(i int, err error) {
		mu.Lock()
		defer mu.Unlock()
		if failed < 0 || i < failed {
			failed, first = i, err
		}
	}
	// skip reports whether frame i can no longer change the result: a frame
	// before it has already failed.
	skip := func(i int) bool {
		mu.Lock()
		defer mu.Unlock()
		return failed >= 0 && i > failed
	}

	var g errgroup.Group
	g.SetLimit(c.workers)

	for i, src := range frames {
		if ctx.Err() != nil || skip(i) {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil || skip(i) {
				return nil
			}
			start := time.Now()
			err := c.place(canvas, plan, i, src)
			hooks.OnFrame(ctx, i, time.Since(start), err)
			if err != nil {
				fail(i, err)
				return nil
			}
			report()
			return nil
		})
	}
	_ = g.Wait()

	if first != nil {
		return nil, first
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, err, "composition canceled after %d of %d frames", done, plan.Frames)
	}
	return canvas, nil
}

// place decodes, resizes and pastes frame i. Cells of distinct frames never
// overlap, so concurrent calls write disjoint pixels.
func (c *composer) place(canvas *image.RGBA, plan Plan, i int, src FrameSource) error {
	img, err := decodeFrame(src, c.autoOrient)
	if err == nil && img == nil {
		err = fmt.Errorf("no image data")
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecodeFailure,
			&errors.FrameError{Index: i, Source: src.ID(), Err: err}, "decode failed")
	}

	resized := imaging.Resize(img, plan.CellWidth, plan.CellHeight, c.filter)
	draw.Draw(canvas, plan.Cell(i), resized, resized.Bounds().Min, draw.Over)
	return nil
}

// Filters maps filter names accepted by ParseFilter to resampling filters.
var Filters = map[string]imaging.ResampleFilter{
	"nearest":    imaging.NearestNeighbor,
	"box":        imaging.Box,
	"linear":     imaging.Linear,
	"catmullrom": imaging.CatmullRom,
	"lanczos":    imaging.Lanczos,
}

// DefaultFilter is the resampling filter name used when none is configured.
const DefaultFilter = "catmullrom"

// ParseFilter returns the resampling filter with the given name.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	if name == "" {
		name = DefaultFilter
	}
	f, ok := Filters[strings.ToLower(name)]
	if !ok {
		return imaging.ResampleFilter{}, errors.New(errors.ErrCodeInvalidFilter,
			"unknown filter %q (must be nearest, box, linear, catmullrom or lanczos)", name)
	}
	return f, nil
}
